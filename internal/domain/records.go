package domain

import "time"

// Company is the taxi company whose name and org number appear on reports.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OrgNumber string    `json:"org_number,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Driver holds a driver's display name, the 4-digit id used in shift files,
// and the commission percentage shown on salary reports.
type Driver struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	DriverID             string    `json:"driver_id"`
	CommissionPercentage float64   `json:"commission_percentage"`
	BankAccountID        string    `json:"bank_account_id,omitempty"`
	IsDefault            bool      `json:"is_default"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type BankAccount struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"` // 0000.00.00000
	AccountName   string    `json:"account_name,omitempty"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TemplateType string

const (
	TemplateShift  TemplateType = "shift"
	TemplateSalary TemplateType = "salary"
)

// Template is a saved column selection that the UI re-applies to later
// uploads of the same file layout.
type Template struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"template_type"`
	Columns   []string     `json:"columns"`
	IsDefault bool         `json:"is_default"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
