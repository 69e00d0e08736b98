package domain

import "time"

// ShiftSummary holds the totals computed over one shift file upload. Each
// total is the sum of the resolved column across all rows, with unparsable
// values contributing zero. GrandTotal is kontant + kreditt; bomtur is
// reported separately and not included.
type ShiftSummary struct {
	TotalKontant float64 `json:"total_kontant"`
	TotalKreditt float64 `json:"total_kreditt"`
	TotalBomtur  float64 `json:"total_bomtur"`
	GrandTotal   float64 `json:"grand_total"`
	FileCount    int     `json:"file_count"`
	RowCount     int     `json:"row_count"`
}

// SalarySummary holds totals over a multi-file salary upload. Lønn, skatt
// and netto are summed from independently resolved columns; netto is never
// derived from lønn minus skatt.
type SalarySummary struct {
	TotalLonn  float64 `json:"total_lonn"`
	TotalSkatt float64 `json:"total_skatt"`
	TotalNetto float64 `json:"total_netto"`
	TotalTips  float64 `json:"total_tips"`
	FileCount  int     `json:"file_count"`
	RowCount   int     `json:"row_count"`
}

// PayoutGroup is one settlement day in a transaction report: all rows whose
// payout date falls on the same calendar day, with running sums and the
// from/to range of transaction timestamps seen in the group.
type PayoutGroup struct {
	PayoutDate string             `json:"payout_date"` // YYYY-MM-DD
	Rows       []map[string]string `json:"rows,omitempty"`
	FromDate   string             `json:"from_date,omitempty"`
	ToDate     string             `json:"to_date,omitempty"`
	Brutto     float64            `json:"brutto"`
	Avgifter   float64            `json:"avgifter"`
	Netto      float64            `json:"netto"`
	CardTypes  map[string]float64 `json:"card_types"`
}

// AccountInfo is the free-form metadata block printed at the top of a
// transaction settlement report.
type AccountInfo struct {
	KontoID     string `json:"konto_id,omitempty"`
	InnehaverID string `json:"innehaver_id,omitempty"`
	Fornavn     string `json:"fornavn,omitempty"`
	Etternavn   string `json:"etternavn,omitempty"`
	Firmanavn   string `json:"firmanavn,omitempty"`
	Markedsnavn string `json:"markedsnavn,omitempty"`
	Telefon     string `json:"telefon,omitempty"`
	Email       string `json:"email,omitempty"`
	Adresse     string `json:"adresse,omitempty"`
}

// ShiftReport is persisted once at upload time and re-rendered to PDF on
// demand. Reports are append-only: a new upload supersedes rather than
// amends an existing report.
type ShiftReport struct {
	ID        string              `json:"id"`
	DriverID  string              `json:"driver_id,omitempty"`
	FileName  string              `json:"file_name"`
	Columns   []string            `json:"columns"`
	Data      []map[string]string `json:"data"`
	Summary   ShiftSummary        `json:"summary"`
	CreatedAt time.Time           `json:"created_at"`
}

// ShiftEdit is an audit entry recording a manual correction to one cell of a
// stored shift report. Edits never rewrite the report's data or summary; they
// accumulate alongside it so the correction history stays inspectable.
type ShiftEdit struct {
	ID         string    `json:"id"`
	ReportID   string    `json:"report_id"`
	RowIndex   int       `json:"row_index"`
	ColumnName string    `json:"column_name"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type SalaryReport struct {
	ID           string              `json:"id"`
	DriverID     string              `json:"driver_id"`
	ReportPeriod string              `json:"report_period"`
	FileNames    []string            `json:"file_names"`
	Columns      []string            `json:"columns"`
	Data         []map[string]string `json:"data"`
	Summary      SalarySummary       `json:"summary"`
	CreatedAt    time.Time           `json:"created_at"`
}

type TransactionReport struct {
	ID            string        `json:"id"`
	ReportMonth   string        `json:"report_month"` // YYYY-MM
	AccountInfo   AccountInfo   `json:"account_info"`
	Groups        []PayoutGroup `json:"groups"`
	TotalBrutto   float64       `json:"total_brutto"`
	TotalAvgifter float64       `json:"total_avgifter"`
	TotalNetto    float64       `json:"total_netto"`
	FileName      string        `json:"file_name,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
