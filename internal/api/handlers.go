package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vosstaxi/taxirapport/internal/domain"
	"github.com/vosstaxi/taxirapport/internal/ingest"
	"github.com/vosstaxi/taxirapport/internal/report"
	"github.com/vosstaxi/taxirapport/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	companies     *repository.CompanyRepo
	drivers       *repository.DriverRepo
	accounts      *repository.BankAccountRepo
	templates     *repository.TemplateRepo
	shiftReports  *repository.ShiftReportRepo
	shiftEdits    *repository.ShiftEditRepo
	salaryReports *repository.SalaryReportRepo
	txReports     *repository.TransactionReportRepo
	ingestSvc     *ingest.Service
	builder       *report.Builder
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeRepoError maps a repository failure to 404 for unknown ids and 500
// for everything else.
func writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func urlID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// --- health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "taxirapport"})
}

// --- companies ---

func (h *Handlers) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (h *Handlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.companies.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var c domain.Company
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	if err := h.companies.Insert(&c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	existing, err := h.companies.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	var c domain.Company
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	if err := h.companies.Update(&c); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.companies.Delete(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- drivers ---

func (h *Handlers) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.drivers.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drivers": drivers})
}

func (h *Handlers) GetDriver(w http.ResponseWriter, r *http.Request) {
	d, err := h.drivers.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var d domain.Driver
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validateDriver(&d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	if err := h.drivers.Insert(&d); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handlers) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	existing, err := h.drivers.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	var d domain.Driver
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validateDriver(&d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d.ID = existing.ID
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	if err := h.drivers.Update(&d); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.drivers.Delete(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateDriver(d *domain.Driver) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	if len(d.DriverID) != 4 || strings.Trim(d.DriverID, "0123456789") != "" {
		return errors.New("driver_id must be 4 digits")
	}
	if d.CommissionPercentage == 0 {
		d.CommissionPercentage = 45.0
	}
	if d.CommissionPercentage < 0 || d.CommissionPercentage > 100 {
		return errors.New("commission_percentage must be between 0 and 100")
	}
	return nil
}

// --- bank accounts ---

func (h *Handlers) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bank_accounts": accounts})
}

func (h *Handlers) GetBankAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.accounts.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var a domain.BankAccount
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if !validAccountNumber(a.AccountNumber) {
		writeError(w, http.StatusBadRequest, "account_number must match 0000.00.00000")
		return
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	if err := h.accounts.Insert(&a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) UpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	existing, err := h.accounts.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	var a domain.BankAccount
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if !validAccountNumber(a.AccountNumber) {
		writeError(w, http.StatusBadRequest, "account_number must match 0000.00.00000")
		return
	}
	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	if err := h.accounts.Update(&a); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) DeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Delete(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validAccountNumber checks the Norwegian account format 0000.00.00000.
func validAccountNumber(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 5 {
		return false
	}
	for _, p := range parts {
		if strings.Trim(p, "0123456789") != "" {
			return false
		}
	}
	return true
}

// --- templates ---

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templateType := domain.TemplateType(r.URL.Query().Get("type"))
	templates, err := h.templates.List(templateType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.Template
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validateTemplate(&t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	if err := h.templates.Insert(&t); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	existing, err := h.templates.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	var t domain.Template
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validateTemplate(&t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	if err := h.templates.Update(&t); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.Delete(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateTemplate(t *domain.Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("name is required")
	}
	if t.Type != domain.TemplateShift && t.Type != domain.TemplateSalary {
		return errors.New("template_type must be shift or salary")
	}
	return nil
}
