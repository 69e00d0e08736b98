package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vosstaxi/taxirapport/internal/ingest"
	"github.com/vosstaxi/taxirapport/internal/report"
	"github.com/vosstaxi/taxirapport/internal/repository"
)

// Deps bundles everything the router needs.
type Deps struct {
	Companies     *repository.CompanyRepo
	Drivers       *repository.DriverRepo
	BankAccounts  *repository.BankAccountRepo
	Templates     *repository.TemplateRepo
	ShiftReports  *repository.ShiftReportRepo
	ShiftEdits    *repository.ShiftEditRepo
	SalaryReports *repository.SalaryReportRepo
	TxReports     *repository.TransactionReportRepo
	Ingest        *ingest.Service
	Builder       *report.Builder
}

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(deps Deps) http.Handler {
	h := &Handlers{
		companies:     deps.Companies,
		drivers:       deps.Drivers,
		accounts:      deps.BankAccounts,
		templates:     deps.Templates,
		shiftReports:  deps.ShiftReports,
		shiftEdits:    deps.ShiftEdits,
		salaryReports: deps.SalaryReports,
		txReports:     deps.TxReports,
		ingestSvc:     deps.Ingest,
		builder:       deps.Builder,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.ListCompanies)
			r.Post("/", h.CreateCompany)
			r.Get("/{id}", h.GetCompany)
			r.Put("/{id}", h.UpdateCompany)
			r.Delete("/{id}", h.DeleteCompany)
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", h.ListDrivers)
			r.Post("/", h.CreateDriver)
			r.Get("/{id}", h.GetDriver)
			r.Put("/{id}", h.UpdateDriver)
			r.Delete("/{id}", h.DeleteDriver)
		})

		r.Route("/bank-accounts", func(r chi.Router) {
			r.Get("/", h.ListBankAccounts)
			r.Post("/", h.CreateBankAccount)
			r.Get("/{id}", h.GetBankAccount)
			r.Put("/{id}", h.UpdateBankAccount)
			r.Delete("/{id}", h.DeleteBankAccount)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.CreateTemplate)
			r.Get("/{id}", h.GetTemplate)
			r.Put("/{id}", h.UpdateTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Route("/shift", func(r chi.Router) {
				r.Get("/", h.ListShiftReports)
				r.Post("/", h.CreateShiftReport)
				r.Get("/{id}", h.GetShiftReport)
				r.Delete("/{id}", h.DeleteShiftReport)
				r.Get("/{id}/pdf", h.ShiftReportPDF)
				r.Get("/{id}/edits", h.ListShiftEdits)
				r.Post("/{id}/edits", h.CreateShiftEdit)
			})
			r.Route("/salary", func(r chi.Router) {
				r.Get("/", h.ListSalaryReports)
				r.Post("/", h.CreateSalaryReport)
				r.Get("/{id}", h.GetSalaryReport)
				r.Delete("/{id}", h.DeleteSalaryReport)
				r.Get("/{id}/pdf", h.SalaryReportPDF)
			})
			r.Route("/transaction", func(r chi.Router) {
				r.Get("/", h.ListTransactionReports)
				r.Post("/", h.CreateTransactionReport)
				r.Get("/{id}", h.GetTransactionReport)
				r.Delete("/{id}", h.DeleteTransactionReport)
				r.Get("/{id}/pdf", h.TransactionReportPDF)
			})
		})

		r.Post("/upload/parse", h.ParseUpload)
	})

	return r
}
