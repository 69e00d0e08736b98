package main

import (
	"log"
	"net/http"
	"os"

	"github.com/vosstaxi/taxirapport/internal/api"
	"github.com/vosstaxi/taxirapport/internal/ingest"
	"github.com/vosstaxi/taxirapport/internal/report"
	"github.com/vosstaxi/taxirapport/internal/repository"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "taxirapport.db"
	}

	log.Printf("Initializing database at %s", dbPath)
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	companyRepo := repository.NewCompanyRepo(db)
	driverRepo := repository.NewDriverRepo(db)
	accountRepo := repository.NewBankAccountRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	shiftRepo := repository.NewShiftReportRepo(db)
	shiftEditRepo := repository.NewShiftEditRepo(db)
	salaryRepo := repository.NewSalaryReportRepo(db)
	txRepo := repository.NewTransactionReportRepo(db)

	// Create services.
	ingestSvc := ingest.NewService(driverRepo, shiftRepo, salaryRepo, txRepo)

	router := api.NewRouter(api.Deps{
		Companies:     companyRepo,
		Drivers:       driverRepo,
		BankAccounts:  accountRepo,
		Templates:     templateRepo,
		ShiftReports:  shiftRepo,
		ShiftEdits:    shiftEditRepo,
		SalaryReports: salaryRepo,
		TxReports:     txRepo,
		Ingest:        ingestSvc,
		Builder:       &report.Builder{},
	})

	log.Printf("Voss Taxi Reporting Service")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("API base: http://localhost:%s/api/v1", port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  CRUD   /api/v1/companies")
	log.Printf("  CRUD   /api/v1/drivers")
	log.Printf("  CRUD   /api/v1/bank-accounts")
	log.Printf("  CRUD   /api/v1/templates")
	log.Printf("  POST   /api/v1/reports/{shift|salary|transaction}")
	log.Printf("  GET    /api/v1/reports/{shift|salary|transaction}/{id}/pdf")
	log.Printf("  POST   /api/v1/reports/shift/{id}/edits")
	log.Printf("  POST   /api/v1/upload/parse")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
