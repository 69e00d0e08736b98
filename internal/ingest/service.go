// Package ingest orchestrates uploads: validate the selection, parse the
// batch, resolve columns, aggregate, and persist the resulting report record.
// Nothing is persisted unless the batch produced at least one row.
package ingest

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vosstaxi/taxirapport/internal/aggregate"
	"github.com/vosstaxi/taxirapport/internal/columns"
	"github.com/vosstaxi/taxirapport/internal/domain"
	"github.com/vosstaxi/taxirapport/internal/repository"
	"github.com/vosstaxi/taxirapport/internal/tabular"
)

// Selection errors block the upload before any file is parsed.
var (
	ErrNoFiles  = errors.New("no files selected")
	ErrNoDriver = errors.New("no driver selected")
)

type Service struct {
	drivers       *repository.DriverRepo
	shiftReports  *repository.ShiftReportRepo
	salaryReports *repository.SalaryReportRepo
	txReports     *repository.TransactionReportRepo

	// Now is replaceable in tests.
	Now func() time.Time
}

func NewService(
	drivers *repository.DriverRepo,
	shiftReports *repository.ShiftReportRepo,
	salaryReports *repository.SalaryReportRepo,
	txReports *repository.TransactionReportRepo,
) *Service {
	return &Service{
		drivers:       drivers,
		shiftReports:  shiftReports,
		salaryReports: salaryReports,
		txReports:     txReports,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateShiftReport parses a shift upload, sums kontant/kreditt/bomtur and
// stores the report. The driver is optional; when given it must exist.
func (s *Service) CreateShiftReport(ctx context.Context, files []tabular.File, driverID string, hasHeader bool) (*domain.ShiftReport, []tabular.FileError, error) {
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}
	if driverID != "" {
		if _, err := s.drivers.GetByID(driverID); err != nil {
			return nil, nil, err
		}
	}

	table, fileErrs, err := tabular.ParseBatch(ctx, files, hasHeader)
	if err != nil {
		return nil, fileErrs, err
	}

	res := columns.Resolve(table.Columns)
	rep := &domain.ShiftReport{
		ID:        uuid.NewString(),
		DriverID:  driverID,
		FileName:  joinNames(files),
		Columns:   table.Columns,
		Data:      table.RowMaps(),
		Summary:   aggregate.ShiftSummary(table, res, len(files)),
		CreatedAt: s.now().UTC(),
	}
	if err := s.shiftReports.Insert(rep); err != nil {
		return nil, fileErrs, err
	}
	log.Printf("[ingest] shift report %s: %d rows from %d file(s)", rep.ID, rep.Summary.RowCount, len(files))
	return rep, fileErrs, nil
}

// CreateSalaryReport parses a multi-file salary upload for one driver. The
// driver selection is mandatory.
func (s *Service) CreateSalaryReport(ctx context.Context, files []tabular.File, driverID, reportPeriod string, hasHeader bool) (*domain.SalaryReport, []tabular.FileError, error) {
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}
	if driverID == "" {
		return nil, nil, ErrNoDriver
	}
	if _, err := s.drivers.GetByID(driverID); err != nil {
		return nil, nil, err
	}

	table, fileErrs, err := tabular.ParseBatch(ctx, files, hasHeader)
	if err != nil {
		return nil, fileErrs, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	res := columns.Resolve(table.Columns)
	rep := &domain.SalaryReport{
		ID:           uuid.NewString(),
		DriverID:     driverID,
		ReportPeriod: reportPeriod,
		FileNames:    names,
		Columns:      table.Columns,
		Data:         table.RowMaps(),
		Summary:      aggregate.SalarySummary(table, res, len(files)),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.salaryReports.Insert(rep); err != nil {
		return nil, fileErrs, err
	}
	log.Printf("[ingest] salary report %s: %d rows from %d file(s)", rep.ID, rep.Summary.RowCount, len(files))
	return rep, fileErrs, nil
}

// CreateTransactionReport parses a transaction export, groups rows by payout
// day and stores the settlement report with its grand totals.
func (s *Service) CreateTransactionReport(ctx context.Context, files []tabular.File, info domain.AccountInfo, reportMonth string) (*domain.TransactionReport, []tabular.FileError, error) {
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}

	table, fileErrs, err := tabular.ParseBatch(ctx, files, true)
	if err != nil {
		return nil, fileErrs, err
	}

	res := columns.Resolve(table.Columns)
	groups := aggregate.GroupByPayoutDate(table, res)

	rep := &domain.TransactionReport{
		ID:          uuid.NewString(),
		ReportMonth: reportMonth,
		AccountInfo: info,
		Groups:      groups,
		FileName:    joinNames(files),
		CreatedAt:   s.now().UTC(),
	}
	for _, g := range groups {
		rep.TotalBrutto += g.Brutto
		rep.TotalAvgifter += g.Avgifter
		rep.TotalNetto += g.Netto
	}
	if err := s.txReports.Insert(rep); err != nil {
		return nil, fileErrs, err
	}
	log.Printf("[ingest] transaction report %s: %d payout group(s)", rep.ID, len(groups))
	return rep, fileErrs, nil
}

// Preview is the parse-only response for POST /upload/parse.
type Preview struct {
	Columns    []string            `json:"columns"`
	RowCount   int                 `json:"row_count"`
	Rows       []map[string]string `json:"rows"`
	FileErrors []tabular.FileError `json:"file_errors,omitempty"`
}

const previewRows = 10

// ParsePreview parses the upload without persisting anything and returns the
// resolved column set, the row count and the first rows. On an empty batch
// the per-file errors collected so far are still returned, so the caller can
// tell the user which files failed.
func (s *Service) ParsePreview(ctx context.Context, files []tabular.File, hasHeader bool) (*Preview, []tabular.FileError, error) {
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}
	table, fileErrs, err := tabular.ParseBatch(ctx, files, hasHeader)
	if err != nil {
		return nil, fileErrs, err
	}

	rows := table.RowMaps()
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	return &Preview{
		Columns:    table.Columns,
		RowCount:   len(table.Rows),
		Rows:       rows,
		FileErrors: fileErrs,
	}, fileErrs, nil
}

func joinNames(files []tabular.File) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
