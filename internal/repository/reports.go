package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

// Report repos are append-only: a report is created once at export time,
// read many times for re-rendering, and deleted by user action. Derived
// figures are never updated after creation; a fresh upload supersedes.

type ShiftReportRepo struct {
	db *sql.DB
}

func NewShiftReportRepo(db *sql.DB) *ShiftReportRepo {
	return &ShiftReportRepo{db: db}
}

func (r *ShiftReportRepo) Insert(rep *domain.ShiftReport) error {
	cols, data, summary, err := marshalTriple(rep.Columns, rep.Data, rep.Summary)
	if err != nil {
		return fmt.Errorf("marshal shift report: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO shift_reports (id, driver_id, file_name, columns, data, summary, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		rep.ID, nullableString(rep.DriverID), rep.FileName, cols, data, summary,
		rep.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert shift report: %w", err)
	}
	return nil
}

func (r *ShiftReportRepo) List() ([]domain.ShiftReport, error) {
	rows, err := r.db.Query(
		`SELECT id, driver_id, file_name, columns, data, summary, created_at
		FROM shift_reports ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list shift reports: %w", err)
	}
	defer rows.Close()

	var out []domain.ShiftReport
	for rows.Next() {
		rep, err := scanShiftReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *ShiftReportRepo) GetByID(id string) (*domain.ShiftReport, error) {
	row := r.db.QueryRow(
		`SELECT id, driver_id, file_name, columns, data, summary, created_at
		FROM shift_reports WHERE id = ?`, id)
	return scanShiftReport(row)
}

func (r *ShiftReportRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM shift_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shift report: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanShiftReport(row rowScanner) (*domain.ShiftReport, error) {
	var rep domain.ShiftReport
	var driverID sql.NullString
	var cols, data, summary, createdAt string
	err := row.Scan(&rep.ID, &driverID, &rep.FileName, &cols, &data, &summary, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan shift report: %w", err)
	}
	rep.DriverID = driverID.String
	rep.CreatedAt = parseStoredTime(createdAt)
	if err := unmarshalTriple(cols, data, summary, &rep.Columns, &rep.Data, &rep.Summary); err != nil {
		return nil, fmt.Errorf("decode shift report %s: %w", rep.ID, err)
	}
	return &rep, nil
}

type SalaryReportRepo struct {
	db *sql.DB
}

func NewSalaryReportRepo(db *sql.DB) *SalaryReportRepo {
	return &SalaryReportRepo{db: db}
}

func (r *SalaryReportRepo) Insert(rep *domain.SalaryReport) error {
	cols, data, summary, err := marshalTriple(rep.Columns, rep.Data, rep.Summary)
	if err != nil {
		return fmt.Errorf("marshal salary report: %w", err)
	}
	fileNames, err := json.Marshal(rep.FileNames)
	if err != nil {
		return fmt.Errorf("marshal file names: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO salary_reports (id, driver_id, report_period, file_names, columns, data, summary, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		rep.ID, rep.DriverID, rep.ReportPeriod, string(fileNames), cols, data, summary,
		rep.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert salary report: %w", err)
	}
	return nil
}

func (r *SalaryReportRepo) List() ([]domain.SalaryReport, error) {
	rows, err := r.db.Query(
		`SELECT id, driver_id, report_period, file_names, columns, data, summary, created_at
		FROM salary_reports ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list salary reports: %w", err)
	}
	defer rows.Close()

	var out []domain.SalaryReport
	for rows.Next() {
		rep, err := scanSalaryReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *SalaryReportRepo) GetByID(id string) (*domain.SalaryReport, error) {
	row := r.db.QueryRow(
		`SELECT id, driver_id, report_period, file_names, columns, data, summary, created_at
		FROM salary_reports WHERE id = ?`, id)
	return scanSalaryReport(row)
}

func (r *SalaryReportRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM salary_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete salary report: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanSalaryReport(row rowScanner) (*domain.SalaryReport, error) {
	var rep domain.SalaryReport
	var fileNames, cols, data, summary, createdAt string
	err := row.Scan(&rep.ID, &rep.DriverID, &rep.ReportPeriod, &fileNames, &cols, &data, &summary, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan salary report: %w", err)
	}
	rep.CreatedAt = parseStoredTime(createdAt)
	if err := json.Unmarshal([]byte(fileNames), &rep.FileNames); err != nil {
		return nil, fmt.Errorf("decode salary report %s: %w", rep.ID, err)
	}
	if err := unmarshalTriple(cols, data, summary, &rep.Columns, &rep.Data, &rep.Summary); err != nil {
		return nil, fmt.Errorf("decode salary report %s: %w", rep.ID, err)
	}
	return &rep, nil
}

type TransactionReportRepo struct {
	db *sql.DB
}

func NewTransactionReportRepo(db *sql.DB) *TransactionReportRepo {
	return &TransactionReportRepo{db: db}
}

func (r *TransactionReportRepo) Insert(rep *domain.TransactionReport) error {
	accountInfo, err := json.Marshal(rep.AccountInfo)
	if err != nil {
		return fmt.Errorf("marshal account info: %w", err)
	}
	groups, err := json.Marshal(rep.Groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO transaction_reports
		(id, report_month, account_info, payout_groups, total_brutto, total_avgifter, total_netto, file_name, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rep.ID, rep.ReportMonth, string(accountInfo), string(groups),
		rep.TotalBrutto, rep.TotalAvgifter, rep.TotalNetto,
		rep.FileName, rep.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert transaction report: %w", err)
	}
	return nil
}

func (r *TransactionReportRepo) List() ([]domain.TransactionReport, error) {
	rows, err := r.db.Query(
		`SELECT id, report_month, account_info, payout_groups, total_brutto, total_avgifter, total_netto, file_name, created_at
		FROM transaction_reports ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list transaction reports: %w", err)
	}
	defer rows.Close()

	var out []domain.TransactionReport
	for rows.Next() {
		rep, err := scanTransactionReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

func (r *TransactionReportRepo) GetByID(id string) (*domain.TransactionReport, error) {
	row := r.db.QueryRow(
		`SELECT id, report_month, account_info, payout_groups, total_brutto, total_avgifter, total_netto, file_name, created_at
		FROM transaction_reports WHERE id = ?`, id)
	return scanTransactionReport(row)
}

func (r *TransactionReportRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM transaction_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction report: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanTransactionReport(row rowScanner) (*domain.TransactionReport, error) {
	var rep domain.TransactionReport
	var accountInfo, groups, createdAt string
	err := row.Scan(&rep.ID, &rep.ReportMonth, &accountInfo, &groups,
		&rep.TotalBrutto, &rep.TotalAvgifter, &rep.TotalNetto, &rep.FileName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction report: %w", err)
	}
	rep.CreatedAt = parseStoredTime(createdAt)
	if err := json.Unmarshal([]byte(accountInfo), &rep.AccountInfo); err != nil {
		return nil, fmt.Errorf("decode transaction report %s: %w", rep.ID, err)
	}
	if err := json.Unmarshal([]byte(groups), &rep.Groups); err != nil {
		return nil, fmt.Errorf("decode transaction report %s: %w", rep.ID, err)
	}
	return &rep, nil
}

func marshalTriple(cols []string, data []map[string]string, summary any) (string, string, string, error) {
	c, err := json.Marshal(cols)
	if err != nil {
		return "", "", "", err
	}
	d, err := json.Marshal(data)
	if err != nil {
		return "", "", "", err
	}
	s, err := json.Marshal(summary)
	if err != nil {
		return "", "", "", err
	}
	return string(c), string(d), string(s), nil
}

func unmarshalTriple(cols, data, summary string, colsOut *[]string, dataOut *[]map[string]string, summaryOut any) error {
	if err := json.Unmarshal([]byte(cols), colsOut); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dataOut); err != nil {
		return err
	}
	return json.Unmarshal([]byte(summary), summaryOut)
}
