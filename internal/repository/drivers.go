package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

type DriverRepo struct {
	db *sql.DB
}

func NewDriverRepo(db *sql.DB) *DriverRepo {
	return &DriverRepo{db: db}
}

func (r *DriverRepo) Insert(d *domain.Driver) error {
	_, err := r.db.Exec(
		`INSERT INTO drivers
		(id, name, driver_id, commission_percentage, bank_account_id, is_default, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		d.ID, d.Name, d.DriverID, d.CommissionPercentage,
		nullableString(d.BankAccountID), d.IsDefault,
		d.CreatedAt.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert driver: %w", err)
	}
	return nil
}

func (r *DriverRepo) List() ([]domain.Driver, error) {
	rows, err := r.db.Query(
		`SELECT id, name, driver_id, commission_percentage, bank_account_id, is_default, created_at, updated_at
		FROM drivers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var out []domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DriverRepo) GetByID(id string) (*domain.Driver, error) {
	row := r.db.QueryRow(
		`SELECT id, name, driver_id, commission_percentage, bank_account_id, is_default, created_at, updated_at
		FROM drivers WHERE id = ?`, id)
	return scanDriver(row)
}

func (r *DriverRepo) Update(d *domain.Driver) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := r.db.Exec(
		`UPDATE drivers SET name = ?, driver_id = ?, commission_percentage = ?,
		bank_account_id = ?, is_default = ?, updated_at = ?
		WHERE id = ?`,
		d.Name, d.DriverID, d.CommissionPercentage,
		nullableString(d.BankAccountID), d.IsDefault,
		d.UpdatedAt.Format(time.RFC3339), d.ID,
	)
	if err != nil {
		return fmt.Errorf("update driver: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *DriverRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var d domain.Driver
	var bankAccountID sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Name, &d.DriverID, &d.CommissionPercentage,
		&bankAccountID, &d.IsDefault, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan driver: %w", err)
	}
	d.BankAccountID = bankAccountID.String
	d.CreatedAt = parseStoredTime(createdAt)
	d.UpdatedAt = parseStoredTime(updatedAt)
	return &d, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
