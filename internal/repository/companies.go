package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) Insert(c *domain.Company) error {
	_, err := r.db.Exec(
		`INSERT INTO companies (id, name, org_number, address, created_at, updated_at)
		VALUES (?,?,?,?,?,?)`,
		c.ID, c.Name, c.OrgNumber, c.Address,
		c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) List() ([]domain.Company, error) {
	rows, err := r.db.Query(
		`SELECT id, name, org_number, address, created_at, updated_at
		FROM companies ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CompanyRepo) GetByID(id string) (*domain.Company, error) {
	row := r.db.QueryRow(
		`SELECT id, name, org_number, address, created_at, updated_at
		FROM companies WHERE id = ?`, id)
	return scanCompany(row)
}

func (r *CompanyRepo) Update(c *domain.Company) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.Exec(
		`UPDATE companies SET name = ?, org_number = ?, address = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.OrgNumber, c.Address, c.UpdatedAt.Format(time.RFC3339), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *CompanyRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return affectedOrNotFound(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var c domain.Company
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Name, &c.OrgNumber, &c.Address, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan company: %w", err)
	}
	c.CreatedAt = parseStoredTime(createdAt)
	c.UpdatedAt = parseStoredTime(updatedAt)
	return &c, nil
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
