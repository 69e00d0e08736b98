package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

type BankAccountRepo struct {
	db *sql.DB
}

func NewBankAccountRepo(db *sql.DB) *BankAccountRepo {
	return &BankAccountRepo{db: db}
}

func (r *BankAccountRepo) Insert(a *domain.BankAccount) error {
	_, err := r.db.Exec(
		`INSERT INTO bank_accounts (id, account_number, account_name, is_default, created_at, updated_at)
		VALUES (?,?,?,?,?,?)`,
		a.ID, a.AccountNumber, a.AccountName, a.IsDefault,
		a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

func (r *BankAccountRepo) List() ([]domain.BankAccount, error) {
	rows, err := r.db.Query(
		`SELECT id, account_number, account_name, is_default, created_at, updated_at
		FROM bank_accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *BankAccountRepo) GetByID(id string) (*domain.BankAccount, error) {
	row := r.db.QueryRow(
		`SELECT id, account_number, account_name, is_default, created_at, updated_at
		FROM bank_accounts WHERE id = ?`, id)
	return scanBankAccount(row)
}

func (r *BankAccountRepo) Update(a *domain.BankAccount) error {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.db.Exec(
		`UPDATE bank_accounts SET account_number = ?, account_name = ?, is_default = ?, updated_at = ?
		WHERE id = ?`,
		a.AccountNumber, a.AccountName, a.IsDefault,
		a.UpdatedAt.Format(time.RFC3339), a.ID,
	)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *BankAccountRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM bank_accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanBankAccount(row rowScanner) (*domain.BankAccount, error) {
	var a domain.BankAccount
	var createdAt, updatedAt string
	err := row.Scan(&a.ID, &a.AccountNumber, &a.AccountName, &a.IsDefault, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan bank account: %w", err)
	}
	a.CreatedAt = parseStoredTime(createdAt)
	a.UpdatedAt = parseStoredTime(updatedAt)
	return &a, nil
}
