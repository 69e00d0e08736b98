package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

type TemplateRepo struct {
	db *sql.DB
}

func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

func (r *TemplateRepo) Insert(t *domain.Template) error {
	cols, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("marshal template columns: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO templates (id, name, template_type, columns, is_default, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?)`,
		t.ID, t.Name, string(t.Type), string(cols), t.IsDefault,
		t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// List returns templates in creation order, optionally filtered by type.
func (r *TemplateRepo) List(templateType domain.TemplateType) ([]domain.Template, error) {
	query := `SELECT id, name, template_type, columns, is_default, created_at, updated_at
		FROM templates`
	var args []any
	if templateType != "" {
		query += ` WHERE template_type = ?`
		args = append(args, string(templateType))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TemplateRepo) GetByID(id string) (*domain.Template, error) {
	row := r.db.QueryRow(
		`SELECT id, name, template_type, columns, is_default, created_at, updated_at
		FROM templates WHERE id = ?`, id)
	return scanTemplate(row)
}

func (r *TemplateRepo) Update(t *domain.Template) error {
	cols, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("marshal template columns: %w", err)
	}
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.Exec(
		`UPDATE templates SET name = ?, template_type = ?, columns = ?, is_default = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, string(t.Type), string(cols), t.IsDefault,
		t.UpdatedAt.Format(time.RFC3339), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *TemplateRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	var templateType, cols, createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.Name, &templateType, &cols, &t.IsDefault, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan template: %w", err)
	}
	if err := json.Unmarshal([]byte(cols), &t.Columns); err != nil {
		return nil, fmt.Errorf("unmarshal template columns: %w", err)
	}
	t.Type = domain.TemplateType(templateType)
	t.CreatedAt = parseStoredTime(createdAt)
	t.UpdatedAt = parseStoredTime(updatedAt)
	return &t, nil
}
