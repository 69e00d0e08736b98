package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

// ShiftEditRepo stores the correction audit trail of shift reports. Entries
// are append-only and cascade away with their report.
type ShiftEditRepo struct {
	db *sql.DB
}

func NewShiftEditRepo(db *sql.DB) *ShiftEditRepo {
	return &ShiftEditRepo{db: db}
}

func (r *ShiftEditRepo) Insert(e *domain.ShiftEdit) error {
	_, err := r.db.Exec(
		`INSERT INTO shift_report_edits
		(id, report_id, row_index, column_name, old_value, new_value, note, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		e.ID, e.ReportID, e.RowIndex, e.ColumnName, e.OldValue, e.NewValue, e.Note,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert shift edit: %w", err)
	}
	return nil
}

// ListByReport returns a report's edits in the order they were made.
func (r *ShiftEditRepo) ListByReport(reportID string) ([]domain.ShiftEdit, error) {
	rows, err := r.db.Query(
		`SELECT id, report_id, row_index, column_name, old_value, new_value, note, created_at
		FROM shift_report_edits WHERE report_id = ? ORDER BY created_at, id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("list shift edits: %w", err)
	}
	defer rows.Close()

	var out []domain.ShiftEdit
	for rows.Next() {
		var e domain.ShiftEdit
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ReportID, &e.RowIndex, &e.ColumnName,
			&e.OldValue, &e.NewValue, &e.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan shift edit: %w", err)
		}
		e.CreatedAt = parseStoredTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
