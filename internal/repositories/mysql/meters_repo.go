// internal/repositories/mysql/meters_repo.go
// Repo untuk master data meter

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type MetersRepo struct{ DB *sql.DB }

// MeterRow: satu meter terdaftar.
type MeterRow struct {
	MeterID   string
	OwnerName string
	Village   sql.NullString
	MeterType string // residential | commercial | agricultural | industrial
	Status    string // active | inactive | maintenance | faulty
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MeterFilter struct {
	Village  string
	Type     string
	Statuses []string
	Limit    int
	Offset   int
}

func (r *MetersRepo) Create(ctx context.Context, m MeterRow) error {
	if r == nil || r.DB == nil {
		return errors.New("meters repo: DB is nil")
	}
	const q = `
		INSERT INTO meters (meter_id, owner_name, village, meter_type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := r.DB.ExecContext(ctx, q, m.MeterID, m.OwnerName, m.Village, m.MeterType, m.Status)
	if err != nil {
		return fmt.Errorf("insert meter: %w", err)
	}
	return nil
}

func (r *MetersRepo) Get(ctx context.Context, meterID string) (MeterRow, error) {
	var m MeterRow
	if r == nil || r.DB == nil {
		return m, errors.New("meters repo: DB is nil")
	}
	const q = `
		SELECT meter_id, owner_name, village, meter_type, status, created_at, updated_at
		FROM meters WHERE meter_id = ? LIMIT 1`
	err := r.DB.QueryRowContext(ctx, q, meterID).Scan(
		&m.MeterID, &m.OwnerName, &m.Village, &m.MeterType, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err // termasuk sql.ErrNoRows
	}
	return m, nil
}

func (r *MetersRepo) List(ctx context.Context, f MeterFilter) ([]MeterRow, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("meters repo: DB is nil")
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var sb strings.Builder
	var args []any
	sb.WriteString(`
		SELECT meter_id, owner_name, village, meter_type, status, created_at, updated_at
		FROM meters
		WHERE 1=1`)

	if f.Village != "" {
		sb.WriteString(` AND village LIKE ?`)
		args = append(args, "%"+f.Village+"%")
	}
	if f.Type != "" {
		sb.WriteString(` AND meter_type = ?`)
		args = append(args, f.Type)
	}
	if len(f.Statuses) > 0 {
		sb.WriteString(` AND status IN (` + placeholders(len(f.Statuses)) + `)`)
		for _, s := range f.Statuses {
			args = append(args, s)
		}
	}

	sb.WriteString(` ORDER BY meter_id ASC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query meters: %w", err)
	}
	defer rows.Close()

	out := make([]MeterRow, 0, f.Limit)
	for rows.Next() {
		var m MeterRow
		if err := rows.Scan(&m.MeterID, &m.OwnerName, &m.Village, &m.MeterType, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meter: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateStatus mengganti status meter (active/inactive/maintenance/faulty).
func (r *MetersRepo) UpdateStatus(ctx context.Context, meterID, status string) error {
	if r == nil || r.DB == nil {
		return errors.New("meters repo: DB is nil")
	}
	const q = `UPDATE meters SET status = ?, updated_at = NOW() WHERE meter_id = ?`
	res, err := r.DB.ExecContext(ctx, q, status, meterID)
	if err != nil {
		return fmt.Errorf("update meter status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *MetersRepo) Delete(ctx context.Context, meterID string) error {
	if r == nil || r.DB == nil {
		return errors.New("meters repo: DB is nil")
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM meters WHERE meter_id = ?`, meterID)
	if err != nil {
		return fmt.Errorf("delete meter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
