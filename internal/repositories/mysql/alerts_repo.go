// internal/repositories/mysql/alerts_repo.go
// Repo untuk alert hasil klasifikasi anomali

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type AlertsRepo struct{ DB *sql.DB }

type AlertRow struct {
	AlertID      string
	MeterID      string
	AlertType    string // voltage_surge | voltage_drop | overcurrent | phantom_load | usage_outlier
	Severity     string // info | warning | critical
	Message      string
	Acknowledged bool
	CreatedAt    time.Time
}

type AlertFilter struct {
	MeterID      string
	Severities   []string
	Acknowledged *bool
	Since        *time.Time
	Limit        int
	Offset       int
}

func (r *AlertsRepo) Insert(ctx context.Context, a AlertRow) error {
	if r == nil || r.DB == nil {
		return errors.New("alerts repo: DB is nil")
	}
	const q = `
		INSERT INTO alerts (alert_id, meter_id, alert_type, severity, message, acknowledged, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`
	_, err := r.DB.ExecContext(ctx, q, a.AlertID, a.MeterID, a.AlertType, a.Severity, a.Message, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *AlertsRepo) List(ctx context.Context, f AlertFilter) ([]AlertRow, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("alerts repo: DB is nil")
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
		SELECT alert_id, meter_id, alert_type, severity, message, acknowledged, created_at
		FROM alerts
		WHERE 1=1`)

	if f.MeterID != "" {
		sb.WriteString(` AND meter_id = ?`)
		args = append(args, f.MeterID)
	}
	if len(f.Severities) > 0 {
		sb.WriteString(` AND severity IN (` + placeholders(len(f.Severities)) + `)`)
		for _, s := range f.Severities {
			args = append(args, s)
		}
	}
	if f.Acknowledged != nil {
		sb.WriteString(` AND acknowledged = ?`)
		args = append(args, *f.Acknowledged)
	}
	if f.Since != nil {
		sb.WriteString(` AND created_at >= ?`)
		args = append(args, f.Since.UTC())
	}

	sb.WriteString(` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	out := make([]AlertRow, 0, f.Limit)
	for rows.Next() {
		var a AlertRow
		if err := rows.Scan(&a.AlertID, &a.MeterID, &a.AlertType, &a.Severity, &a.Message, &a.Acknowledged, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Acknowledge menandai alert sudah dilihat operator.
func (r *AlertsRepo) Acknowledge(ctx context.Context, alertID string) error {
	if r == nil || r.DB == nil {
		return errors.New("alerts repo: DB is nil")
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE alerts SET acknowledged = 1 WHERE alert_id = ?`, alertID)
	if err != nil {
		return fmt.Errorf("ack alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountBySeverity untuk ringkasan dashboard.
func (r *AlertsRepo) CountBySeverity(ctx context.Context, since time.Time) (map[string]int, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("alerts repo: DB is nil")
	}
	const q = `
		SELECT severity, COUNT(*)
		FROM alerts
		WHERE created_at >= ?
		GROUP BY severity`
	rows, err := r.DB.QueryContext(ctx, q, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var sev string
		var n int
		if err := rows.Scan(&sev, &n); err != nil {
			return nil, fmt.Errorf("scan alert count: %w", err)
		}
		out[sev] = n
	}
	return out, rows.Err()
}
