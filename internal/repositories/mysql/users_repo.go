// internal/repositories/mysql/users_repo.go
// Repo akun login (farmer/sarpanch/utility/government)

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type UsersRepo struct{ DB *sql.DB }

type UserRow struct {
	Username     string
	PasswordHash string
	Role         string // farmer | sarpanch | utility | government
	Village      sql.NullString
	MeterID      sql.NullString // terisi untuk role farmer
	CreatedAt    time.Time
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (UserRow, error) {
	var u UserRow
	if r == nil || r.DB == nil {
		return u, errors.New("users repo: DB is nil")
	}
	const q = `
		SELECT username, password_hash, role, village, meter_id, created_at
		FROM users WHERE username = ?`
	err := r.DB.QueryRowContext(ctx, q, username).
		Scan(&u.Username, &u.PasswordHash, &u.Role, &u.Village, &u.MeterID, &u.CreatedAt)
	if err != nil {
		return u, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u UserRow) error {
	if r == nil || r.DB == nil {
		return errors.New("users repo: DB is nil")
	}
	const q = `
		INSERT INTO users (username, password_hash, role, village, meter_id, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`
	_, err := r.DB.ExecContext(ctx, q, u.Username, u.PasswordHash, u.Role, u.Village, u.MeterID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
