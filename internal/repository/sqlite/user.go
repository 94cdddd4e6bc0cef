package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jainrajat254/projecthub-backend/pkg/models"
)

const userColumns = `id, name, email, password_hash, email_verified, onboarding_complete, profile_setup_complete, remember_me, verify_token, reset_token, updated`

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO users (id, name, email, password_hash, email_verified, onboarding_complete, profile_setup_complete, remember_me, verify_token, reset_token, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.EmailVerified, u.OnboardingComplete, u.ProfileSetupComplete, u.RememberMe, nullable(u.VerifyToken), nullable(u.ResetToken), now())
	return err
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepo) GetByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE verify_token = ?`, token)
	return scanUser(row)
}

func (r *SQLiteRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = ?`, token)
	return scanUser(row)
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE users SET name = ?, email = ?, password_hash = ?, email_verified = ?, onboarding_complete = ?, profile_setup_complete = ?, remember_me = ?, verify_token = ?, reset_token = ?, updated = ? WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.EmailVerified, u.OnboardingComplete, u.ProfileSetupComplete, u.RememberMe, nullable(u.VerifyToken), nullable(u.ResetToken), now(), u.ID)
	return err
}

func (r *SQLiteRepo) SetEmailVerified(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET email_verified = 1, verify_token = NULL, updated = ? WHERE id = ?`, now(), id)
	return err
}

func (r *SQLiteRepo) SetOnboardingComplete(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET onboarding_complete = 1, updated = ? WHERE id = ?`, now(), id)
	return err
}

func (r *SQLiteRepo) SetProfileSetupComplete(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET profile_setup_complete = 1, updated = ? WHERE id = ?`, now(), id)
	return err
}

func (r *SQLiteRepo) SetRememberMe(ctx context.Context, id string, remember bool) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET remember_me = ?, updated = ? WHERE id = ?`, remember, now(), id)
	return err
}

func (r *SQLiteRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET password_hash = ?, reset_token = NULL, updated = ? WHERE id = ?`, passwordHash, now(), id)
	return err
}

func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users ORDER BY updated DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var verify, reset sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.EmailVerified, &u.OnboardingComplete, &u.ProfileSetupComplete, &u.RememberMe, &verify, &reset, &u.Updated); err != nil {
			return nil, err
		}
		u.VerifyToken = verify.String
		u.ResetToken = reset.String
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var verify, reset sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.EmailVerified, &u.OnboardingComplete, &u.ProfileSetupComplete, &u.RememberMe, &verify, &reset, &u.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.VerifyToken = verify.String
	u.ResetToken = reset.String
	return &u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
