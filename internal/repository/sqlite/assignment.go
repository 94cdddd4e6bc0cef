package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jainrajat254/projecthub-backend/pkg/models"
)

const assignmentColumns = `id, title, description, subject, deadline, budget, created_by, created`

func (r *SQLiteRepo) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	if a == nil {
		return fmt.Errorf("assignment is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO assignments (id, title, description, subject, deadline, budget, created_by, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description, a.Subject, a.Deadline, a.Budget, a.CreatedBy, a.Created)
	return err
}

func (r *SQLiteRepo) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = ?`, id)
	var a models.Assignment
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Subject, &a.Deadline, &a.Budget, &a.CreatedBy, &a.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}

func (r *SQLiteRepo) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	if a == nil {
		return fmt.Errorf("assignment is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE assignments SET title = ?, description = ?, subject = ?, deadline = ?, budget = ? WHERE id = ?`,
		a.Title, a.Description, a.Subject, a.Deadline, a.Budget, a.ID)
	return err
}

func (r *SQLiteRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Assignment, error) {
	return r.listAssignments(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE created_by = ? ORDER BY created DESC`, ownerID)
}

func (r *SQLiteRepo) ListAvailable(ctx context.Context, excludeOwnerID string) ([]models.Assignment, error) {
	return r.listAssignments(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE created_by != ? ORDER BY created DESC`, excludeOwnerID)
}

func (r *SQLiteRepo) listAssignments(ctx context.Context, query string, args ...any) ([]models.Assignment, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Subject, &a.Deadline, &a.Budget, &a.CreatedBy, &a.Created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
