package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jainrajat254/projecthub-backend/pkg/models"
	"github.com/jainrajat254/projecthub-backend/pkg/repository"
)

const bidColumns = `id, assignment_id, bidder_id, bidder_name, bid_amount, status, completion_date, created`

// CreateBid inserts a bid. The bids table carries UNIQUE(assignment_id,
// bidder_id), so a concurrent duplicate surfaces as ErrDuplicateBid instead
// of a second row.
func (r *SQLiteRepo) CreateBid(ctx context.Context, b *models.Bid) error {
	if b == nil {
		return fmt.Errorf("bid is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO bids (id, assignment_id, bidder_id, bidder_name, bid_amount, status, completion_date, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.AssignmentID, b.BidderID, b.BidderName, b.BidAmount, b.Status, b.CompletionDate, b.Created)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return repository.ErrDuplicateBid
		}
		return err
	}
	return nil
}

func (r *SQLiteRepo) GetBid(ctx context.Context, id string) (*models.Bid, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = ?`, id)
	return scanBid(row)
}

func (r *SQLiteRepo) GetByAssignmentAndBidder(ctx context.Context, assignmentID, bidderID string) (*models.Bid, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE assignment_id = ? AND bidder_id = ?`, assignmentID, bidderID)
	return scanBid(row)
}

// UpdateBidAmount changes the amount and, when a new completion date is
// given, the date. An empty date keeps the stored one.
func (r *SQLiteRepo) UpdateBidAmount(ctx context.Context, id string, amount int, completionDate string) error {
	if completionDate == "" {
		_, err := r.conn.Exec(ctx, `UPDATE bids SET bid_amount = ? WHERE id = ?`, amount, id)
		return err
	}
	_, err := r.conn.Exec(ctx, `UPDATE bids SET bid_amount = ?, completion_date = ? WHERE id = ?`, amount, completionDate, id)
	return err
}

func (r *SQLiteRepo) UpdateBidStatus(ctx context.Context, id, status string) error {
	_, err := r.conn.Exec(ctx, `UPDATE bids SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *SQLiteRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Bid, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+bidColumns+` FROM bids WHERE assignment_id = ? ORDER BY created ASC`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Bid
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.ID, &b.AssignmentID, &b.BidderID, &b.BidderName, &b.BidAmount, &b.Status, &b.CompletionDate, &b.Created); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBid(row *sql.Row) (*models.Bid, error) {
	var b models.Bid
	if err := row.Scan(&b.ID, &b.AssignmentID, &b.BidderID, &b.BidderName, &b.BidAmount, &b.Status, &b.CompletionDate, &b.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &b, nil
}
