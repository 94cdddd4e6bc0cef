package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jainrajat254/projecthub-backend/pkg/models"
)

func (r *SQLiteRepo) UpsertProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	_, err = r.conn.Exec(ctx, `INSERT INTO profiles (user_id, bio, college_name, semester, college_location, skills, profile_photo_id, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(user_id) DO UPDATE SET bio=excluded.bio, college_name=excluded.college_name, semester=excluded.semester, college_location=excluded.college_location, skills=excluded.skills, profile_photo_id=excluded.profile_photo_id, updated=excluded.updated`,
		p.UserID, p.Bio, p.CollegeName, p.Semester, p.CollegeLocation, string(skills), p.ProfilePhotoID, now())
	return err
}

func (r *SQLiteRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, `SELECT user_id, bio, college_name, semester, college_location, skills, profile_photo_id, updated FROM profiles WHERE user_id = ?`, userID)
	var p models.Profile
	var skills string
	if err := row.Scan(&p.UserID, &p.Bio, &p.CollegeName, &p.Semester, &p.CollegeLocation, &skills, &p.ProfilePhotoID, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	return &p, nil
}
