package sqlite

import (
	"context"
	"database/sql"

	"github.com/jainrajat254/projecthub-backend/pkg/models"
)

// CreateSchema inserts or updates a document schema by name.
func (r *SQLiteRepo) CreateSchema(ctx context.Context, name, description, schemaJSON string) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO document_schemas (name, description, schema_json, created, updated) VALUES (?, ?, ?, strftime('%s','now'), strftime('%s','now')) ON CONFLICT(name) DO UPDATE SET description=excluded.description, schema_json=excluded.schema_json, updated=strftime('%s','now')`, name, description, schemaJSON)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetSchemaByName(ctx context.Context, name string) (*models.Schema, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, description, schema_json, created, updated FROM document_schemas WHERE name = ?`, name)
	var s models.Schema
	var desc sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &desc, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	s.Description = desc.String
	return &s, nil
}

func (r *SQLiteRepo) ListSchemas(ctx context.Context) ([]models.Schema, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, description, schema_json, created, updated FROM document_schemas ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Schema
	for rows.Next() {
		var s models.Schema
		var desc sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &desc, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
			return nil, err
		}
		s.Description = desc.String
		out = append(out, s)
	}
	return out, rows.Err()
}
