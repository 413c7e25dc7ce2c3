package settingsrepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/apple00071/onnrides-sub005/model"
)

type Repo interface {
	Get(ctx context.Context, key string) (string, error)
	// CreateDefault inserts the key with a default value if it does not exist.
	CreateDefault(ctx context.Context, key, value string) error
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]model.Setting, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM settings WHERE key = $1 LIMIT 1`
	var v string
	err := r.db.QueryRowContext(ctx, q, key).Scan(&v)
	return v, err
}

func (r *repo) CreateDefault(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO settings (id, key, value)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, uuid.NewString(), key, value)
	return err
}

func (r *repo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO settings (id, key, value)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, q, uuid.NewString(), key, value)
	return err
}

func (r *repo) List(ctx context.Context) ([]model.Setting, error) {
	const q = `SELECT id, key, value, updated_at FROM settings ORDER BY key ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Setting
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
