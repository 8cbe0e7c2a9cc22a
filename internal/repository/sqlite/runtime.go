package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arktoria/acolors/internal/repository"
)

type runtimeRepo struct {
	db *sql.DB
}

func (r *runtimeRepo) Get(ctx context.Context, name string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT Value FROM runtime WHERE Name = ?`, name)
	var value sql.NullString
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("query runtime value: %w", err)
	}
	return value.String, nil
}

func (r *runtimeRepo) Upsert(ctx context.Context, name, value string) error {
	const stmt = `INSERT INTO runtime(Name, Type, Value) VALUES(?, 0, ?)
	              ON CONFLICT(Name) DO UPDATE SET Value = excluded.Value`
	if _, err := r.db.ExecContext(ctx, stmt, name, value); err != nil {
		return fmt.Errorf("upsert runtime value: %w", err)
	}
	return nil
}
