package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arktoria/acolors/internal/repository"
)

type groupRepo struct {
	db *sql.DB
}

const groupColumns = "ID, Name, IsSubscription, Type, Url, CycleTime, CreatedAt, ModifiedAt"

func (r *groupRepo) Count(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}
	return count, nil
}

func (r *groupRepo) List(ctx context.Context) ([]repository.GroupData, error) {
	query := `SELECT ` + groupColumns + ` FROM groups ORDER BY ID`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var list []repository.GroupData
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *g)
	}
	return list, rows.Err()
}

func (r *groupRepo) Get(ctx context.Context, id int32) (*repository.GroupData, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE ID = ?`
	g, err := scanGroup(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query group: %w", err)
	}
	return g, nil
}

func (r *groupRepo) Insert(ctx context.Context, data *repository.GroupData) (int32, error) {
	const stmt = `INSERT INTO groups(Name, IsSubscription, Type, Url, CycleTime, CreatedAt, ModifiedAt)
	              VALUES(?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, stmt,
		data.Name, boolToInt(data.IsSubscription), data.Type, data.URL,
		data.CycleTime, data.CreatedAt, data.ModifiedAt)
	if err != nil {
		return 0, wrapConstraint(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert group: %w", err)
	}
	return int32(id), nil
}

func (r *groupRepo) Update(ctx context.Context, id int32, data *repository.GroupData) error {
	const stmt = `UPDATE groups SET Name = ?, IsSubscription = ?, Type = ?, Url = ?,
	              CycleTime = ?, CreatedAt = ?, ModifiedAt = ? WHERE ID = ?`
	res, err := r.db.ExecContext(ctx, stmt,
		data.Name, boolToInt(data.IsSubscription), data.Type, data.URL,
		data.CycleTime, data.CreatedAt, data.ModifiedAt, id)
	if err != nil {
		return wrapConstraint(err)
	}
	return requireAffected(res)
}

func (r *groupRepo) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE ID = ?`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*repository.GroupData, error) {
	var g repository.GroupData
	var url sql.NullString
	var cycle sql.NullInt64
	if err := row.Scan(&g.ID, &g.Name, &g.IsSubscription, &g.Type, &url,
		&cycle, &g.CreatedAt, &g.ModifiedAt); err != nil {
		return nil, err
	}
	g.URL = url.String
	g.CycleTime = int32(cycle.Int64)
	return &g, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
