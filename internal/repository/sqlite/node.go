package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arktoria/acolors/internal/repository"
)

type nodeRepo struct {
	db *sql.DB
}

const nodeColumns = `ID, Name, GroupID, GroupName, RoutingID, RoutingName, Protocol,
	Address, Port, Password, Raw, URL, Latency, Upload, Download, CreatedAt, ModifiedAt`

func (r *nodeRepo) CountInGroup(ctx context.Context, groupID int32) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes WHERE GroupID = ?`, groupID)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return count, nil
}

func (r *nodeRepo) ListInGroup(ctx context.Context, groupID int32) ([]repository.NodeData, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE GroupID = ? ORDER BY ID`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var list []repository.NodeData
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

func (r *nodeRepo) Get(ctx context.Context, id int32) (*repository.NodeData, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE ID = ?`
	n, err := scanNode(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query node: %w", err)
	}
	return n, nil
}

func (r *nodeRepo) Insert(ctx context.Context, data *repository.NodeData) (int32, error) {
	const stmt = `INSERT INTO nodes(Name, GroupID, GroupName, RoutingID, RoutingName, Protocol,
	              Address, Port, Password, Raw, URL, Latency, Upload, Download, CreatedAt, ModifiedAt)
	              VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, stmt,
		data.Name, data.GroupID, data.GroupName, data.RoutingID, data.RoutingName,
		data.Protocol, data.Address, data.Port, data.Password, data.Raw, data.URL,
		data.Latency, data.Upload, data.Download, data.CreatedAt, data.ModifiedAt)
	if err != nil {
		return 0, wrapConstraint(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert node: %w", err)
	}
	return int32(id), nil
}

func (r *nodeRepo) Update(ctx context.Context, id int32, data *repository.NodeData) error {
	const stmt = `UPDATE nodes SET Name = ?, GroupID = ?, GroupName = ?, RoutingID = ?,
	              RoutingName = ?, Protocol = ?, Address = ?, Port = ?, Password = ?, Raw = ?,
	              URL = ?, Latency = ?, Upload = ?, Download = ?, CreatedAt = ?, ModifiedAt = ?
	              WHERE ID = ?`
	res, err := r.db.ExecContext(ctx, stmt,
		data.Name, data.GroupID, data.GroupName, data.RoutingID, data.RoutingName,
		data.Protocol, data.Address, data.Port, data.Password, data.Raw, data.URL,
		data.Latency, data.Upload, data.Download, data.CreatedAt, data.ModifiedAt, id)
	if err != nil {
		return wrapConstraint(err)
	}
	return requireAffected(res)
}

func (r *nodeRepo) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM nodes WHERE ID = ?`, id)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	return requireAffected(res)
}

func (r *nodeRepo) DeleteInGroup(ctx context.Context, groupID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM nodes WHERE GroupID = ?`, groupID)
	if err != nil {
		return fmt.Errorf("delete nodes in group: %w", err)
	}
	return nil
}

func scanNode(row rowScanner) (*repository.NodeData, error) {
	var n repository.NodeData
	var password sql.NullString
	var latency, upload, download sql.NullInt64
	if err := row.Scan(&n.ID, &n.Name, &n.GroupID, &n.GroupName, &n.RoutingID,
		&n.RoutingName, &n.Protocol, &n.Address, &n.Port, &password, &n.Raw,
		&n.URL, &latency, &upload, &download, &n.CreatedAt, &n.ModifiedAt); err != nil {
		return nil, err
	}
	n.Password = password.String
	n.Latency = int32(latency.Int64)
	n.Upload = upload.Int64
	n.Download = download.Int64
	return &n, nil
}
