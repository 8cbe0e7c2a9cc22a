package repository

import "context"

// GroupRepository provides typed access to the groups table.
type GroupRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]GroupData, error)
	Get(ctx context.Context, id int32) (*GroupData, error)
	Insert(ctx context.Context, data *GroupData) (int32, error)
	Update(ctx context.Context, id int32, data *GroupData) error
	Delete(ctx context.Context, id int32) error
}

// NodeRepository provides typed access to the nodes table.
type NodeRepository interface {
	CountInGroup(ctx context.Context, groupID int32) (int64, error)
	ListInGroup(ctx context.Context, groupID int32) ([]NodeData, error)
	Get(ctx context.Context, id int32) (*NodeData, error)
	Insert(ctx context.Context, data *NodeData) (int32, error)
	Update(ctx context.Context, id int32, data *NodeData) error
	Delete(ctx context.Context, id int32) error
	DeleteInGroup(ctx context.Context, groupID int32) error
}

// RuntimeRepository provides the runtime key-value table.
type RuntimeRepository interface {
	Get(ctx context.Context, name string) (string, error)
	Upsert(ctx context.Context, name, value string) error
}
