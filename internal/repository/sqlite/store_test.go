package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arktoria/acolors/internal/bootstrap"
	"github.com/arktoria/acolors/internal/migrations"
	"github.com/arktoria/acolors/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := bootstrap.OpenSQLite(filepath.Join(t.TempDir(), "acolors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(db))
	return NewStore(db)
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := repository.GroupData{
		Name:           "G",
		IsSubscription: true,
		Type:           2,
		URL:            "https://example.com/sub",
		CycleTime:      3600,
		CreatedAt:      100,
		ModifiedAt:     200,
	}
	id, err := store.Groups().Insert(ctx, &data)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := store.Groups().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, data.Name, got.Name)
	assert.Equal(t, data.IsSubscription, got.IsSubscription)
	assert.Equal(t, data.Type, got.Type)
	assert.Equal(t, data.URL, got.URL)
	assert.Equal(t, data.CycleTime, got.CycleTime)

	count, err := store.Groups().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGroupNameUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Groups().Insert(ctx, &repository.GroupData{Name: "dup"})
	require.NoError(t, err)

	_, err = store.Groups().Insert(ctx, &repository.GroupData{Name: "dup"})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestGroupNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Groups().Get(ctx, 12345)
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Groups().Delete(ctx, 12345)
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Groups().Update(ctx, 12345, &repository.GroupData{Name: "x"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNodeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groupID, err := store.Groups().Insert(ctx, &repository.GroupData{Name: "G"})
	require.NoError(t, err)

	node := repository.NodeData{
		Name:      "n1",
		GroupID:   groupID,
		GroupName: "G",
		Protocol:  "shadowsocks",
		Address:   "test2",
		Port:      123,
		Password:  "test3",
		Raw:       "{}",
		URL:       "ss://x@test2:123#n1",
		Latency:   -1,
	}
	id, err := store.Nodes().Insert(ctx, &node)
	require.NoError(t, err)

	got, err := store.Nodes().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "n1", got.Name)
	assert.Equal(t, groupID, got.GroupID)
	assert.Equal(t, "G", got.GroupName)
	assert.Equal(t, int32(-1), got.Latency)
	assert.Equal(t, "test2", got.Address)

	list, err := store.Nodes().ListInGroup(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	count, err := store.Nodes().CountInGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteInGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groupID, err := store.Groups().Insert(ctx, &repository.GroupData{Name: "G"})
	require.NoError(t, err)
	otherID, err := store.Groups().Insert(ctx, &repository.GroupData{Name: "H"})
	require.NoError(t, err)

	for i, gid := range []int32{groupID, groupID, otherID} {
		_, err := store.Nodes().Insert(ctx, &repository.NodeData{
			Name: "n", GroupID: gid, GroupName: "g", Protocol: "vmess",
			Address: "a", Port: int32(1000 + i), Raw: "{}", URL: "",
		})
		require.NoError(t, err)
	}

	require.NoError(t, store.Nodes().DeleteInGroup(ctx, groupID))

	count, err := store.Nodes().CountInGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = store.Nodes().CountInGroup(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRuntimeUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Runtime().Get(ctx, "CURRENT_NODE_ID")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Runtime().Upsert(ctx, "CURRENT_NODE_ID", "7"))
	value, err := store.Runtime().Get(ctx, "CURRENT_NODE_ID")
	require.NoError(t, err)
	assert.Equal(t, "7", value)

	require.NoError(t, store.Runtime().Upsert(ctx, "CURRENT_NODE_ID", "9"))
	value, err = store.Runtime().Get(ctx, "CURRENT_NODE_ID")
	require.NoError(t, err)
	assert.Equal(t, "9", value)
}
