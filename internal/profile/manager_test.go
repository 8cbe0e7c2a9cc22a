package profile

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arktoria/acolors/internal/bootstrap"
	"github.com/arktoria/acolors/internal/migrations"
	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/repository/sqlite"
	acsignal "github.com/arktoria/acolors/internal/signal"
)

func newTestManager(t *testing.T) (*Manager, *acsignal.Bus) {
	t.Helper()

	db, err := bootstrap.OpenSQLite(filepath.Join(t.TempDir(), "acolors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(db))

	bus := acsignal.NewBus(slog.Default())
	manager := NewManager(sqlite.NewStore(db), bus, slog.Default())
	t.Cleanup(manager.Close)

	return manager, bus
}

func firstGroupID(t *testing.T, manager *Manager) int32 {
	t.Helper()
	groups, err := manager.ListAllGroups(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, groups)
	return groups[0].ID
}

func TestAppendGroupAndReadBack(t *testing.T) {
	manager, bus := newTestManager(t)
	ctx := context.Background()

	sub := bus.Subscribe()
	defer sub.Cancel()

	data := repository.GroupData{Name: "G", IsSubscription: false, Type: 1}
	require.NoError(t, manager.AppendGroup(ctx, data))

	// The signal is published before the reply is delivered.
	select {
	case sig := <-sub.C:
		assert.Equal(t, acsignal.KindAppendGroup, sig.Kind)
	default:
		t.Fatal("no signal published before reply")
	}

	count, err := manager.CountGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	group, err := manager.GetGroupByID(ctx, firstGroupID(t, manager))
	require.NoError(t, err)
	assert.Equal(t, "G", group.Name)
	assert.NotZero(t, group.CreatedAt)
	assert.Equal(t, group.CreatedAt, group.ModifiedAt)
}

func TestAppendNodeForcesGroupFields(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, manager.AppendGroup(ctx, repository.GroupData{Name: "G"}))
	groupID := firstGroupID(t, manager)

	node := repository.NodeData{
		Name:      "n1",
		GroupID:   999,
		GroupName: "wrong",
		Protocol:  "shadowsocks",
		Address:   "test2",
		Port:      123,
		Password:  "test3",
		Raw:       "{}",
		Latency:   55,
	}
	require.NoError(t, manager.AppendNode(ctx, groupID, node))

	nodes, err := manager.ListAllNodes(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, groupID, nodes[0].GroupID)
	assert.Equal(t, "G", nodes[0].GroupName)
	assert.Equal(t, int32(-1), nodes[0].Latency)
	assert.Equal(t, "test2", nodes[0].Address)
}

func TestAppendNodeUnknownGroup(t *testing.T) {
	manager, _ := newTestManager(t)

	err := manager.AppendNode(context.Background(), 42, repository.NodeData{Name: "n"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRemoveGroupCascades(t *testing.T) {
	manager, bus := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, manager.AppendGroup(ctx, repository.GroupData{Name: "G"}))
	groupID := firstGroupID(t, manager)
	require.NoError(t, manager.AppendNode(ctx, groupID, repository.NodeData{Name: "a"}))
	require.NoError(t, manager.AppendNode(ctx, groupID, repository.NodeData{Name: "b"}))

	sub := bus.Subscribe()
	defer sub.Cancel()

	require.NoError(t, manager.RemoveGroupByID(ctx, groupID))

	sig := <-sub.C
	assert.Equal(t, acsignal.KindRemoveGroupByID, sig.Kind)
	assert.Equal(t, groupID, sig.GroupID)

	count, err := manager.CountNodes(ctx, groupID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = manager.GetGroupByID(ctx, groupID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateGroupReplacesNodesInOrder(t *testing.T) {
	manager, bus := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, manager.AppendGroup(ctx, repository.GroupData{Name: "G"}))
	groupID := firstGroupID(t, manager)
	require.NoError(t, manager.AppendNode(ctx, groupID, repository.NodeData{Name: "old"}))

	sub := bus.Subscribe()
	defer sub.Cancel()

	replacement := []repository.NodeData{
		{Name: "one", Protocol: "shadowsocks", Address: "h1", Port: 1},
		{Name: "two", Protocol: "shadowsocks", Address: "h2", Port: 2},
		{Name: "three", Protocol: "shadowsocks", Address: "h3", Port: 3},
	}
	require.NoError(t, manager.UpdateGroupByID(ctx, groupID, replacement))

	// EmptyGroup strictly precedes UpdateGroup; no AppendNode in between.
	sig := <-sub.C
	assert.Equal(t, acsignal.KindEmptyGroup, sig.Kind)
	assert.Equal(t, groupID, sig.GroupID)

	sig = <-sub.C
	assert.Equal(t, acsignal.KindUpdateGroup, sig.Kind)
	assert.Equal(t, groupID, sig.GroupID)

	nodes, err := manager.ListAllNodes(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "one", nodes[0].Name)
	assert.Equal(t, "two", nodes[1].Name)
	assert.Equal(t, "three", nodes[2].Name)
	for _, node := range nodes {
		assert.Equal(t, groupID, node.GroupID)
		assert.Equal(t, "G", node.GroupName)
		assert.Equal(t, int32(-1), node.Latency)
	}
}

func TestSetNodePreservesPlacement(t *testing.T) {
	manager, bus := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, manager.AppendGroup(ctx, repository.GroupData{Name: "G"}))
	groupID := firstGroupID(t, manager)
	require.NoError(t, manager.AppendNode(ctx, groupID, repository.NodeData{Name: "n"}))

	nodes, err := manager.ListAllNodes(ctx, groupID)
	require.NoError(t, err)
	nodeID := nodes[0].ID

	sub := bus.Subscribe()
	defer sub.Cancel()

	require.NoError(t, manager.SetNodeByID(ctx, nodeID, repository.NodeData{
		Name:     "renamed",
		Protocol: "trojan",
		Address:  "new-host",
		Port:     756,
	}))

	sig := <-sub.C
	assert.Equal(t, acsignal.KindSetNodeByID, sig.Kind)
	assert.Equal(t, nodeID, sig.NodeID)

	got, err := manager.GetNodeByID(ctx, nodeID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, groupID, got.GroupID)
	assert.Equal(t, "G", got.GroupName)
	assert.Equal(t, nodes[0].CreatedAt, got.CreatedAt)
}

func TestRuntimeValueSignals(t *testing.T) {
	manager, bus := newTestManager(t)
	ctx := context.Background()

	sub := bus.Subscribe()
	defer sub.Cancel()

	require.NoError(t, manager.SetRuntimeValue(ctx, repository.KeyCurrentNodeID, "3"))

	sig := <-sub.C
	assert.Equal(t, acsignal.KindRuntimeValueChanged, sig.Kind)
	assert.Equal(t, repository.KeyCurrentNodeID, sig.Key)

	value, err := manager.GetRuntimeValue(ctx, repository.KeyCurrentNodeID)
	require.NoError(t, err)
	assert.Equal(t, "3", value)

	_, err = manager.GetRuntimeValue(ctx, "MISSING")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAppendGroupConflict(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, manager.AppendGroup(ctx, repository.GroupData{Name: "dup"}))
	err := manager.AppendGroup(ctx, repository.GroupData{Name: "dup"})
	require.ErrorIs(t, err, repository.ErrConflict)
}
