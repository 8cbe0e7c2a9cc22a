// Package profile serializes every mutation of the profile store through a
// single worker goroutine that exclusively owns the sqlite handle. On
// success each mutating operation publishes its change signal before the
// reply is delivered, so subscribers observe one deterministic ordering.
package profile

import (
	"context"
	"log/slog"

	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/repository/sqlite"
	acsignal "github.com/arktoria/acolors/internal/signal"
)

// requestBuffer bounds the task queue; a full queue blocks callers.
const requestBuffer = 16

// Manager is the producer side of the profile task queue.
type Manager struct {
	requests chan request
	done     chan struct{}
}

// NewManager starts the worker goroutine over store and returns the
// producer handle.
func NewManager(store *sqlite.Store, bus *acsignal.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		requests: make(chan request, requestBuffer),
		done:     make(chan struct{}),
	}
	w := &worker{store: store, bus: bus, logger: logger}
	go w.run(m.requests, m.done)
	return m
}

// Close stops the worker after the queued requests drain.
func (m *Manager) Close() {
	close(m.requests)
	<-m.done
}

// submit sends req and waits for the reply. Caller cancellation abandons
// the reply, but an already-queued operation still completes: store
// consistency comes before responsiveness.
func (m *Manager) submit(ctx context.Context, req request) (reply, error) {
	req.reply = make(chan reply, 1)

	select {
	case m.requests <- req:
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}

	select {
	case rep := <-req.reply:
		return rep, rep.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

func (m *Manager) CountGroups(ctx context.Context) (int64, error) {
	rep, err := m.submit(ctx, request{kind: opCountGroups})
	return rep.count, err
}

func (m *Manager) ListAllGroups(ctx context.Context) ([]repository.GroupData, error) {
	rep, err := m.submit(ctx, request{kind: opListAllGroups})
	return rep.groups, err
}

func (m *Manager) CountNodes(ctx context.Context, groupID int32) (int64, error) {
	rep, err := m.submit(ctx, request{kind: opCountNodes, groupID: groupID})
	return rep.count, err
}

func (m *Manager) ListAllNodes(ctx context.Context, groupID int32) ([]repository.NodeData, error) {
	rep, err := m.submit(ctx, request{kind: opListAllNodes, groupID: groupID})
	return rep.nodes, err
}

func (m *Manager) GetGroupByID(ctx context.Context, groupID int32) (*repository.GroupData, error) {
	rep, err := m.submit(ctx, request{kind: opGetGroupByID, groupID: groupID})
	return rep.group, err
}

func (m *Manager) GetNodeByID(ctx context.Context, nodeID int32) (*repository.NodeData, error) {
	rep, err := m.submit(ctx, request{kind: opGetNodeByID, nodeID: nodeID})
	return rep.node, err
}

func (m *Manager) SetGroupByID(ctx context.Context, groupID int32, data repository.GroupData) error {
	_, err := m.submit(ctx, request{kind: opSetGroupByID, groupID: groupID, group: &data})
	return err
}

func (m *Manager) SetNodeByID(ctx context.Context, nodeID int32, data repository.NodeData) error {
	_, err := m.submit(ctx, request{kind: opSetNodeByID, nodeID: nodeID, node: &data})
	return err
}

func (m *Manager) AppendGroup(ctx context.Context, data repository.GroupData) error {
	_, err := m.submit(ctx, request{kind: opAppendGroup, group: &data})
	return err
}

func (m *Manager) AppendNode(ctx context.Context, groupID int32, data repository.NodeData) error {
	_, err := m.submit(ctx, request{kind: opAppendNode, groupID: groupID, node: &data})
	return err
}

func (m *Manager) RemoveGroupByID(ctx context.Context, groupID int32) error {
	_, err := m.submit(ctx, request{kind: opRemoveGroupByID, groupID: groupID})
	return err
}

func (m *Manager) RemoveNodeByID(ctx context.Context, nodeID int32) error {
	_, err := m.submit(ctx, request{kind: opRemoveNodeByID, nodeID: nodeID})
	return err
}

// UpdateGroupByID atomically replaces the node set of a group, observable
// as EmptyGroup followed by UpdateGroup on the signal bus. Partial inserts
// are not rolled back on failure: the group may be left partially
// populated and callers must treat it so.
func (m *Manager) UpdateGroupByID(ctx context.Context, groupID int32, nodes []repository.NodeData) error {
	_, err := m.submit(ctx, request{kind: opUpdateGroup, groupID: groupID, nodes: nodes})
	return err
}

func (m *Manager) EmptyGroupByID(ctx context.Context, groupID int32) error {
	_, err := m.submit(ctx, request{kind: opEmptyGroup, groupID: groupID})
	return err
}

func (m *Manager) GetRuntimeValue(ctx context.Context, key string) (string, error) {
	rep, err := m.submit(ctx, request{kind: opGetRuntimeValue, key: key})
	return rep.value, err
}

func (m *Manager) SetRuntimeValue(ctx context.Context, key, value string) error {
	_, err := m.submit(ctx, request{kind: opSetRuntimeValue, key: key, value: value})
	return err
}
