package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arktoria/acolors/internal/repository/sqlite"
	acsignal "github.com/arktoria/acolors/internal/signal"
)

// worker owns the store. Requests are processed one at a time in submission
// order; store operations have no intrinsic timeout.
type worker struct {
	store  *sqlite.Store
	bus    *acsignal.Bus
	logger *slog.Logger
}

func (w *worker) run(requests <-chan request, done chan<- struct{}) {
	defer close(done)
	for req := range requests {
		w.handle(req)
	}
}

func (w *worker) handle(req request) {
	ctx := context.Background()

	switch req.kind {
	case opCountGroups:
		count, err := w.store.Groups().Count(ctx)
		req.reply <- reply{count: count, err: wrapOp("count groups", err)}

	case opListAllGroups:
		groups, err := w.store.Groups().List(ctx)
		req.reply <- reply{groups: groups, err: wrapOp("list groups", err)}

	case opCountNodes:
		count, err := w.store.Nodes().CountInGroup(ctx, req.groupID)
		req.reply <- reply{count: count, err: wrapOp("count nodes", err)}

	case opListAllNodes:
		nodes, err := w.store.Nodes().ListInGroup(ctx, req.groupID)
		req.reply <- reply{nodes: nodes, err: wrapOp("list nodes", err)}

	case opGetGroupByID:
		group, err := w.store.Groups().Get(ctx, req.groupID)
		req.reply <- reply{group: group, err: wrapOp("get group", err)}

	case opGetNodeByID:
		node, err := w.store.Nodes().Get(ctx, req.nodeID)
		req.reply <- reply{node: node, err: wrapOp("get node", err)}

	case opSetGroupByID:
		w.setGroup(ctx, req)

	case opSetNodeByID:
		w.setNode(ctx, req)

	case opAppendGroup:
		w.appendGroup(ctx, req)

	case opAppendNode:
		w.appendNode(ctx, req)

	case opRemoveGroupByID:
		w.removeGroup(ctx, req)

	case opRemoveNodeByID:
		w.removeNode(ctx, req)

	case opUpdateGroup:
		w.updateGroup(ctx, req)

	case opEmptyGroup:
		w.emptyGroup(ctx, req)

	case opGetRuntimeValue:
		value, err := w.store.Runtime().Get(ctx, req.key)
		req.reply <- reply{value: value, err: wrapOp("get runtime value", err)}

	case opSetRuntimeValue:
		if err := w.store.Runtime().Upsert(ctx, req.key, req.value); err != nil {
			req.reply <- reply{err: wrapOp("set runtime value", err)}
			return
		}
		w.publish(acsignal.RuntimeValueChanged(req.key))
		req.reply <- reply{}
	}
}

func (w *worker) setGroup(ctx context.Context, req request) {
	existing, err := w.store.Groups().Get(ctx, req.groupID)
	if err != nil {
		req.reply <- reply{err: wrapOp("set group", err)}
		return
	}

	data := *req.group
	data.CreatedAt = existing.CreatedAt
	data.StampModified()

	if err := w.store.Groups().Update(ctx, req.groupID, &data); err != nil {
		req.reply <- reply{err: wrapOp("set group", err)}
		return
	}
	w.publish(acsignal.SetGroupByID(req.groupID))
	req.reply <- reply{}
}

func (w *worker) setNode(ctx context.Context, req request) {
	existing, err := w.store.Nodes().Get(ctx, req.nodeID)
	if err != nil {
		req.reply <- reply{err: wrapOp("set node", err)}
		return
	}

	data := *req.node
	data.CreatedAt = existing.CreatedAt
	data.GroupID = existing.GroupID
	data.GroupName = existing.GroupName
	data.StampModified()

	if err := w.store.Nodes().Update(ctx, req.nodeID, &data); err != nil {
		req.reply <- reply{err: wrapOp("set node", err)}
		return
	}
	w.publish(acsignal.SetNodeByID(req.nodeID))
	req.reply <- reply{}
}

func (w *worker) appendGroup(ctx context.Context, req request) {
	data := *req.group
	data.StampCreated()

	if _, err := w.store.Groups().Insert(ctx, &data); err != nil {
		req.reply <- reply{err: wrapOp("append group", err)}
		return
	}
	w.publish(acsignal.AppendGroup())
	req.reply <- reply{}
}

func (w *worker) appendNode(ctx context.Context, req request) {
	group, err := w.store.Groups().Get(ctx, req.groupID)
	if err != nil {
		req.reply <- reply{err: wrapOp("append node", err)}
		return
	}

	data := *req.node
	data.Initialize()
	data.GroupID = group.ID
	data.GroupName = group.Name

	if _, err := w.store.Nodes().Insert(ctx, &data); err != nil {
		req.reply <- reply{err: wrapOp("append node", err)}
		return
	}
	w.publish(acsignal.AppendNode(req.groupID))
	req.reply <- reply{}
}

// removeGroup cascades to the group's nodes with an explicit delete.
func (w *worker) removeGroup(ctx context.Context, req request) {
	if err := w.store.Nodes().DeleteInGroup(ctx, req.groupID); err != nil {
		req.reply <- reply{err: wrapOp("remove group", err)}
		return
	}
	if err := w.store.Groups().Delete(ctx, req.groupID); err != nil {
		req.reply <- reply{err: wrapOp("remove group", err)}
		return
	}
	w.publish(acsignal.RemoveGroupByID(req.groupID))
	req.reply <- reply{}
}

func (w *worker) removeNode(ctx context.Context, req request) {
	if err := w.store.Nodes().Delete(ctx, req.nodeID); err != nil {
		req.reply <- reply{err: wrapOp("remove node", err)}
		return
	}
	w.publish(acsignal.RemoveNodeByID(req.nodeID))
	req.reply <- reply{}
}

// updateGroup replaces the whole node set. Partial progress after a failed
// insert is left in place.
func (w *worker) updateGroup(ctx context.Context, req request) {
	group, err := w.store.Groups().Get(ctx, req.groupID)
	if err != nil {
		req.reply <- reply{err: wrapOp("update group", err)}
		return
	}

	if err := w.store.Nodes().DeleteInGroup(ctx, req.groupID); err != nil {
		req.reply <- reply{err: wrapOp("update group", err)}
		return
	}
	w.publish(acsignal.EmptyGroup(req.groupID))

	for i := range req.nodes {
		data := req.nodes[i]
		data.Initialize()
		data.GroupID = group.ID
		data.GroupName = group.Name

		if _, err := w.store.Nodes().Insert(ctx, &data); err != nil {
			req.reply <- reply{err: wrapOp("update group", err)}
			return
		}
	}

	w.publish(acsignal.UpdateGroup(req.groupID))
	req.reply <- reply{}
}

func (w *worker) emptyGroup(ctx context.Context, req request) {
	if _, err := w.store.Groups().Get(ctx, req.groupID); err != nil {
		req.reply <- reply{err: wrapOp("empty group", err)}
		return
	}
	if err := w.store.Nodes().DeleteInGroup(ctx, req.groupID); err != nil {
		req.reply <- reply{err: wrapOp("empty group", err)}
		return
	}
	w.publish(acsignal.EmptyGroup(req.groupID))
	req.reply <- reply{}
}

func (w *worker) publish(sig acsignal.Signal) {
	if w.bus != nil {
		w.bus.Publish(sig)
	}
}

// wrapOp prefixes errors with the operation name, keeping sentinel kinds
// unwrappable.
func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
