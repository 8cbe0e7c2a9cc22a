package profile

import "github.com/arktoria/acolors/internal/repository"

type opKind int

const (
	opCountGroups opKind = iota
	opListAllGroups
	opCountNodes
	opListAllNodes
	opGetGroupByID
	opGetNodeByID
	opSetGroupByID
	opSetNodeByID
	opAppendGroup
	opAppendNode
	opRemoveGroupByID
	opRemoveNodeByID
	opUpdateGroup
	opEmptyGroup
	opGetRuntimeValue
	opSetRuntimeValue
)

// request is the sum of every operation the worker understands, paired with
// a one-shot reply channel. Only the fields relevant to the kind are set.
type request struct {
	kind opKind

	groupID int32
	nodeID  int32
	group   *repository.GroupData
	node    *repository.NodeData
	nodes   []repository.NodeData
	key     string
	value   string

	reply chan reply
}

type reply struct {
	err    error
	count  int64
	groups []repository.GroupData
	nodes  []repository.NodeData
	group  *repository.GroupData
	node   *repository.NodeData
	value  string
}
