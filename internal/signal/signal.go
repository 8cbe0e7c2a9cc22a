// Package signal defines the typed change events published by the profile
// worker and the core manager, plus the bus that fans them out to
// notification subscribers.
package signal

// Kind tags a Signal variant.
type Kind int

const (
	KindEmpty Kind = iota
	KindAppendGroup
	KindUpdateCoreStatus
	KindUpdateInbounds
	KindCoreConfigChanged
	KindRemoveGroupByID
	KindRemoveNodeByID
	KindSetGroupByID
	KindSetNodeByID
	KindAppendNode
	KindUpdateGroup
	KindEmptyGroup
	KindRuntimeValueChanged
	KindSetAPIStatus
	KindCoreChanged
)

// Signal is a tagged change event. GroupID/NodeID/Key are meaningful only
// for the kinds that carry them.
type Signal struct {
	Kind    Kind
	GroupID int32
	NodeID  int32
	Key     string
}

func Empty() Signal { return Signal{Kind: KindEmpty} }

func AppendGroup() Signal { return Signal{Kind: KindAppendGroup} }

func UpdateCoreStatus() Signal { return Signal{Kind: KindUpdateCoreStatus} }

func UpdateInbounds() Signal { return Signal{Kind: KindUpdateInbounds} }

func CoreConfigChanged() Signal { return Signal{Kind: KindCoreConfigChanged} }

func SetAPIStatus() Signal { return Signal{Kind: KindSetAPIStatus} }

func CoreChanged() Signal { return Signal{Kind: KindCoreChanged} }

func RemoveGroupByID(groupID int32) Signal {
	return Signal{Kind: KindRemoveGroupByID, GroupID: groupID}
}

func RemoveNodeByID(nodeID int32) Signal {
	return Signal{Kind: KindRemoveNodeByID, NodeID: nodeID}
}

func SetGroupByID(groupID int32) Signal {
	return Signal{Kind: KindSetGroupByID, GroupID: groupID}
}

func SetNodeByID(nodeID int32) Signal {
	return Signal{Kind: KindSetNodeByID, NodeID: nodeID}
}

func AppendNode(groupID int32) Signal {
	return Signal{Kind: KindAppendNode, GroupID: groupID}
}

func UpdateGroup(groupID int32) Signal {
	return Signal{Kind: KindUpdateGroup, GroupID: groupID}
}

func EmptyGroup(groupID int32) Signal {
	return Signal{Kind: KindEmptyGroup, GroupID: groupID}
}

func RuntimeValueChanged(key string) Signal {
	return Signal{Kind: KindRuntimeValueChanged, Key: key}
}
