package repository

import "time"

// GroupData is one row of the groups table. Name is unique across all
// groups; ID is assigned by the store on insert.
type GroupData struct {
	ID             int32
	Name           string
	IsSubscription bool
	Type           int32
	URL            string
	CycleTime      int32
	CreatedAt      int64
	ModifiedAt     int64
}

// NodeData is one row of the nodes table. Raw holds the protocol-specific
// outbound JSON; URL the originating wire URL (empty for manual nodes).
// Latency is in milliseconds, -1 until measured.
type NodeData struct {
	ID          int32
	Name        string
	GroupID     int32
	GroupName   string
	RoutingID   int32
	RoutingName string
	Protocol    string
	Address     string
	Port        int32
	Password    string
	Raw         string
	URL         string
	Latency     int32
	Upload      int64
	Download    int64
	CreatedAt   int64
	ModifiedAt  int64
}

// RuntimeValue is one row of the runtime key-value table.
type RuntimeValue struct {
	ID    int32
	Name  string
	Type  int32
	Value string
}

// Well-known runtime keys.
const (
	KeyCurrentNodeID = "CURRENT_NODE_ID"
	KeyDefaultNodeID = "DEFAULT_NODE_ID"
)

// StampCreated sets both timestamps to now.
func (g *GroupData) StampCreated() {
	now := time.Now().Unix()
	g.CreatedAt = now
	g.ModifiedAt = now
}

// StampModified refreshes the modification timestamp.
func (g *GroupData) StampModified() {
	g.ModifiedAt = time.Now().Unix()
}

// Initialize stamps both timestamps and resets the latency marker.
func (n *NodeData) Initialize() {
	now := time.Now().Unix()
	n.CreatedAt = now
	n.ModifiedAt = now
	n.Latency = -1
}

// StampModified refreshes the modification timestamp.
func (n *NodeData) StampModified() {
	n.ModifiedAt = time.Now().Unix()
}
