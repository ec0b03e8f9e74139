package types

import (
	"context"
	"time"
)

// NodeKind selects which dependency function applies to a node.
type NodeKind string

/**
 * Node is an immutable unit of work. Identity is the pointer, so two nodes
 * with the same Label and Target are still different nodes.
 */
type Node struct {
	Label  string
	Target string
	Kind   NodeKind
}

func NewNode(label, target string, kind NodeKind) *Node {
	return &Node{Label: label, Target: target, Kind: kind}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Label
}

// Instruction describes a node to be constructed by the graph builder.
type Instruction struct {
	Label  string
	Target string
	Kind   NodeKind
}

/**
 * DependencyFunc returns the nodes in all which must complete before n may run.
 * It must be deterministic and side-effect free, it is evaluated exactly once
 * while the graph is built.
 */
type DependencyFunc func(n *Node, all []*Node) []*Node

// DependencyTable maps each kind to its dependency derivation.
type DependencyTable map[NodeKind]DependencyFunc

// WorkFunc is applied once to every node, its return value lands in Results.
type WorkFunc func(ctx context.Context, n *Node) (any, error)

type NodeTraceRecord struct {
	Index     int
	Label     string
	Target    string
	Kind      NodeKind
	Status    StatusType
	StartTime time.Time
	EndTime   time.Time
	Error     string `json:",omitempty"`
}

func NewNodeTraceRecord(index int, n *Node) *NodeTraceRecord {
	return &NodeTraceRecord{
		Index:  index,
		Label:  n.Label,
		Target: n.Target,
		Kind:   n.Kind,
		Status: Pending,
	}
}
