package document

import "time"

// OperationType names a primitive tree mutation.
type OperationType string

const (
	OpInsertNode OperationType = "insert_node"
	OpRemoveNode OperationType = "remove_node"
	OpSetNode    OperationType = "set_node"
)

// Operation records one applied mutation.
type Operation struct {
	Type          OperationType
	Path          Path
	Node          *Node
	Properties    map[string]interface{}
	NewProperties map[string]interface{}
	Timestamp     time.Time
}

// NewInsertOperation records an insertion.
func NewInsertOperation(at Path, n *Node) Operation {
	return Operation{Type: OpInsertNode, Path: at.Clone(), Node: n.Clone(), Timestamp: time.Now()}
}

// NewRemoveOperation records a removal.
func NewRemoveOperation(at Path, n *Node) Operation {
	return Operation{Type: OpRemoveNode, Path: at.Clone(), Node: n.Clone(), Timestamp: time.Now()}
}

// NewSetOperation records a property change.
func NewSetOperation(at Path, oldProps, newProps map[string]interface{}) Operation {
	return Operation{
		Type:          OpSetNode,
		Path:          at.Clone(),
		Properties:    oldProps,
		NewProperties: newProps,
		Timestamp:     time.Now(),
	}
}
