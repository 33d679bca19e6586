package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Node ids per process type. Each running process must use a distinct one.
const (
	NodeServer int64 = 1
	NodeWorker int64 = 2
	NodeCLI    int64 = 3
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the snowflake node. Later calls are no-ops.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered int64 id. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// NewOpaque returns a random string id for values that are never sorted,
// e.g. manual trigger idempotency keys.
func NewOpaque() string {
	return uuid.NewString()
}
