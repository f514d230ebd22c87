package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var nodeMap sync.Map // map[string]*snowflake.Node

// InitNode initializes a named snowflake node.
func InitNode(name string, nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("InitNode failed: %w", err)
	}
	nodeMap.Store(name, n)
	return nil
}

// NewFrom generates an id from a named node.
func NewFrom(name string) snowflake.ID {
	val, ok := nodeMap.Load(name)
	if !ok {
		panic(fmt.Sprintf("snowflake node not initialized: %s", name))
	}
	return val.(*snowflake.Node).Generate()
}

// New generates from the default node.
func New() snowflake.ID {
	return NewFrom("default")
}
