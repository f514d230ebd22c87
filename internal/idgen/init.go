package idgen

import (
	"log"
	"os"
	"strconv"
)

// Init sets up the default node. Node id must be unique per instance so two
// replicas never mint the same order id.
func Init(nodeID int64) {
	if err := InitNode("default", nodeID); err != nil {
		log.Fatalf("[IDGen] InitNode failed: %v", err)
	}
	log.Printf("[IDGen] snowflake node initialized: nodeID=%d", nodeID)
}

// InitFromEnv reads SNOWFLAKE_NODE_ID for multi-instance deployments.
func InitFromEnv() {
	nodeIDStr := os.Getenv("SNOWFLAKE_NODE_ID")
	if nodeIDStr == "" {
		Init(1)
		return
	}
	nodeID, err := strconv.ParseInt(nodeIDStr, 10, 64)
	if err != nil || nodeID < 0 || nodeID > 1023 {
		log.Fatalf("[IDGen] Invalid SNOWFLAKE_NODE_ID: %v", nodeIDStr)
	}
	Init(nodeID)
}
