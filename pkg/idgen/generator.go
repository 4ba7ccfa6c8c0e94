package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out unique, roughly time-ordered identifiers.
type Generator interface {
	GenerateID() string
}

// SnowflakeGenerator implements Generator using Twitter Snowflake ids.
type SnowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator initializes a new ID generator.
// nodeID must be unique per server instance (0-1023) to prevent collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{node: node}, nil
}

// GenerateID returns a new id in its base58 form, short enough for headers.
// snowflake.Node is safe for concurrent use.
func (g *SnowflakeGenerator) GenerateID() string {
	return g.node.Generate().Base58()
}
