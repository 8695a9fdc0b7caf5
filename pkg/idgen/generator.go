package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out unique ids for notifications and anonymous booking sessions.
type Generator interface {
	GenerateID() int64
	GenerateString() string
}

// SnowflakeGenerator implements Generator using Twitter Snowflake
type SnowflakeGenerator struct {
	node *snowflake.Node
	mu   sync.Mutex
}

// NewSnowflakeGenerator initializes a new ID generator.
// nodeID must be unique per portal instance (0-1023) to prevent collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{
		node: node,
	}, nil
}

func (g *SnowflakeGenerator) GenerateID() int64 {
	return g.generate().Int64()
}

// GenerateString returns the id in base36, short enough for cookies and urls.
func (g *SnowflakeGenerator) GenerateString() string {
	return g.generate().Base36()
}

func (g *SnowflakeGenerator) generate() snowflake.ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.node.Generate()
}
