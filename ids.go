package warehouse

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// IDGenerator makes unique record identifiers.
type IDGenerator interface {
	// NewID returns a new identifier starting with prefix.
	NewID(prefix string) string
}

// SnowflakeIDs generates time ordered identifiers from a snowflake node.
type SnowflakeIDs struct {
	node *snowflake.Node
}

// NewSnowflakeIDs returns a generator for the given node number (0 to 1023).
func NewSnowflakeIDs(node int64) (*SnowflakeIDs, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("cannot create id node %d: %w", node, err)
	}
	return &SnowflakeIDs{node: n}, nil
}

func (g *SnowflakeIDs) NewID(prefix string) string { return prefix + g.node.Generate().Base36() }

// UUIDs generates random identifiers.
type UUIDs struct{}

func (UUIDs) NewID(prefix string) string { return prefix + uuid.NewString() }

// Sequence generates predictable identifiers "<prefix>1", "<prefix>2", ...
// It is meant for tests and reproducible fixtures.
type Sequence struct {
	mu sync.Mutex
	n  int
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", prefix, s.n)
}

// Prefixes used for generated identifiers.
const (
	itemPrefix    = "item-"
	partnerPrefix = "p-"
	assetPrefix   = "as-"
	logPrefix     = "log-"
	deletePrefix  = "log-del-"
)
