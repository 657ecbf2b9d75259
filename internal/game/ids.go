package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces event ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 event ids. It is
// stateless and safe for concurrent use.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator yields prefix-1, prefix-2, ... for tests and scripted
// logs.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix, next: 1}
}

func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, g.next)
	g.next++
	return id
}
