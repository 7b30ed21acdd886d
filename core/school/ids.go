package school

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const markIDPrefix = "MRK"

// IDGenerator hands out unique Mark ids.
type IDGenerator interface {
	NextMarkID() string
}

// SequentialIDs generates MRK001, MRK002, ... from a monotonic counter.
// The counter never goes backwards, whatever happens to the mark collection.
type SequentialIDs struct {
	mu   sync.Mutex
	last int
}

var _ IDGenerator = (*SequentialIDs)(nil)

// NewSequentialIDs returns a generator whose first id is start+1.
func NewSequentialIDs(start int) *SequentialIDs {
	return &SequentialIDs{last: start}
}

func (g *SequentialIDs) NextMarkID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return fmt.Sprintf("%s%03d", markIDPrefix, g.last)
}

// UUIDs generates MRK-prefixed random ids.
type UUIDs struct{}

var _ IDGenerator = UUIDs{}

func (UUIDs) NextMarkID() string {
	return markIDPrefix + "-" + strings.ToUpper(uuid.NewString())
}

// NewIDGenerator returns the generator for the configured scheme; unknown schemes fall back to sequential.
func NewIDGenerator(scheme string, start int) IDGenerator {
	if scheme == "uuid" {
		return UUIDs{}
	}
	return NewSequentialIDs(start)
}
