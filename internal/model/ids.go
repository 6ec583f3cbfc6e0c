package model

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Id prefixes by entity kind.
const (
	PrefixDay      = "day"
	PrefixActivity = "act"
	PrefixCustom   = "custom"
)

// IDSource mints opaque entity ids.
type IDSource interface {
	NewID(prefix string) string
}

// UUIDSource mints "<prefix>-<uuid>" ids.
type UUIDSource struct{}

// NewID implements IDSource.
func (UUIDSource) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequenceSource mints "<prefix>-<n>" ids from a counter. Renders of
// itineraries built with it are reproducible.
type SequenceSource struct {
	mu sync.Mutex
	n  int
}

// NewID implements IDSource.
func (s *SequenceSource) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
