package mocks

import (
	"fmt"

	"github.com/relayhq/chatrelay/internal/dependencies/ident"
)

// MockIdent is a mock implementation of ident.Generator for testing
type MockIdent struct {
	// IDs is a queue of identifiers to return from NewConnID
	IDs     []string
	idIndex int
}

// Ensure MockIdent implements Generator
var _ ident.Generator = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

// NewConnID returns the next queued identifier, or a deterministic
// sequential one if the queue is exhausted
func (m *MockIdent) NewConnID() string {
	if m.idIndex >= len(m.IDs) {
		m.idIndex++
		return fmt.Sprintf("conn-%d", m.idIndex)
	}
	id := m.IDs[m.idIndex]
	m.idIndex++
	return id
}

// QueueID adds identifiers to the result queue
func (m *MockIdent) QueueID(ids ...string) {
	m.IDs = append(m.IDs, ids...)
}

// Reset clears all queued identifiers
func (m *MockIdent) Reset() {
	m.IDs = nil
	m.idIndex = 0
}
