package ident

import "github.com/google/uuid"

// Generator mints connection identifiers and can be mocked for testing
type Generator interface {
	// NewConnID returns a fresh, unique connection identifier
	NewConnID() string
}

// UUIDGenerator implements Generator using random UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewConnID returns a random UUID string
func (g *UUIDGenerator) NewConnID() string {
	return uuid.NewString()
}
