package ledger

import "github.com/google/uuid"

// IDGenerator hands out the opaque unique ids every stored record
// carries. The generator is injected so tests can make ids predictable.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
