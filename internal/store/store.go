// Package store implements the Record Store: named collections
// persisted as whole JSON lists in a key-value area. Callers read a
// full collection, mutate it in memory and write the full list back;
// there are no partial updates, so mutation sites must always re-fetch
// before writing to avoid lost updates.
package store

import "context"

type Store interface {
	// Get decodes the stored list into out. A collection that was
	// never written leaves out untouched (the caller's empty list).
	Get(ctx context.Context, collection string, out any) error
	// Set overwrites the whole collection.
	Set(ctx context.Context, collection string, value any) error
	// WithinTransaction makes the multi-collection writes of fn
	// all-or-nothing where the backend supports it; backends without
	// transactions run fn directly, which is safe under the
	// single-writer model the core assumes.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
