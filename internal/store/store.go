// Package store provides the document persistence abstraction the rest of
// the backend is written against. Documents are flat JSON objects grouped
// into named collections; the adapter stamps createdAt/updatedAt on every
// write. No multi-document transactions are assumed.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Filter is an equality predicate on a top-level document field. Values are
// compared by their string form, which matches how the collections are
// queried (identifier and email fields).
type Filter struct {
	Field string
	Value any
}

type DocumentStore interface {
	// Add creates a document with a generated id and returns it with the
	// id and timestamps merged in.
	Add(ctx context.Context, collection string, data map[string]any) (map[string]any, error)

	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]any, error)

	// List returns all documents matching every filter, oldest first.
	List(ctx context.Context, collection string, filters ...Filter) ([]map[string]any, error)

	// Update merges data into an existing document. ErrNotFound when the
	// document does not exist.
	Update(ctx context.Context, collection, id string, data map[string]any) error

	// Delete removes a document. ErrNotFound when it does not exist.
	Delete(ctx context.Context, collection, id string) error

	// Increment atomically adds delta to a numeric field (treated as zero
	// when absent) and returns the new value.
	Increment(ctx context.Context, collection, id, field string, delta int) (int64, error)
}

// Collection names used by the backend.
const (
	Sessions  = "sessions"
	Chunks    = "audio_chunks"
	Patients  = "patients"
	Templates = "templates"
	Users     = "users"
)
