// Package store persists computed layouts so they can be fetched later by ID.
//
// Backends implement [Store]:
//   - [MemoryStore]: in-process map, for tests and single-instance servers
//   - [FileStore]: one JSON file per record, for the CLI
//   - [MongoStore]: MongoDB collection, for multi-instance deployments
//
// # Usage
//
//	rec := store.NewRecord(result.TreeHash, result.Layout)
//	if err := s.Save(ctx, rec); err != nil {
//	    return err
//	}
//	got, err := s.Get(ctx, rec.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown or deleted
//	}
package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/arbor/pkg/graph"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is a stored layout.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	TreeHash  string       `json:"tree_hash" bson:"tree_hash"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
}

// NewRecord creates a record with a fresh random ID.
func NewRecord(treeHash string, l graph.Layout) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		TreeHash:  treeHash,
		Layout:    l,
	}
}

// Store is the interface for layout storage backends.
type Store interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// sortNewestFirst orders records by creation time, newest first, breaking
// ties by ID.
func sortNewestFirst(recs []Record) {
	slices.SortFunc(recs, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
