// Package store keeps conversation sessions. The engine reads a session,
// runs the understanding pipeline and commits the outcome; the store's job
// is to make those commits race-free per session while leaving distinct
// sessions fully concurrent.
package store

import (
	"context"

	"github.com/sofialabs/sofia/pkg/types"
)

// SessionStore is the persistence boundary for conversation sessions.
//
// Read accessors return deep copies: a caller can never mutate shared state
// except through Update, which runs its mutator under the session's own lock.
type SessionStore interface {
	// GetOrCreate returns the session with the given id, creating it when
	// absent. An empty id allocates a fresh one. The returned session is a
	// deep copy.
	GetOrCreate(ctx context.Context, id string) (*types.Session, error)

	// Get returns a deep copy of the session, or a not-found error.
	Get(ctx context.Context, id string) (*types.Session, error)

	// Update applies fn to the stored session under its lock. fn receives
	// the live session and may mutate it freely; the store bumps UpdatedAt
	// after fn returns. Returns a not-found error for unknown ids.
	Update(ctx context.Context, id string, fn func(*types.Session) error) error

	// Delete removes the session. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns deep copies of all live sessions, in no particular order.
	List(ctx context.Context) ([]*types.Session, error)

	// Len reports the number of live sessions.
	Len() int
}
