package domain

import (
	"context"
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
)

type UserRepository interface {
	// Create stores a new plan user.
	Create(ctx context.Context, user *User) error

	// GetByID returns a copy of the stored user.
	GetByID(ctx context.Context, id string) (*User, error)

	// List returns every user in creation order.
	List(ctx context.Context) ([]*User, error)

	// Update replaces the stored snapshot of an existing user.
	Update(ctx context.Context, user *User) error

	// Delete removes the user and all of its plan data.
	Delete(ctx context.Context, id string) error
}

// SnapshotStore persists the serialised user collection under a single key.
type SnapshotStore interface {
	// Load returns the last saved snapshot, or ErrSnapshotNotFound.
	Load(ctx context.Context) ([]byte, error)

	// Save overwrites the snapshot.
	Save(ctx context.Context, data []byte) error
}
