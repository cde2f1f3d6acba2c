// Package domain holds the catalog entities shared by all layers:
// figures, users, notification events, and the error taxonomy.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Figure is a collectible figure in the catalog.
//
// ID is assigned exclusively by storage on insert. Code is assigned by the
// client or import step and is unique across the catalog. SequenceID comes
// from the process-wide SequenceGenerator at insert time. UpdatedAt strictly
// increases on every mutation; cached copies track the storage copy's value.
type Figure struct {
	ID          int64
	Code        uuid.UUID
	SequenceID  int64
	Name        string
	Category    Category
	Price       decimal.Decimal
	ReleaseDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event is a transient Created/Updated/Deleted signal broadcast to live
// subscribers. It is never persisted; the Figure field is a snapshot taken
// at publish time.
type Event struct {
	Kind   EventKind
	Figure Figure
}

// User is an entry in the static in-memory user directory.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}
