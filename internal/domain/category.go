package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is part of the spending taxonomy. UserID is nil for
// system-wide defaults, which are visible to every user but never
// updatable or deletable through the user-facing paths.
type Category struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Name      string
	Type      TransactionType
	CreatedAt time.Time
}

// IsSystemDefault reports whether the category has no owner.
func (c *Category) IsSystemDefault() bool {
	return c.UserID == nil
}
