package domain

import (
	"time"

	"github.com/google/uuid"
)

// User exists here only as the owner of accounts and categories.
// Registration, sessions and profile management live outside this
// service; the auth middleware hands us a verified user id.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
