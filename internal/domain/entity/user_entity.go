package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// Passwords are stored as bcrypt hashes in Password field; Email is case-sensitive as stored.
type User struct {
	ID         string
	Email      string
	Password   string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
