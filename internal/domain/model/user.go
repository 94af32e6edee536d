package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered store customer or administrator.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Rut          string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Registration carries the fields of a new account.
type Registration struct {
	Username string
	Password string
	Email    string
	Rut      string
	IsAdmin  bool
}

// UserPatch holds profile fields to change. Nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Rut      *string
}

// Requester identifies who is calling an operation.
type Requester struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// Owns reports whether the requester is the owner of the order.
func (r Requester) Owns(order *Order) bool {
	return order != nil && order.UserID == r.UserID
}
