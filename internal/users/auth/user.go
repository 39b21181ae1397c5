// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements registration and token issuance.

The flow is deliberately passwordless:

 1. Signup: the client submits a username and email; a confirmation code is
    delivered to that email out of band.
 2. Token: the client exchanges username plus code for a JWT access token.

Confirmation codes are never stored. They are derived from the user's current
identity state, so any change to that state invalidates outstanding codes.

# Architecture

This layer owns the User entity. Profile and admin management live in the
sibling account package and share this entity.
*/
package auth

import (
	"time"

	"github.com/taibuivan/kritika/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Kritika platform.
type User struct {
	ID        string       `json:"-"` // Internal UUIDv7; the API identifies users by username.
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	CreatedAt time.Time    `json:"-"`
	UpdatedAt time.Time    `json:"-"`
}

// CodeState maps a user to the identity tuple a confirmation code signs over.
func (u *User) CodeState() sec.CodeState {
	return sec.CodeState{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldRole             = "role"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)

// # Field Limits

const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254
	MaxNameLen     = 150
)
