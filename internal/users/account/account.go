// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and self-service profiles.

It provides the admin-only /users CRUD surface and the /users/me endpoint
every authenticated user can reach.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - Security: Role changes are an admin capability; the self-service path
    silently leaves the role untouched.
*/
package account

import (
	"context"

	"github.com/taibuivan/kritika/internal/users/auth"
)

// Repository is the full user persistence surface for administration.
type Repository interface {
	List(context context.Context, search string, limit, offset int) ([]*auth.User, int, error)
	FindByID(context context.Context, id string) (*auth.User, error)
	FindByUsername(context context.Context, username string) (*auth.User, error)
	Create(context context.Context, user *auth.User) error
	Update(context context.Context, user *auth.User) error
	DeleteByUsername(context context.Context, username string) error
}

// UpdateInput defines the mutable subset of user fields. Nil means unchanged.
type UpdateInput struct {
	Username  *string
	Email     *string
	Role      *string
	FirstName *string
	LastName  *string
	Bio       *string
}
