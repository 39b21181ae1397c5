package auth

import "context"

// Repository is the minimal user storage surface registration needs.
// Full account CRUD lives in the account package.
type Repository interface {
	FindByUsername(context context.Context, username string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)
	Create(context context.Context, user *User) error
}
