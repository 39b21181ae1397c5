// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/internal/users/auth"
	"github.com/taibuivan/kritika/pkg/uuid"
)

// # Service Layer

// Service orchestrates user administration and self-service profile logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Administration

/*
ListUsers returns the paginated user directory. Admin only.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be an administrator)
  - search: string (Substring match on the username)
  - limit, offset: int

Returns:
  - []*auth.User: Matching users
  - int: Total count for pagination metadata
  - error: Authorization or storage errors
*/
func (service *Service) ListUsers(context context.Context, actor *sec.AuthClaims, search string, limit, offset int) ([]*auth.User, int, error) {
	if err := sec.CanManageUsers(actor); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, search, limit, offset)
}

/*
CreateUser registers a user directly, bypassing the signup flow. Admin only.

Description: The created user still authenticates through the regular token
flow; no confirmation email is involved here. An omitted role defaults to
the standard user role.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be an administrator)
  - user: *auth.User (Entity to persist)

Returns:
  - error: Authorization, validation or Conflict errors
*/
func (service *Service) CreateUser(context context.Context, actor *sec.AuthClaims, user *auth.User) error {
	if err := sec.CanManageUsers(actor); err != nil {
		return err
	}

	if user.Role == "" {
		user.Role = sec.RoleUser
	}

	if err := validateUser(user); err != nil {
		return err
	}

	user.ID = uuid.New()
	if err := service.repo.Create(context, user); err != nil {
		return err
	}

	service.logger.Info("user_created_by_admin",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}

// GetUser returns one user by username. Admin only.
func (service *Service) GetUser(context context.Context, actor *sec.AuthClaims, username string) (*auth.User, error) {
	if err := sec.CanManageUsers(actor); err != nil {
		return nil, err
	}
	return service.repo.FindByUsername(context, username)
}

/*
UpdateUser applies a partial update to any user, including their role.
Admin only.

Description: Renaming a user or changing their role invalidates outstanding
confirmation codes as a side effect, since codes sign the identity state.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be an administrator)
  - username: string (Target user)
  - input: UpdateInput (Partial field set)

Returns:
  - *auth.User: The updated user
  - error: Authorization, validation, NotFound or Conflict errors
*/
func (service *Service) UpdateUser(context context.Context, actor *sec.AuthClaims, username string, input UpdateInput) (*auth.User, error) {
	if err := sec.CanManageUsers(actor); err != nil {
		return nil, err
	}

	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	applyProfileFields(user, input)
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	if err := validateUser(user); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_updated_by_admin",
		slog.String("user_id", user.ID),
		slog.String("actor_id", actor.UserID),
	)

	return user, nil
}

/*
DeleteUser removes a user account permanently. Admin only.

Description: This is a hard delete. The user's reviews and comments fall
with the account through the database cascades, and every affected title
rating shifts accordingly on its next read.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be an administrator)
  - username: string

Returns:
  - error: Authorization, NotFound or storage errors
*/
func (service *Service) DeleteUser(context context.Context, actor *sec.AuthClaims, username string) error {
	if err := sec.CanManageUsers(actor); err != nil {
		return err
	}

	if err := service.repo.DeleteByUsername(context, username); err != nil {
		return err
	}

	service.logger.Warn("user_deleted",
		slog.String("username", username),
		slog.String("actor_id", actor.UserID),
	)

	return nil
}

// # Self Service

// GetSelf returns the authenticated user's own record.
func (service *Service) GetSelf(context context.Context, actor *sec.AuthClaims) (*auth.User, error) {
	if err := sec.CanAccessSelf(actor); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, actor.UserID)
}

/*
UpdateSelf applies a partial update to the authenticated user's own record.

Description: The role field is immutable here regardless of what the payload
carries; a moderator cannot promote themselves. Username and email remain
editable, subject to the same uniqueness rules as signup.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (Must be authenticated)
  - input: UpdateInput (Role is ignored)

Returns:
  - *auth.User: The updated user
  - error: Authorization, validation or Conflict errors
*/
func (service *Service) UpdateSelf(context context.Context, actor *sec.AuthClaims, input UpdateInput) (*auth.User, error) {
	if err := sec.CanAccessSelf(actor); err != nil {
		return nil, err
	}

	user, err := service.repo.FindByID(context, actor.UserID)
	if err != nil {
		return nil, err
	}

	applyProfileFields(user, input)
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	// input.Role intentionally ignored: self-service never changes the role.

	if err := validateUser(user); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", user.ID))

	return user, nil
}

// # Helpers

func applyProfileFields(user *auth.User, input UpdateInput) {
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
}

// validateUser checks the full merged entity, so partial updates cannot
// sneak an invalid state past the rules.
func validateUser(user *auth.User) error {
	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, user.Username).
		Username(auth.FieldUsername, user.Username).
		MaxLen(auth.FieldUsername, user.Username, auth.MaxUsernameLen)
	validator.Required(auth.FieldEmail, user.Email).
		Email(auth.FieldEmail, user.Email).
		MaxLen(auth.FieldEmail, user.Email, auth.MaxEmailLen)
	validator.MaxLen(auth.FieldFirstName, user.FirstName, auth.MaxNameLen)
	validator.MaxLen(auth.FieldLastName, user.LastName, auth.MaxNameLen)

	if !user.Role.IsValid() {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldRole,
			Message: "Unknown role",
		})
	}

	return validator.Err()
}
