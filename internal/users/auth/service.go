// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/platform/notify"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/uuid"
)

// # Service Layer

// Service orchestrates the signup and token issuance flows.
type Service struct {
	repo   Repository
	codes  *sec.CodeService
	tokens *sec.TokenService
	mailer notify.Sender
	logger *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(repo Repository, codes *sec.CodeService, tokens *sec.TokenService, mailer notify.Sender, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		codes:  codes,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// # Registration

/*
Signup registers a user, or re-sends the confirmation code to an existing one.

Description: The operation is idempotent on the exact (username, email) pair.
Re-submitting the same pair derives a fresh code and re-sends it with a 200
response, so a lost email never locks a user out. A pair that collides with
an existing account on only one of the two fields is a conflict.

Validation runs before any uniqueness check: a reserved or malformed
username fails with 400 even if it would also collide.

Parameters:
  - context: context.Context
  - username: string
  - email: string

Returns:
  - *User: The registered (or pre-existing) user
  - error: Validation errors, or Conflict on a partial identity collision
*/
func (service *Service) Signup(context context.Context, username, email string) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Username(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLen)
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Exact-match resend path
	existing, err := service.repo.FindByUsername(context, username)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Email != email {
			return nil, apperr.Conflict("Username is already registered with a different email")
		}
		service.deliverCode(context, existing)
		service.logger.Info("signup_code_resent", slog.String("username", username))
		return existing, nil
	}

	// The email must not belong to someone else either
	byEmail, err := service.repo.FindByEmail(context, email)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}
	if byEmail != nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	user := &User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Role:     sec.RoleUser,
	}

	// The unique indexes are the real guard; two racing signups collapse
	// into one 201 and one 409 here.
	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	service.deliverCode(context, user)

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return user, nil
}

// # Token Issuance

/*
IssueToken exchanges a username and confirmation code for a JWT access token.

Description: An unknown username is 404, a known username with a wrong code
is 400. The code is re-derived from the user's current identity state, so a
code issued before a profile change no longer verifies.

Parameters:
  - context: context.Context
  - username: string
  - code: string

Returns:
  - string: Signed JWT access token
  - error: Validation, NotFound or signing errors
*/
func (service *Service) IssueToken(context context.Context, username, code string) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username)
	validator.Required(FieldConfirmationCode, code)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return "", apperr.NotFound("User")
		}
		return "", err
	}

	if !service.codes.VerifyCode(user.CodeState(), code) {
		service.logger.Warn("token_bad_confirmation_code", slog.String("username", username))
		return "", validate.RequiredError(FieldConfirmationCode, "Invalid confirmation code")
	}

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return "", apperr.Internal(err)
	}

	service.logger.Info("token_issued",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return token, nil
}

// deliverCode derives the user's confirmation code and hands it to the mail
// sink. Delivery is fire and forget: the user record is already durable, and
// a resend through signup recovers from any lost message.
func (service *Service) deliverCode(context context.Context, user *User) {
	code := service.codes.DeriveCode(user.CodeState())

	err := service.mailer.Send(context, notify.Email{
		Recipient: user.Email,
		Subject:   confirmationSubject,
		Body:      "Your confirmation code: " + code,
	})
	if err != nil {
		service.logger.Error("confirmation_email_failed",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
	}
}
