// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
)

// Handler implements the HTTP layer for the auth flow.
// Both endpoints are public by definition.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the /auth resource.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

/*
POST /api/v1/auth/signup.

Description: Registers a user or re-sends the confirmation code for an
existing exact (username, email) pair.

Request:
  - username: string
  - email: string

Response:
  - 200: {username, email}: Registered or resent
  - 400: Validation failure (reserved username, bad email, ...)
  - 409: Partial identity collision
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Signup(request.Context(), payload.Username, payload.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldUsername: user.Username,
		FieldEmail:    user.Email,
	})
}

/*
POST /api/v1/auth/token.

Description: Exchanges a username and confirmation code for a JWT.

Request:
  - username: string
  - confirmation_code: string

Response:
  - 200: {token}: Signed access token
  - 400: Missing fields or invalid confirmation code
  - 404: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		Username         string `json:"username"`
		ConfirmationCode string `json:"confirmation_code"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.service.IssueToken(request.Context(), payload.Username, payload.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldToken: token})
}
