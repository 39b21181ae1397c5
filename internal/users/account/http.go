// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides the HTTP delivery layer for user management.

# Security

The /users collection is an administration surface; /users/me is the
self-service path for every authenticated user. The "me" segment is a
reserved username, so the two route spaces cannot collide.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/users/auth"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// Handler implements the HTTP layer for user administration and profiles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the /users endpoints.
// The static /me routes take precedence over the {username} wildcard.
// Everything here requires authentication; the admin check for the
// management surface lives in the service.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Self Service
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	// Administration
	router.Get("/", handler.listUsers)
	router.Post("/", handler.createUser)
	router.Get("/{username}", handler.getUser)
	router.Patch("/{username}", handler.updateUser)
	router.Delete("/{username}", handler.deleteUser)

	return router
}

// userPayload is the JSON shape for user writes. Pointers distinguish
// "absent" from "set to empty" on PATCH.
type userPayload struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (p userPayload) toInput() UpdateInput {
	return UpdateInput{
		Username:  p.Username,
		Email:     p.Email,
		Role:      p.Role,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
	}
}

// # Self Service Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: User: The authenticated user's own record
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.GetSelf(request.Context(), requestutil.Claims(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me.

Description: Partial update of the caller's own record. A role field in the
payload is ignored.

Response:
  - 200: User: The updated record
  - 400: Validation failure
  - 401: Authentication required
  - 409: Username or email already taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var payload userPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateSelf(request.Context(), requestutil.Claims(request), payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Administration Endpoints

/*
GET /api/v1/users.

Request:
  - search: string (Substring match on the username)
  - page, limit: int

Response:
  - 200: []User: Paginated user directory
  - 401/403: Not an administrator
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.service.ListUsers(request.Context(), requestutil.Claims(request), search,
		paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var payload userPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user := &auth.User{}
	input := payload.toInput()
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := handler.service.CreateUser(request.Context(), requestutil.Claims(request), user); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.service.GetUser(request.Context(), requestutil.Claims(request), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var payload userPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateUser(request.Context(), requestutil.Claims(request), username, payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	if err := handler.service.DeleteUser(request.Context(), requestutil.Claims(request), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
