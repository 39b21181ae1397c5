// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for catalogue discovery and curation.
type Handler struct {
	service *Service
}

// NewHandler constructs a new title [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the title endpoints to the given router. The
// parameter is named titleID so the nested review routes can share it.
//
// Reads are public. Writes pass the actor's claims down to the service,
// where the catalogue guard decides between 401 and 403 before any lookup.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTitles)
	router.Get("/{titleID}", handler.getTitle)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.createTitle)
		protected.Patch("/{titleID}", handler.updateTitle)
		protected.Delete("/{titleID}", handler.deleteTitle)
	})
}

// titlePayload is the write-side JSON shape. Category and genres are slug
// references; pointers distinguish "absent" from "set to zero" on PATCH.
type titlePayload struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

/*
GET /api/v1/titles.

Request:
  - name: string (Substring match on the title name)
  - year: int (Exact release year)
  - category: string (Category slug)
  - genre: string (Genre slug)
  - page, limit: int

Response:
  - 200: []Title: Paginated list with categories, genres and ratings
*/
func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Name:         queryParams.Get("name"),
		CategorySlug: queryParams.Get("category"),
		GenreSlug:    queryParams.Get("genre"),
	}
	if year, ok := query.Int(queryParams.Get("year")); ok {
		filter.Year = &year
	}

	titles, total, err := handler.service.ListTitles(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.GetTitle(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var payload titlePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title := &Title{CategorySlug: payload.Category}
	if payload.Name != nil {
		title.Name = *payload.Name
	}
	if payload.Year != nil {
		title.Year = *payload.Year
	}
	if payload.Description != nil {
		title.Description = *payload.Description
	}
	if payload.Genre != nil {
		title.GenreSlugs = *payload.Genre
	}

	created, err := handler.service.CreateTitle(request.Context(), requestutil.Claims(request), title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload titlePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := UpdateInput{
		Name:        payload.Name,
		Year:        payload.Year,
		Description: payload.Description,
		Category:    payload.Category,
		Genres:      payload.Genre,
	}

	updated, err := handler.service.UpdateTitle(request.Context(), requestutil.Claims(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteTitle(request.Context(), requestutil.Claims(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
