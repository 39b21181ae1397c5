// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and their comment threads.
// Routes are registered under /titles/{titleID}/reviews by the API server.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterReviewRoutes attaches the review endpoints. The parent router
// provides the {titleID} parameter. Writes demand authentication before
// anything else; ownership and role checks follow in the service.
func (handler *Handler) RegisterReviewRoutes(router chi.Router) {
	router.Get("/", handler.listReviews)
	router.Get("/{reviewID}", handler.getReview)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.createReview)
		protected.Patch("/{reviewID}", handler.updateReview)
		protected.Delete("/{reviewID}", handler.deleteReview)
	})
}

// RegisterCommentRoutes attaches the comment endpoints. The parent router
// provides {titleID} and {reviewID}.
func (handler *Handler) RegisterCommentRoutes(router chi.Router) {
	router.Get("/", handler.listComments)
	router.Get("/{commentID}", handler.getComment)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.createComment)
		protected.Patch("/{commentID}", handler.updateComment)
		protected.Delete("/{commentID}", handler.deleteComment)
	})
}

// # Review Endpoints

func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	reviews, total, err := handler.service.ListReviews(request.Context(), titleID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Text  string `json:"text"`
		Score int    `json:"score"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), requestutil.Claims(request), titleID, payload.Text, payload.Score)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Text  *string `json:"text"`
		Score *int    `json:"score"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), requestutil.Claims(request), titleID, reviewID,
		ReviewInput{Text: payload.Text, Score: payload.Score})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), requestutil.Claims(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	comments, total, err := handler.service.ListComments(request.Context(), titleID, reviewID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.Claims(request), titleID, reviewID, payload.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), requestutil.Claims(request), titleID, reviewID, commentID, payload.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), requestutil.Claims(request), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Path Helpers

func reviewPath(request *http.Request) (titleID, reviewID int64, err error) {
	titleID, err = requestutil.IntParam(request, "titleID")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err = requestutil.IntParam(request, "reviewID")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

func commentPath(request *http.Request) (titleID, reviewID, commentID int64, err error) {
	titleID, reviewID, err = reviewPath(request)
	if err != nil {
		return 0, 0, 0, err
	}
	commentID, err = requestutil.IntParam(request, "commentID")
	if err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
