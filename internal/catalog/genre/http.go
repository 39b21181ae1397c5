package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the /genres resource.
//
// Reads are public. Writes require authentication up front so an anonymous
// caller sees 401 before any payload validation; the admin check itself
// happens in the service.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGenres)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.createGenre)
		protected.Delete("/{slug}", handler.deleteGenre)
	})

	return router
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	genres, total, err := handler.service.ListGenres(request.Context(), search, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createGenre(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre := &Genre{Name: payload.Name, Slug: payload.Slug}

	if err := handler.service.CreateGenre(request.Context(), requestutil.Claims(request), genre); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, genre)
}

func (handler *Handler) deleteGenre(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := handler.service.DeleteGenre(request.Context(), requestutil.Claims(request), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
