// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package category

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/rafidhoque/boighor/internal/platform/request"
	"github.com/rafidhoque/boighor/internal/platform/respond"
	"github.com/rafidhoque/boighor/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for the category taxonomy.
type Handler struct {
	service *Service
}

// NewHandler constructs a new category [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the category endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Get("/{id}", handler.getCategory)

	router.Post("/", handler.createCategory)
	router.Patch("/{id}", handler.updateCategory)
	router.Put("/{id}", handler.updateCategory)

	// Deletion addresses the collection: the target arrives as ?id= or
	// ?name= together with the book-handling policy.
	router.Delete("/", handler.deleteCategory)

	return router
}

// # Endpoints

/*
GET /api/v1/categories.

Description: Retrieves categories with optional filtering and language
resolution. Parent summaries are embedded; aggregates reflect the last
recompute.

Request:
  - search: string (matches both language names and descriptions)
  - featured: bool ("true" only)
  - isActive: bool (filters only when present)
  - parent: string (parent id, or "null" for root categories)
  - sort: string (name, nameDesc, bookCount, order; default recency)
  - lang: string ("bn" selects Bangla display fields)
  - limit: int (truncates when positive)

Response:
  - 200: []Category: Matching categories
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	filter := Filter{
		Search:   strings.TrimSpace(params.Get("search")),
		Featured: query.Bool(params.Get("featured")),
		Sort:     params.Get("sort"),
	}

	if raw := params.Get("isActive"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	switch parent := params.Get("parent"); parent {
	case "":
	case "null":
		filter.RootOnly = true
	default:
		filter.ParentID = parent
	}

	if limit, err := strconv.Atoi(params.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	lang := params.Get("lang")
	if lang == "" {
		lang = "en"
	}

	categories, err := handler.service.ListCategories(request.Context(), filter, lang)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, categories, len(categories))
}

/*
GET /api/v1/categories/{id}.

Response:
  - 200: Category: The record with its parent summary
  - 404: NOT_FOUND: Category not found
*/
func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	category, err := handler.service.GetCategory(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

// createRequest is the JSON payload for category creation.
type createRequest struct {
	Name              string  `json:"name"`
	BanglaName        string  `json:"banglaName"`
	Description       string  `json:"description"`
	BanglaDescription string  `json:"banglaDescription"`
	Image             string  `json:"image"`
	Icon              string  `json:"icon"`
	Color             string  `json:"color"`
	ParentID          *string `json:"parentCategory"`
	Order             int     `json:"order"`
	IsActive          *bool   `json:"isActive"`
	Featured          bool    `json:"featured"`
	MetaTitle         string  `json:"metaTitle"`
	MetaDescription   string  `json:"metaDescription"`
}

/*
POST /api/v1/categories.

Description: Creates a category. The slug derives from the name; duplicate
names (case-insensitive) and slugs are rejected. isActive defaults to true
when absent.

Response:
  - 201: Category: The created record
  - 400: VALIDATION_ERROR: Missing or invalid fields
  - 404: NOT_FOUND: Referenced parent does not exist
  - 409: CONFLICT: Duplicate name or slug
*/
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	category, err := handler.service.CreateCategory(request.Context(), Category{
		Name:              input.Name,
		BanglaName:        input.BanglaName,
		Description:       input.Description,
		BanglaDescription: input.BanglaDescription,
		Image:             input.Image,
		Icon:              input.Icon,
		Color:             input.Color,
		ParentID:          input.ParentID,
		Order:             input.Order,
		IsActive:          isActive,
		Featured:          input.Featured,
		MetaTitle:         input.MetaTitle,
		MetaDescription:   input.MetaDescription,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

/*
PATCH /api/v1/categories/{id} (also PUT).

Description: Applies a partial update. A rename bulk-reassigns every
referencing book and regenerates the slug atomically; parent changes are
cycle-checked against the ancestor chain.

Response:
  - 200: Category: The updated record
  - 400: VALIDATION_ERROR: Invalid payload or cyclic parent
  - 404: NOT_FOUND: Category or referenced parent not found
  - 409: CONFLICT: Rename collides with an existing name or slug
*/
func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.UpdateCategory(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Category updated successfully", category)
}

/*
DELETE /api/v1/categories.

Description: Deletes a category under the safe-delete policy.

Request:
  - id: string (UUID) or name: string (one required)
  - moveTo: string (destination category id or name for the books)
  - force: bool (reassign books to "Uncategorized" instead of refusing)

Response:
  - 200: DeleteResult: What happened, including books moved
  - 400: VALIDATION_ERROR: Neither id nor name given
  - 404: NOT_FOUND: Category or moveTo target not found
  - 409: CONFLICT: Sub-categories present, or books present without a policy
*/
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	result, err := handler.service.DeleteCategory(request.Context(), DeleteOptions{
		ID:     params.Get("id"),
		Name:   params.Get("name"),
		MoveTo: params.Get(FieldMoveTo),
		Force:  query.Bool(params.Get("force")),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Category deleted successfully", result)
}
