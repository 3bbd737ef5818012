// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

/*
Package book provides the HTTP interface for the storefront catalog.

It exposes endpoints for browsing and filtering books, managing catalog
entries from the admin dashboard, and driving the best-of-month promotion.

# Routing Strategy

  - Discovery: Listing, filtering, and single-book lookup (GET).
  - Management: Mutative endpoints used by the admin dashboard (POST, PATCH, PUT, DELETE).

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package book

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rafidhoque/boighor/internal/platform/apperr"
	"github.com/rafidhoque/boighor/internal/platform/constants"
	requestutil "github.com/rafidhoque/boighor/internal/platform/request"
	"github.com/rafidhoque/boighor/internal/platform/respond"
	"github.com/rafidhoque/boighor/pkg/pagination"
)

// allBooksLimit bounds the unpaginated admin export listing.
const allBooksLimit = 1000

// # Handler Implementation

// Handler implements the HTTP layer for catalog management and discovery.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new book [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the book domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Best of Month
	// Registered before /{id} so the literal segment never matches as an id.
	router.Get("/best-of-month", handler.getBestOfMonth)
	router.Post("/best-of-month", handler.setBestOfMonth)
	router.Put("/best-of-month", handler.setBestOfMonth)
	router.Delete("/best-of-month", handler.removeBestOfMonth)

	// ## Storefront Discovery
	router.Get("/", handler.listBooks)
	router.Get("/all", handler.listAllBooks)
	router.Get("/{id}", handler.getBook)

	// ## Catalog Management
	router.Post("/", handler.createBook)
	router.Patch("/{id}", handler.updateBook)
	router.Put("/{id}", handler.updateBook)
	router.Delete("/{id}", handler.deleteBook)

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/books.

Description: Retrieves a paginated, filtered list of books for the
storefront. Discontinued books are always excluded; the admin listing at
/all includes them.

Request:
  - search: string (matches title, author, or description)
  - category: []string (comma-separated, OR semantics)
  - minPrice, maxPrice: float (inclusive bounds)
  - minRating: float
  - featured, bestseller: bool ("true" only)
  - sortBy: string (createdAt, price, rating, title, averageRating, soldCount)
  - order: string (asc, desc)
  - page, limit: int

Response:
  - 200: []Book: Paginated list with pagination metadata
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	filter := FilterFromRequest(request)

	books, total, err := handler.service.ListBooks(
		request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	metadata := pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total, len(books))
	respond.Paginated(writer, books, len(books), metadata)
}

/*
GET /api/v1/books/all.

Description: Retrieves the full catalog without pagination, including
discontinued entries. Used by the admin dashboard for bulk views.

Response:
  - 200: []Book: Complete list, newest first
*/
func (handler *Handler) listAllBooks(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{IncludeDiscontinued: true}

	books, _, err := handler.service.ListBooks(request.Context(), filter, allBooksLimit, 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, books, len(books))
}

/*
GET /api/v1/books/{id}.

Description: Retrieves a single book by its identifier.

Response:
  - 200: Book: Full record
  - 400: VALIDATION_ERROR: Malformed identifier
  - 404: NOT_FOUND: Book not found
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	book, err := handler.service.GetBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// # Management Endpoints

/*
POST /api/v1/books.

Description: Creates a book from a multipart form. Metadata arrives as form
fields and images as file parts under "images"; every image is uploaded to
the media store before the record is written.

Request:
  - title, author, category, description: string (required)
  - price: float (required)
  - originalPrice, discount, stock, rating, totalRatings, soldCount: numeric
  - featured, bestseller, bestOfMonth: bool
  - status: string (active, out_of_stock, discontinued)
  - images: []file (1 to 10 parts)

Response:
  - 201: Book: The created record
  - 400: VALIDATION_ERROR: Missing or invalid fields
  - 502: UPSTREAM_ERROR: Media store rejected an upload
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid multipart payload"))
		return
	}

	input := CreateInput{Book: bookFromForm(request)}

	uploads, err := uploadsFromForm(request.MultipartForm)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.Uploads = uploads

	book, err := handler.service.CreateBook(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

/*
PATCH /api/v1/books/{id} (also PUT).

Description: Applies a partial update to a book. Only fields present in the
JSON body change; promotion through bestOfMonth=true demotes the previous
pick atomically.

Response:
  - 200: Book: The updated record
  - 400: VALIDATION_ERROR: Invalid payload
  - 404: NOT_FOUND: Book not found
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.UpdateBook(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Book updated successfully", book)
}

/*
DELETE /api/v1/books/{id}.

Description: Deletes a book and its stored images. Image cleanup is
best-effort and never blocks the deletion.

Response:
  - 200: Message: Success
  - 404: NOT_FOUND: Book not found
*/
func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	if err := handler.service.DeleteBook(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Book deleted successfully", nil)
}

// # Best of Month Endpoints

/*
GET /api/v1/books/best-of-month.

Description: Retrieves the current best-of-month pick.

Response:
  - 200: Book: The promoted book
  - 404: NOT_FOUND: No active selection
*/
func (handler *Handler) getBestOfMonth(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.BestOfMonth(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
POST /api/v1/books/best-of-month (also PUT).

Description: Promotes a book to the month's single pick. Every other flag is
cleared in the same transaction.

Request:
  - body: { bookId: string (UUID) }

Response:
  - 200: Book: The promoted book
  - 400: VALIDATION_ERROR: Missing or malformed bookId
  - 404: NOT_FOUND: Target book not found
*/
func (handler *Handler) setBestOfMonth(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		BookID string `json:"bookId"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.SelectBestOfMonth(request.Context(), input.BookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Best of month updated successfully", book)
}

/*
DELETE /api/v1/books/best-of-month.

Description: Clears the current best-of-month selection.

Response:
  - 200: Message: Success
  - 404: NOT_FOUND: No active selection
*/
func (handler *Handler) removeBestOfMonth(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.RemoveBestOfMonth(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Best of month selection removed", nil)
}

// # Form Parsing Helpers

// bookFromForm maps multipart form fields onto a Book. Numeric and boolean
// parsing is lenient; business validation happens in the service.
func bookFromForm(request *http.Request) Book {
	book := Book{
		Title:       request.FormValue(FieldTitle),
		Author:      request.FormValue(FieldAuthor),
		Category:    request.FormValue(FieldCategory),
		Description: request.FormValue(FieldDescription),
		Status:      Status(request.FormValue(FieldStatus)),
	}

	book.Price = formFloat(request, FieldPrice)
	book.OriginalPrice = formFloat(request, FieldOriginalPrice)
	book.Rating = formFloat(request, FieldRating)
	book.Discount = formInt(request, FieldDiscount)
	book.Stock = formInt(request, FieldStock)
	book.TotalRatings = formInt(request, "totalRatings")
	book.SoldCount = formInt(request, "soldCount")
	book.Featured = formBool(request, FieldFeatured)
	book.Bestseller = formBool(request, FieldBestseller)
	book.BestOfMonth = formBool(request, FieldBestOfMonth)

	return book
}

// uploadsFromForm reads every "images" file part into memory, bounded by
// [constants.MaxImagesPerBook].
func uploadsFromForm(form *multipart.Form) ([]Upload, error) {
	if form == nil {
		return nil, nil
	}

	parts := form.File[FieldImages]
	if len(parts) > constants.MaxImagesPerBook {
		return nil, apperr.ValidationError("Too many images",
			apperr.FieldError{Field: FieldImages, Message: "At most " + strconv.Itoa(constants.MaxImagesPerBook) + " images are allowed"},
		)
	}

	uploads := make([]Upload, 0, len(parts))
	for _, part := range parts {
		file, err := part.Open()
		if err != nil {
			return nil, apperr.ValidationError("Unreadable image part")
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, apperr.ValidationError("Unreadable image part")
		}

		uploads = append(uploads, Upload{
			Data:        data,
			ContentType: part.Header.Get("Content-Type"),
		})
	}

	return uploads, nil
}

func formFloat(request *http.Request, field string) float64 {
	value, err := strconv.ParseFloat(request.FormValue(field), 64)
	if err != nil {
		return 0
	}
	return value
}

func formInt(request *http.Request, field string) int {
	value, err := strconv.Atoi(request.FormValue(field))
	if err != nil {
		return 0
	}
	return value
}

func formBool(request *http.Request, field string) bool {
	return request.FormValue(field) == "true"
}
