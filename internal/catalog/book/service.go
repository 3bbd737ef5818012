// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package book

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rafidhoque/boighor/internal/platform/apperr"
	"github.com/rafidhoque/boighor/internal/platform/media"
	"github.com/rafidhoque/boighor/internal/platform/validate"
)

// # Service Layer

// StatsRecomputer refreshes a category's denormalized aggregates after a
// book write. The category service implements it; wiring happens in main.
type StatsRecomputer interface {
	RecomputeStats(context context.Context, categoryName string) error
}

// Service orchestrates the business logic for the book catalog.
type Service struct {
	repo   Repository
	media  media.Store
	stats  StatsRecomputer
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required dependencies.
func NewService(repo Repository, mediaStore media.Store, stats StatsRecomputer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		media:  mediaStore,
		stats:  stats,
		logger: logger,
	}
}

// # Lookups

/*
ListBooks retrieves a paginated and filtered collection of books.

Description: This method orchestrates the discovery phase of the catalog.
The compiled filter is passed directly to the repository for efficient
database-level filtering and sorting.

Returns:
  - []*Book: Slice of matching records
  - int: Total count of records matching the filter (for pagination metadata)
  - error: System or repository level errors
*/
func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// GetBook fetches a single book by its UUID.
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	validator := &validate.Validator{}
	if validator.UUID(FieldID, id); validator.HasErrors() {
		return nil, validator.Err()
	}

	return service.repo.FindByID(context, id)
}

// # Book Management

// Upload carries one raw image payload from the multipart create request.
type Upload struct {
	Data        []byte
	ContentType string
}

// CreateInput is the service-level payload for book creation.
type CreateInput struct {
	Book    Book
	Uploads []Upload
}

/*
CreateBook initialises a new book record in the catalog.

Description: Validates the metadata, uploads every image to the media store
(an upload failure aborts the whole operation — no book exists without its
images), generates a UUID v7 identity, applies the pricing/stock derivation
rules, and persists. A record created with bestOfMonth=true demotes the
previous pick inside the insert transaction.

Returns:
  - *Book: The persisted record
  - error: Validation, media upload, or persistence errors
*/
func (service *Service) CreateBook(context context.Context, input CreateInput) (*Book, error) {
	book := input.Book

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).
		Required(FieldAuthor, book.Author).
		Required(FieldCategory, book.Category).
		Required(FieldDescription, book.Description).
		NonNegative(FieldPrice, book.Price).
		Custom(FieldStock, book.Stock < 0, "Must not be negative").
		RangeFloat(FieldRating, book.Rating, 0, 5).
		RangeInt(FieldDiscount, book.Discount, 0, 100).
		Custom(FieldImages, len(input.Uploads) == 0, "At least one image is required")

	if book.Status == "" {
		book.Status = StatusActive
	}
	validator.OneOf(FieldStatus, string(book.Status),
		string(StatusActive), string(StatusOutOfStock), string(StatusDiscontinued))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Images are uploaded before the record write: a failed upload means no
	// book is created, never a book with missing images.
	images := make([]media.Image, 0, len(input.Uploads))
	for _, upload := range input.Uploads {
		descriptor, err := service.media.Upload(context, upload.Data, upload.ContentType)
		if err != nil {
			return nil, apperr.Upstream("Image upload failed", err)
		}
		images = append(images, descriptor)
	}
	book.Images = images

	book.ID = newID()
	book.ApplyDerivedFields(time.Now())

	if err := service.repo.Create(context, &book); err != nil {
		return nil, err
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
		slog.String("category", book.Category),
	)

	service.recomputeStats(context, book.Category)

	return &book, nil
}

/*
UpdateBook applies a partial update to an existing book.

Description: Non-nil patch fields overwrite the stored record, the derivation
rules re-run, and the row is rewritten. Setting bestOfMonth=true through this
path routes through the same transactional demotion as the dedicated
selection endpoint, so the singleton invariant holds on every write path.

Returns:
  - *Book: The updated record
  - error: NOT_FOUND, validation, or persistence errors
*/
func (service *Service) UpdateBook(context context.Context, id string, patch Patch) (*Book, error) {
	validator := &validate.Validator{}
	if validator.UUID(FieldID, id); validator.HasErrors() {
		return nil, validator.Err()
	}

	book, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	previousCategory := book.Category

	patch.ApplyTo(book)

	validator = &validate.Validator{}
	validator.Required(FieldTitle, book.Title).
		Required(FieldAuthor, book.Author).
		Required(FieldCategory, book.Category).
		Required(FieldDescription, book.Description).
		NonNegative(FieldPrice, book.Price).
		Custom(FieldStock, book.Stock < 0, "Must not be negative").
		RangeFloat(FieldRating, book.Rating, 0, 5).
		RangeInt(FieldDiscount, book.Discount, 0, 100).
		OneOf(FieldStatus, string(book.Status),
			string(StatusActive), string(StatusOutOfStock), string(StatusDiscontinued))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	book.ApplyDerivedFields(time.Now())

	if err := service.repo.Update(context, book); err != nil {
		return nil, err
	}

	service.logger.Info("book_updated", slog.String("book_id", book.ID))

	// Category, status, soldCount, and rating all feed the aggregates; a
	// blanket recompute of the affected name(s) keeps the trigger simple.
	if previousCategory != book.Category {
		service.recomputeStats(context, previousCategory)
	}
	service.recomputeStats(context, book.Category)

	return book, nil
}

/*
DeleteBook removes a book and cleans up its stored images.

Description: Image cleanup is best-effort — a media store failure is logged
and never blocks the record deletion. Category stats recompute afterwards.

Returns:
  - error: NOT_FOUND if the id does not exist
*/
func (service *Service) DeleteBook(context context.Context, id string) error {
	validator := &validate.Validator{}
	if validator.UUID(FieldID, id); validator.HasErrors() {
		return validator.Err()
	}

	book, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	for _, img := range book.Images {
		if err := service.media.Delete(context, img.PublicID); err != nil {
			service.logger.Warn("image_cleanup_failed",
				slog.String("book_id", book.ID),
				slog.String("public_id", img.PublicID),
				slog.Any("error", err),
			)
		}
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("book_deleted", slog.String("book_id", book.ID))

	service.recomputeStats(context, book.Category)

	return nil
}

// # Best of Month

// BestOfMonth returns the current pick, excluding discontinued books.
func (service *Service) BestOfMonth(context context.Context) (*Book, error) {
	book, err := service.repo.FindBestOfMonth(context)
	if err != nil {
		if apperr.IsAppError(err) && apperr.As(err).Code == "NOT_FOUND" {
			return nil, apperr.NotFound("Best of month selection")
		}
		return nil, err
	}
	return book, nil
}

/*
SelectBestOfMonth promotes the given book to the month's single pick.

Description: "Set" means "clear all, then set one": every other flag is
cleared and the target promoted in one transaction, so a missing target
leaves the previous pick in place.

Returns:
  - *Book: The promoted book
  - error: NOT_FOUND if the target id does not exist
*/
func (service *Service) SelectBestOfMonth(context context.Context, bookID string) (*Book, error) {
	if bookID == "" {
		return nil, validate.RequiredError(FieldBookID, "This field is required")
	}
	validator := &validate.Validator{}
	if validator.UUID(FieldBookID, bookID); validator.HasErrors() {
		return nil, validator.Err()
	}

	book, err := service.repo.SetBestOfMonth(context, bookID)
	if err != nil {
		return nil, err
	}

	service.logger.Info("best_of_month_selected",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
	)

	return book, nil
}

// RemoveBestOfMonth clears the current pick. It reports NOT_FOUND when no
// book held the flag.
func (service *Service) RemoveBestOfMonth(context context.Context) error {
	cleared, err := service.repo.ClearBestOfMonth(context)
	if err != nil {
		return err
	}
	if cleared == 0 {
		return apperr.NotFound("Best of month selection")
	}

	service.logger.Info("best_of_month_removed", slog.Int("cleared", cleared))
	return nil
}

// # Helpers

// recomputeStats refreshes one category's aggregates. Failures are logged
// and swallowed: aggregates are a derived cache, not authoritative state,
// and must never roll back the book mutation that triggered them.
func (service *Service) recomputeStats(context context.Context, categoryName string) {
	if service.stats == nil || categoryName == "" {
		return
	}
	if err := service.stats.RecomputeStats(context, categoryName); err != nil {
		service.logger.Error("category_stats_recompute_failed",
			slog.String("category", categoryName),
			slog.Any("error", err),
		)
	}
}

// newID mints a UUID v7 identity (time-sortable).
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
