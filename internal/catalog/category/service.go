// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rafidhoque/boighor/internal/platform/apperr"
	"github.com/rafidhoque/boighor/internal/platform/constants"
	"github.com/rafidhoque/boighor/internal/platform/validate"
	"github.com/rafidhoque/boighor/pkg/slug"
)

// # Service Layer

// Service orchestrates the category taxonomy's business logic. It also
// serves as the stats recomputer for the book domain.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new category [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Lookups

// ListCategories retrieves categories matching the filter, with display
// fields resolved for the requested language.
func (service *Service) ListCategories(context context.Context, filter Filter, lang string) ([]*Category, error) {
	categories, err := service.repo.List(context, filter)
	if err != nil {
		return nil, err
	}

	for _, category := range categories {
		category.Localize(lang)
	}
	return categories, nil
}

// GetCategory fetches one category by id.
func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	validator := &validate.Validator{}
	if validator.UUID(FieldID, id); validator.HasErrors() {
		return nil, validator.Err()
	}
	return service.repo.FindByID(context, id)
}

// RecomputeStats implements the book domain's stats refresh hook.
func (service *Service) RecomputeStats(context context.Context, categoryName string) error {
	return service.repo.RecomputeStats(context, categoryName)
}

// # Lifecycle

/*
CreateCategory initialises a new taxonomy node.

Description: The name is trimmed and must be unique case-insensitively; the
slug derives from the name and must be unique as well. A referenced parent
must exist. Presentation defaults fill in for absent icon and color.

Returns:
  - *Category: The persisted record with its parent summary populated
  - error: Validation, CONFLICT, or NOT_FOUND (parent) errors
*/
func (service *Service) CreateCategory(context context.Context, category Category) (*Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	category.BanglaName = strings.TrimSpace(category.BanglaName)
	category.Description = strings.TrimSpace(category.Description)
	category.BanglaDescription = strings.TrimSpace(category.BanglaDescription)
	category.MetaTitle = strings.TrimSpace(category.MetaTitle)
	category.MetaDescription = strings.TrimSpace(category.MetaDescription)

	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).
		MaxLen(FieldName, category.Name, 100).
		MaxLen(FieldBanglaName, category.BanglaName, 100).
		Custom(FieldOrder, category.Order < 0, "Must not be negative")
	if category.Color != "" {
		validator.HexColor(FieldColor, category.Color)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	category.Slug = slug.From(category.Name)
	if category.Slug == "" {
		return nil, apperr.ValidationError("Category name yields an empty slug",
			apperr.FieldError{Field: FieldName, Message: "Must contain at least one letter or digit"},
		)
	}

	taken, err := service.repo.NameOrSlugTaken(context, category.Name, category.Slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Category \"" + category.Name + "\" already exists")
	}

	if category.ParentID != nil {
		if _, err := service.repo.FindByID(context, *category.ParentID); err != nil {
			return nil, apperr.NotFound("Parent category")
		}
	}

	category.ApplyDefaults()
	category.ID = newID()

	if err := service.repo.Create(context, &category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
		slog.String("slug", category.Slug),
	)

	// A fresh category starts with zeroed aggregates unless books already
	// reference the name (recreation after a force delete).
	if err := service.repo.RecomputeStats(context, category.Name); err != nil {
		service.logger.Error("category_stats_recompute_failed",
			slog.String("category", category.Name), slog.Any("error", err))
	}

	return service.repo.FindByID(context, category.ID)
}

/*
UpdateCategory applies a partial update to a taxonomy node.

Description: A rename re-checks uniqueness excluding the node itself,
regenerates the slug, and bulk-reassigns every referencing book in the same
transaction. A parent change walks the ancestor chain of the proposed
parent and rejects any assignment that would close a cycle, including
self-parenting.

Returns:
  - *Category: The updated record
  - error: NOT_FOUND, CONFLICT, validation, or persistence errors
*/
func (service *Service) UpdateCategory(context context.Context, id string, patch Patch) (*Category, error) {
	validator := &validate.Validator{}
	if validator.UUID(FieldID, id); validator.HasErrors() {
		return nil, validator.Err()
	}

	category, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	oldName := category.Name
	patch.ApplyTo(category)
	category.Name = strings.TrimSpace(category.Name)

	validator = &validate.Validator{}
	validator.Required(FieldName, category.Name).
		MaxLen(FieldName, category.Name, 100).
		Custom(FieldOrder, category.Order < 0, "Must not be negative")
	if patch.Color != nil && *patch.Color != "" {
		validator.HexColor(FieldColor, category.Color)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if category.ParentID != nil {
		if err := service.checkParent(context, id, *category.ParentID); err != nil {
			return nil, err
		}
	}

	renamed := oldName != category.Name
	if renamed {
		category.Slug = slug.From(category.Name)
		if category.Slug == "" {
			return nil, apperr.ValidationError("Category name yields an empty slug",
				apperr.FieldError{Field: FieldName, Message: "Must contain at least one letter or digit"},
			)
		}

		taken, err := service.repo.NameOrSlugTaken(context, category.Name, category.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("Category \"" + category.Name + "\" already exists")
		}

		if err := service.repo.Rename(context, category, oldName); err != nil {
			return nil, err
		}

		service.logger.Info("category_renamed",
			slog.String("category_id", id),
			slog.String("from", oldName),
			slog.String("to", category.Name),
		)
	} else {
		if err := service.repo.Update(context, category); err != nil {
			return nil, err
		}

		if err := service.repo.RecomputeStats(context, category.Name); err != nil {
			service.logger.Error("category_stats_recompute_failed",
				slog.String("category", category.Name), slog.Any("error", err))
		}

		service.logger.Info("category_updated", slog.String("category_id", id))
	}

	return service.repo.FindByID(context, id)
}

// DeleteOptions selects the target and the book-handling policy for a
// category deletion.
type DeleteOptions struct {
	// ID or Name identifies the category; ID wins when both are set.
	ID   string
	Name string

	// MoveTo names the destination (id or name) for the category's books.
	MoveTo string

	// Force reassigns the category's books to "Uncategorized" instead of
	// refusing the deletion.
	Force bool
}

// DeleteResult reports what a deletion did.
type DeleteResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Deleted     bool   `json:"deleted"`
	BooksMoved  int    `json:"booksMoved"`
	ForceDelete bool   `json:"forceDeleted"`
}

/*
DeleteCategory removes a taxonomy node under the safe-delete policy.

Description: A category with sub-categories is never deletable. A category
with books is deletable only with an explicit moveTo destination or force;
force reassigns the orphans to the "Uncategorized" bucket. A category with
no books deletes directly.

Returns:
  - *DeleteResult: What happened, including how many books moved
  - error: NOT_FOUND, CONFLICT (children or unhandled books) errors
*/
func (service *Service) DeleteCategory(context context.Context, options DeleteOptions) (*DeleteResult, error) {
	category, err := service.findTarget(context, options.ID, options.Name)
	if err != nil {
		return nil, err
	}

	children, err := service.repo.CountChildren(context, category.ID)
	if err != nil {
		return nil, err
	}
	if children > 0 {
		return nil, apperr.Conflict("Cannot delete category. It has sub-categories; delete or reassign them first")
	}

	bookCount, err := service.repo.CountBooks(context, category.Name)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{ID: category.ID, Name: category.Name, Deleted: true, ForceDelete: options.Force}

	switch {
	case bookCount == 0:
		if err := service.repo.Delete(context, category.ID); err != nil {
			return nil, err
		}

	// Force wins over moveTo when both are supplied.
	case options.Force:
		moved, err := service.repo.DeleteAndReassign(context, category, constants.UncategorizedName)
		if err != nil {
			return nil, err
		}
		result.BooksMoved = moved

	case options.MoveTo != "":
		target, err := service.findTarget(context, options.MoveTo, options.MoveTo)
		if err != nil {
			return nil, apperr.NotFound("Target category")
		}
		if target.ID == category.ID {
			return nil, apperr.Conflict("Cannot move books into the category being deleted")
		}

		moved, err := service.repo.DeleteAndReassign(context, category, target.Name)
		if err != nil {
			return nil, err
		}
		result.BooksMoved = moved

	default:
		return nil, apperr.Conflict(
			"Cannot delete category. It still has books. Pass moveTo to relocate them or force to orphan them")
	}

	service.logger.Info("category_deleted",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
		slog.Int("books_moved", result.BooksMoved),
		slog.Bool("force", options.Force),
	)

	return result, nil
}

// # Helpers

// checkParent validates a proposed parent assignment: the parent must
// exist and must not be the category itself or any of its descendants.
func (service *Service) checkParent(context context.Context, id, parentID string) error {
	if parentID == id {
		return apperr.ValidationError("Category cannot be its own parent")
	}

	if _, err := service.repo.FindByID(context, parentID); err != nil {
		return apperr.NotFound("Parent category")
	}

	ancestors, err := service.repo.AncestorIDs(context, parentID)
	if err != nil {
		return err
	}
	for _, ancestor := range ancestors {
		if ancestor == id {
			return apperr.ValidationError("Parent assignment would create a cycle")
		}
	}
	return nil
}

// findTarget resolves a category by id when the value parses as a UUID,
// else by name.
func (service *Service) findTarget(context context.Context, id, name string) (*Category, error) {
	if id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return service.repo.FindByID(context, id)
		}
	}
	if name != "" {
		return service.repo.FindByName(context, name)
	}
	return nil, apperr.ValidationError("Category id or name is required")
}

// newID mints a UUID v7 identity (time-sortable).
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
