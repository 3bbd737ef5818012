// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package category_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafidhoque/boighor/internal/catalog/category"
	"github.com/rafidhoque/boighor/internal/platform/apperr"
)

// # Test Doubles

// fakeRepository is an in-memory [category.Repository]. Books are modelled
// as a name->category map entry per book id so reassignment is observable.
type fakeRepository struct {
	categories map[string]*category.Category
	books      map[string]string

	recomputed []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		categories: map[string]*category.Category{},
		books:      map[string]string{},
	}
}

func (r *fakeRepository) List(_ context.Context, filter category.Filter) ([]*category.Category, error) {
	var matches []*category.Category
	for _, record := range r.categories {
		if filter.Featured && !record.Featured {
			continue
		}
		if filter.IsActive != nil && record.IsActive != *filter.IsActive {
			continue
		}
		if filter.RootOnly && record.ParentID != nil {
			continue
		}
		if filter.ParentID != "" && (record.ParentID == nil || *record.ParentID != filter.ParentID) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(record.Name), needle) &&
				!strings.Contains(record.BanglaName, filter.Search) {
				continue
			}
		}
		clone := *record
		matches = append(matches, &clone)
	}
	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}
	return matches, nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*category.Category, error) {
	record, ok := r.categories[id]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	clone := *record
	return &clone, nil
}

func (r *fakeRepository) FindByName(_ context.Context, name string) (*category.Category, error) {
	for _, record := range r.categories {
		if strings.EqualFold(record.Name, name) {
			clone := *record
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Category")
}

func (r *fakeRepository) NameOrSlugTaken(_ context.Context, name, slug, excludeID string) (bool, error) {
	for id, record := range r.categories {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(record.Name, name) || record.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) Create(_ context.Context, record *category.Category) error {
	clone := *record
	r.categories[record.ID] = &clone
	return nil
}

func (r *fakeRepository) Update(_ context.Context, record *category.Category) error {
	if _, ok := r.categories[record.ID]; !ok {
		return apperr.NotFound("Category")
	}
	clone := *record
	r.categories[record.ID] = &clone
	return nil
}

func (r *fakeRepository) Rename(_ context.Context, record *category.Category, oldName string) error {
	if _, ok := r.categories[record.ID]; !ok {
		return apperr.NotFound("Category")
	}
	for bookID, name := range r.books {
		if name == oldName {
			r.books[bookID] = record.Name
		}
	}
	clone := *record
	r.categories[record.ID] = &clone
	r.recomputed = append(r.recomputed, oldName, record.Name)
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return apperr.NotFound("Category")
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeRepository) DeleteAndReassign(_ context.Context, record *category.Category, targetName string) (int, error) {
	moved := 0
	for bookID, name := range r.books {
		if name == record.Name {
			r.books[bookID] = targetName
			moved++
		}
	}
	delete(r.categories, record.ID)
	r.recomputed = append(r.recomputed, targetName)
	return moved, nil
}

func (r *fakeRepository) CountChildren(_ context.Context, id string) (int, error) {
	count := 0
	for _, record := range r.categories {
		if record.ParentID != nil && *record.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepository) CountBooks(_ context.Context, name string) (int, error) {
	count := 0
	for _, bookCategory := range r.books {
		if bookCategory == name {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepository) RecomputeStats(_ context.Context, name string) error {
	r.recomputed = append(r.recomputed, name)
	return nil
}

func (r *fakeRepository) AncestorIDs(_ context.Context, id string) ([]string, error) {
	var ancestors []string
	current := id
	for range 32 {
		record, ok := r.categories[current]
		if !ok || record.ParentID == nil {
			break
		}
		ancestors = append(ancestors, *record.ParentID)
		current = *record.ParentID
	}
	return ancestors, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService() (*category.Service, *fakeRepository) {
	repo := newFakeRepository()
	return category.NewService(repo, discardLogger()), repo
}

func seedCategory(t *testing.T, repo *fakeRepository, name string, mutate func(*category.Category)) *category.Category {
	t.Helper()
	record := &category.Category{
		ID:       uuid.NewString(),
		Name:     name,
		Slug:     strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		IsActive: true,
	}
	if mutate != nil {
		mutate(record)
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

// # Creation

/*
TestService_CreateCategory verifies slug derivation, presentation defaults,
and the initial stats pass.
*/
func TestService_CreateCategory(t *testing.T) {
	service, repo := newService()

	created, err := service.CreateCategory(context.Background(), category.Category{
		Name:       "  Science Fiction  ",
		BanglaName: "সায়েন্স ফিকশন",
		IsActive:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Science Fiction", created.Name)
	assert.Equal(t, "science-fiction", created.Slug)
	assert.Equal(t, category.DefaultIcon, created.Icon)
	assert.Equal(t, category.DefaultColor, created.Color)
	assert.Contains(t, repo.recomputed, "Science Fiction")
}

/*
TestService_CreateCategory_DuplicateName verifies the case-insensitive
uniqueness guard.
*/
func TestService_CreateCategory_DuplicateName(t *testing.T) {
	service, repo := newService()
	seedCategory(t, repo, "Poetry", nil)

	_, err := service.CreateCategory(context.Background(), category.Category{Name: "POETRY", IsActive: true})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestService_CreateCategory_MissingParent verifies the parent existence check.
*/
func TestService_CreateCategory_MissingParent(t *testing.T) {
	service, _ := newService()

	ghost := uuid.NewString()
	_, err := service.CreateCategory(context.Background(), category.Category{
		Name:     "Orphan",
		ParentID: &ghost,
		IsActive: true,
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Rename

/*
TestService_RenameCategory verifies that a rename reassigns every
referencing book, regenerates the slug, and refreshes both names.
*/
func TestService_RenameCategory(t *testing.T) {
	service, repo := newService()
	seeded := seedCategory(t, repo, "Fiction", nil)
	repo.books["b1"] = "Fiction"
	repo.books["b2"] = "Fiction"
	repo.books["b3"] = "History"

	newName := "Literary Fiction"
	updated, err := service.UpdateCategory(context.Background(), seeded.ID, category.Patch{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Literary Fiction", updated.Name)
	assert.Equal(t, "literary-fiction", updated.Slug)
	assert.Equal(t, "Literary Fiction", repo.books["b1"])
	assert.Equal(t, "Literary Fiction", repo.books["b2"])
	assert.Equal(t, "History", repo.books["b3"])
	assert.Equal(t, []string{"Fiction", "Literary Fiction"}, repo.recomputed)
}

/*
TestService_RenameCategory_Conflict verifies that renaming onto an existing
name is rejected while renaming onto itself is not.
*/
func TestService_RenameCategory_Conflict(t *testing.T) {
	service, repo := newService()
	first := seedCategory(t, repo, "Classics", nil)
	seedCategory(t, repo, "Poetry", nil)

	taken := "poetry"
	_, err := service.UpdateCategory(context.Background(), first.ID, category.Patch{Name: &taken})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// Re-submitting the unchanged name is a plain update, not a conflict.
	same := "Classics"
	_, err = service.UpdateCategory(context.Background(), first.ID, category.Patch{Name: &same})
	require.NoError(t, err)
}

// # Hierarchy

/*
TestService_ParentCycleRejected verifies cycle protection: self-parenting
and closing a loop through a descendant are both rejected.
*/
func TestService_ParentCycleRejected(t *testing.T) {
	service, repo := newService()
	root := seedCategory(t, repo, "Books", nil)
	child := seedCategory(t, repo, "Novels", func(c *category.Category) { c.ParentID = &root.ID })
	grandchild := seedCategory(t, repo, "Thrillers", func(c *category.Category) { c.ParentID = &child.ID })

	// Self-parent
	self := &root.ID
	_, err := service.UpdateCategory(context.Background(), root.ID, category.Patch{ParentID: &self})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Root under its own grandchild
	loop := &grandchild.ID
	_, err = service.UpdateCategory(context.Background(), root.ID, category.Patch{ParentID: &loop})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Detaching is always allowed.
	var detach *string
	_, err = service.UpdateCategory(context.Background(), child.ID, category.Patch{ParentID: &detach})
	require.NoError(t, err)
}

// # Deletion

/*
TestService_DeleteCategory_Empty verifies the trivial path: no children, no
books, direct delete.
*/
func TestService_DeleteCategory_Empty(t *testing.T) {
	service, repo := newService()
	seeded := seedCategory(t, repo, "Ephemera", nil)

	result, err := service.DeleteCategory(context.Background(), category.DeleteOptions{ID: seeded.ID})
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Zero(t, result.BooksMoved)
	assert.Empty(t, repo.categories)
}

/*
TestService_DeleteCategory_ChildrenBlock verifies that sub-categories block
deletion regardless of moveTo or force.
*/
func TestService_DeleteCategory_ChildrenBlock(t *testing.T) {
	service, repo := newService()
	parent := seedCategory(t, repo, "Non-fiction", nil)
	seedCategory(t, repo, "Biography", func(c *category.Category) { c.ParentID = &parent.ID })

	_, err := service.DeleteCategory(context.Background(), category.DeleteOptions{ID: parent.ID, Force: true})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Contains(t, repo.categories, parent.ID)
}

/*
TestService_DeleteCategory_BooksRequirePolicy verifies that books without a
moveTo or force refuse the deletion with an actionable conflict.
*/
func TestService_DeleteCategory_BooksRequirePolicy(t *testing.T) {
	service, repo := newService()
	seeded := seedCategory(t, repo, "Travel", nil)
	repo.books["b1"] = "Travel"

	_, err := service.DeleteCategory(context.Background(), category.DeleteOptions{ID: seeded.ID})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Contains(t, repo.categories, seeded.ID)
}

/*
TestService_DeleteCategory_MoveTo verifies book relocation to a named
target, by id or by name.
*/
func TestService_DeleteCategory_MoveTo(t *testing.T) {
	service, repo := newService()
	doomed := seedCategory(t, repo, "Maps", nil)
	seedCategory(t, repo, "Travel", nil)
	repo.books["b1"] = "Maps"
	repo.books["b2"] = "Maps"

	result, err := service.DeleteCategory(context.Background(), category.DeleteOptions{
		ID:     doomed.ID,
		MoveTo: "Travel",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.BooksMoved)
	assert.Equal(t, "Travel", repo.books["b1"])
	assert.NotContains(t, repo.categories, doomed.ID)
	assert.Contains(t, repo.recomputed, "Travel")
}

/*
TestService_DeleteCategory_MoveToSelf verifies that the deletion target is
never a valid destination.
*/
func TestService_DeleteCategory_MoveToSelf(t *testing.T) {
	service, repo := newService()
	doomed := seedCategory(t, repo, "Maps", nil)
	repo.books["b1"] = "Maps"

	_, err := service.DeleteCategory(context.Background(), category.DeleteOptions{
		ID:     doomed.ID,
		MoveTo: doomed.ID,
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestService_DeleteCategory_Force verifies that force reassigns orphaned
books to the Uncategorized bucket.
*/
func TestService_DeleteCategory_Force(t *testing.T) {
	service, repo := newService()
	doomed := seedCategory(t, repo, "Misc", nil)
	repo.books["b1"] = "Misc"

	result, err := service.DeleteCategory(context.Background(), category.DeleteOptions{
		ID:    doomed.ID,
		Force: true,
	})
	require.NoError(t, err)

	assert.True(t, result.ForceDelete)
	assert.Equal(t, 1, result.BooksMoved)
	assert.Equal(t, "Uncategorized", repo.books["b1"])
}

/*
TestService_DeleteCategory_ForceWinsOverMoveTo verifies that a request
carrying both force and moveTo orphans the books to Uncategorized; the
moveTo destination is ignored.
*/
func TestService_DeleteCategory_ForceWinsOverMoveTo(t *testing.T) {
	service, repo := newService()
	doomed := seedCategory(t, repo, "Misc", nil)
	seedCategory(t, repo, "Travel", nil)
	repo.books["b1"] = "Misc"

	result, err := service.DeleteCategory(context.Background(), category.DeleteOptions{
		ID:     doomed.ID,
		MoveTo: "Travel",
		Force:  true,
	})
	require.NoError(t, err)

	assert.True(t, result.ForceDelete)
	assert.Equal(t, 1, result.BooksMoved)
	assert.Equal(t, "Uncategorized", repo.books["b1"])
	assert.NotContains(t, repo.categories, doomed.ID)
}

// # Localization

/*
TestService_ListCategories_Localization verifies Bangla display resolution
with English fallback.
*/
func TestService_ListCategories_Localization(t *testing.T) {
	service, repo := newService()
	seedCategory(t, repo, "Poetry", func(c *category.Category) { c.BanglaName = "কবিতা" })
	seedCategory(t, repo, "History", nil)

	categories, err := service.ListCategories(context.Background(), category.Filter{}, "bn")
	require.NoError(t, err)
	require.Len(t, categories, 2)

	byName := map[string]*category.Category{}
	for _, c := range categories {
		byName[c.Name] = c
	}
	assert.Equal(t, "কবিতা", byName["Poetry"].DisplayName)
	assert.Equal(t, "History", byName["History"].DisplayName)
}
