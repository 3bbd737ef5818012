// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package book_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafidhoque/boighor/internal/catalog/book"
	"github.com/rafidhoque/boighor/internal/platform/apperr"
	"github.com/rafidhoque/boighor/internal/platform/media"
)

// # Test Doubles

// fakeRepository is an in-memory [book.Repository] for service tests.
type fakeRepository struct {
	books map[string]*book.Book
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{books: map[string]*book.Book{}}
}

func (r *fakeRepository) List(_ context.Context, filter book.Filter, limit, offset int) ([]*book.Book, int, error) {
	matches := make([]*book.Book, 0, len(r.books))
	for _, record := range r.books {
		if !filter.IncludeDiscontinued && record.Status == book.StatusDiscontinued {
			continue
		}
		matches = append(matches, record)
	}

	total := len(matches)
	if offset >= len(matches) {
		return nil, total, nil
	}
	matches = matches[offset:]
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, total, nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*book.Book, error) {
	record, ok := r.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	clone := *record
	return &clone, nil
}

func (r *fakeRepository) FindBestOfMonth(_ context.Context) (*book.Book, error) {
	for _, record := range r.books {
		if record.BestOfMonth && record.Status != book.StatusDiscontinued {
			clone := *record
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Best of month selection")
}

func (r *fakeRepository) Create(_ context.Context, record *book.Book) error {
	if record.BestOfMonth {
		r.demoteAll()
	}
	clone := *record
	r.books[record.ID] = &clone
	return nil
}

func (r *fakeRepository) Update(_ context.Context, record *book.Book) error {
	if _, ok := r.books[record.ID]; !ok {
		return apperr.NotFound("Book")
	}
	if record.BestOfMonth {
		r.demoteAll()
	}
	clone := *record
	r.books[record.ID] = &clone
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return apperr.NotFound("Book")
	}
	delete(r.books, id)
	return nil
}

func (r *fakeRepository) SetBestOfMonth(_ context.Context, id string) (*book.Book, error) {
	record, ok := r.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	r.demoteAll()
	record.BestOfMonth = true
	clone := *record
	return &clone, nil
}

func (r *fakeRepository) ClearBestOfMonth(_ context.Context) (int, error) {
	return r.demoteAll(), nil
}

func (r *fakeRepository) demoteAll() int {
	cleared := 0
	for _, record := range r.books {
		if record.BestOfMonth {
			record.BestOfMonth = false
			record.BestOfMonthDate = nil
			cleared++
		}
	}
	return cleared
}

// fakeMediaStore records uploads and deletions without any network traffic.
type fakeMediaStore struct {
	uploads   int
	deleted   []string
	uploadErr error
	deleteErr error
}

func (s *fakeMediaStore) Upload(_ context.Context, _ []byte, _ string) (media.Image, error) {
	if s.uploadErr != nil {
		return media.Image{}, s.uploadErr
	}
	s.uploads++
	id := uuid.NewString()
	return media.Image{PublicID: id, URL: "https://media.test/" + id}, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, publicID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}

// fakeRecomputer records which categories were asked to refresh.
type fakeRecomputer struct {
	categories []string
}

func (r *fakeRecomputer) RecomputeStats(_ context.Context, categoryName string) error {
	r.categories = append(r.categories, categoryName)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixtures struct {
	repo    *fakeRepository
	media   *fakeMediaStore
	stats   *fakeRecomputer
	service *book.Service
}

func newFixtures() *fixtures {
	repo := newFakeRepository()
	mediaStore := &fakeMediaStore{}
	stats := &fakeRecomputer{}
	return &fixtures{
		repo:    repo,
		media:   mediaStore,
		stats:   stats,
		service: book.NewService(repo, mediaStore, stats, discardLogger()),
	}
}

func seedBook(t *testing.T, repo *fakeRepository, mutate func(*book.Book)) *book.Book {
	t.Helper()
	record := &book.Book{
		ID:            uuid.NewString(),
		Title:         "Himu",
		Author:        "Humayun Ahmed",
		Category:      "Fiction",
		Description:   "A yellow panjabi and no destination.",
		Price:         250,
		OriginalPrice: 250,
		Stock:         10,
		Status:        book.StatusActive,
		Images:        []media.Image{{PublicID: "img-1", URL: "https://media.test/img-1"}},
	}
	if mutate != nil {
		mutate(record)
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

// # Creation

/*
TestService_CreateBook verifies the happy path: images upload first, the
record gets a generated id, the derivation rules run, and category stats
refresh.
*/
func TestService_CreateBook(t *testing.T) {
	f := newFixtures()

	created, err := f.service.CreateBook(context.Background(), book.CreateInput{
		Book: book.Book{
			Title:         "Feluda Samagra",
			Author:        "Satyajit Ray",
			Category:      "Detective",
			Description:   "The complete Feluda stories.",
			Price:         600,
			OriginalPrice: 800,
			Stock:         20,
		},
		Uploads: []book.Upload{
			{Data: []byte("front"), ContentType: "image/jpeg"},
			{Data: []byte("back"), ContentType: "image/jpeg"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Len(t, created.Images, 2)
	assert.Equal(t, 25, created.Discount)
	assert.Equal(t, book.StatusActive, created.Status)
	assert.Equal(t, 2, f.media.uploads)
	assert.Equal(t, []string{"Detective"}, f.stats.categories)
}

/*
TestService_CreateBook_Validation verifies that missing required fields and
a missing image reject the request before any upload happens.
*/
func TestService_CreateBook_Validation(t *testing.T) {
	f := newFixtures()

	_, err := f.service.CreateBook(context.Background(), book.CreateInput{
		Book: book.Book{Title: "No author"},
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Zero(t, f.media.uploads)
	assert.Empty(t, f.repo.books)
}

/*
TestService_CreateBook_UploadFailure verifies that a media store failure
aborts creation: no record may exist without its images.
*/
func TestService_CreateBook_UploadFailure(t *testing.T) {
	f := newFixtures()
	f.media.uploadErr = errors.New("bucket unavailable")

	_, err := f.service.CreateBook(context.Background(), book.CreateInput{
		Book: book.Book{
			Title:       "Shonkhonil Karagar",
			Author:      "Humayun Ahmed",
			Category:    "Fiction",
			Description: "A family drama.",
			Price:       300,
			Stock:       5,
		},
		Uploads: []book.Upload{{Data: []byte("x"), ContentType: "image/png"}},
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	assert.Empty(t, f.repo.books)
	assert.Empty(t, f.stats.categories)
}

// # Update and Delete

/*
TestService_UpdateBook verifies partial patching, re-derivation, and the
stats refresh of both the old and the new category on a move.
*/
func TestService_UpdateBook(t *testing.T) {
	f := newFixtures()
	seeded := seedBook(t, f.repo, nil)

	newCategory := "Classics"
	newStock := 0
	updated, err := f.service.UpdateBook(context.Background(), seeded.ID, book.Patch{
		Category: &newCategory,
		Stock:    &newStock,
	})
	require.NoError(t, err)

	assert.Equal(t, "Classics", updated.Category)
	assert.Equal(t, book.StatusOutOfStock, updated.Status)
	assert.Equal(t, []string{"Fiction", "Classics"}, f.stats.categories)
}

/*
TestService_UpdateBook_NotFound verifies the NOT_FOUND mapping for an
unknown id.
*/
func TestService_UpdateBook_NotFound(t *testing.T) {
	f := newFixtures()

	_, err := f.service.UpdateBook(context.Background(), uuid.NewString(), book.Patch{})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_DeleteBook verifies that deletion removes the record, attempts
image cleanup, and refreshes the category stats.
*/
func TestService_DeleteBook(t *testing.T) {
	f := newFixtures()
	seeded := seedBook(t, f.repo, nil)

	require.NoError(t, f.service.DeleteBook(context.Background(), seeded.ID))

	assert.Empty(t, f.repo.books)
	assert.Equal(t, []string{"img-1"}, f.media.deleted)
	assert.Equal(t, []string{"Fiction"}, f.stats.categories)
}

/*
TestService_DeleteBook_MediaFailureIsNonFatal verifies that a failing media
store never blocks record deletion.
*/
func TestService_DeleteBook_MediaFailureIsNonFatal(t *testing.T) {
	f := newFixtures()
	seeded := seedBook(t, f.repo, nil)
	f.media.deleteErr = errors.New("object store down")

	require.NoError(t, f.service.DeleteBook(context.Background(), seeded.ID))
	assert.Empty(t, f.repo.books)
}

// # Best of Month

/*
TestService_BestOfMonth_Singleton verifies the core promotion property:
selecting a second book demotes the first, so at most one flag holds.
*/
func TestService_BestOfMonth_Singleton(t *testing.T) {
	f := newFixtures()
	first := seedBook(t, f.repo, nil)
	second := seedBook(t, f.repo, func(b *book.Book) {
		b.ID = uuid.NewString()
		b.Title = "Debi"
	})

	_, err := f.service.SelectBestOfMonth(context.Background(), first.ID)
	require.NoError(t, err)

	promoted, err := f.service.SelectBestOfMonth(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, promoted.ID)

	flagged := 0
	for _, record := range f.repo.books {
		if record.BestOfMonth {
			flagged++
			assert.Equal(t, second.ID, record.ID)
		}
	}
	assert.Equal(t, 1, flagged)
}

/*
TestService_BestOfMonth_MissingTarget verifies that promoting an unknown id
fails and leaves the current pick untouched.
*/
func TestService_BestOfMonth_MissingTarget(t *testing.T) {
	f := newFixtures()
	current := seedBook(t, f.repo, func(b *book.Book) { b.BestOfMonth = true })

	_, err := f.service.SelectBestOfMonth(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	pick, err := f.service.BestOfMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, current.ID, pick.ID)
}

/*
TestService_BestOfMonth_Remove verifies clearing, including the NOT_FOUND
result when nothing holds the flag.
*/
func TestService_BestOfMonth_Remove(t *testing.T) {
	f := newFixtures()
	seedBook(t, f.repo, func(b *book.Book) { b.BestOfMonth = true })

	require.NoError(t, f.service.RemoveBestOfMonth(context.Background()))

	err := f.service.RemoveBestOfMonth(context.Background())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = f.service.BestOfMonth(context.Background())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_BestOfMonth_ExcludesDiscontinued verifies that a discontinued
pick is invisible to the storefront endpoint.
*/
func TestService_BestOfMonth_ExcludesDiscontinued(t *testing.T) {
	f := newFixtures()
	seedBook(t, f.repo, func(b *book.Book) {
		b.BestOfMonth = true
		b.Status = book.StatusDiscontinued
	})

	_, err := f.service.BestOfMonth(context.Background())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_GetBook_InvalidID verifies that a malformed identifier is a
validation error, not a lookup.
*/
func TestService_GetBook_InvalidID(t *testing.T) {
	f := newFixtures()

	_, err := f.service.GetBook(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
