// Package service provides the business logic layer for the BookCircle
// catalog, lending workflow, and feedback.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/errors"
	"github.com/bookcircleapp/bookcircle-server/internal/guard"
	"github.com/bookcircleapp/bookcircle-server/internal/id"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

// BookSpec carries the caller-supplied fields for a new book listing.
type BookSpec struct {
	Title      string
	AuthorName string
	ISBN       string
	Synopsis   string
	Shareable  bool
}

// CatalogService owns the book lifecycle: listing creation, visibility
// toggles, and cover management.
type CatalogService struct {
	store  store.Store
	guard  *guard.Guard
	covers *covers.Storage
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Store, guard *guard.Guard, covers *covers.Storage, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		guard:  guard,
		covers: covers,
		logger: logger,
	}
}

// Create lists a new book owned by ownerID. New books always start
// unarchived; whether they are shareable is up to the owner.
func (s *CatalogService) Create(ctx context.Context, spec BookSpec, ownerID string) (*domain.Book, error) {
	fieldErrors := map[string]string{}
	if strings.TrimSpace(spec.Title) == "" {
		fieldErrors["title"] = "is required"
	}
	if strings.TrimSpace(spec.AuthorName) == "" {
		fieldErrors["author_name"] = "is required"
	}
	if len(fieldErrors) > 0 {
		return nil, errors.ValidationWithDetails("validation failed", fieldErrors)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book id: %w", err)
	}

	book := &domain.Book{
		Title:      spec.Title,
		AuthorName: spec.AuthorName,
		ISBN:       spec.ISBN,
		Synopsis:   spec.Synopsis,
		Shareable:  spec.Shareable,
		OwnerID:    ownerID,
	}
	book.ID = bookID
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", book.ID,
		"owner_id", ownerID,
		"shareable", book.Shareable,
	)

	return book, nil
}

// Get retrieves a single book by ID, including its derived rating.
func (s *CatalogService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// List returns the page of books displayable to the principal: shared and
// unarchived books from everyone, plus the principal's own books whatever
// their flags. Newest first.
func (s *CatalogService) List(ctx context.Context, principalID string, params store.PageParams) (*store.Page[*domain.Book], error) {
	return s.store.ListDisplayableBooks(ctx, principalID, params)
}

// ListByOwner returns the page of books owned by the principal, newest
// first, including archived and non-shareable ones.
func (s *CatalogService) ListByOwner(ctx context.Context, ownerID string, params store.PageParams) (*store.Page[*domain.Book], error) {
	return s.store.ListBooksByOwner(ctx, ownerID, params)
}

// ToggleShareable flips the book's shareable flag. Owner only.
func (s *CatalogService) ToggleShareable(ctx context.Context, bookID, principalID string) (string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if err := s.guard.RequireOwner(book, principalID); err != nil {
		return "", err
	}

	book.ToggleShareable()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return "", fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book shareable toggled",
		"book_id", bookID,
		"shareable", book.Shareable,
	)

	return bookID, nil
}

// ToggleArchived flips the book's archived flag. Owner only.
func (s *CatalogService) ToggleArchived(ctx context.Context, bookID, principalID string) (string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if err := s.guard.RequireOwner(book, principalID); err != nil {
		return "", err
	}

	book.ToggleArchived()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return "", fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book archived toggled",
		"book_id", bookID,
		"archived", book.Archived,
	)

	return bookID, nil
}

// SetCover stores the cover bytes and records the returned reference on the
// book. Owner only. Storage failures surface as storage errors and leave
// the book record untouched.
func (s *CatalogService) SetCover(ctx context.Context, bookID, principalID string, data []byte, filename string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if err := s.guard.RequireOwner(book, principalID); err != nil {
		return err
	}

	ref, err := s.covers.Save(data, principalID, filename)
	if err != nil {
		return err
	}

	book.CoverRef = ref
	book.Touch()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return fmt.Errorf("update book cover: %w", err)
	}

	s.logger.Info("book cover set",
		"book_id", bookID,
		"cover_ref", ref,
	)

	return nil
}

// GetCover retrieves the cover bytes for a book, or a not found error when
// the book has no cover.
func (s *CatalogService) GetCover(ctx context.Context, bookID string) ([]byte, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.CoverRef == "" {
		return nil, errors.NotFoundf("book %s has no cover", bookID)
	}

	return s.covers.Get(book.CoverRef)
}
