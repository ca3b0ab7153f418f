package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/service"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Lists a new book owned by the caller",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the page of books visible to the caller: shared books from everyone plus the caller's own",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOwnedBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/owned",
		Summary:     "List owned books",
		Description: "Returns the page of books owned by the caller, including archived and private ones",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOwnedBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID with its derived rating",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleBookShareable",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/shareable",
		Summary:     "Toggle shareable",
		Description: "Flips whether the book can be borrowed by others. Owner only",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleShareable)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleBookArchived",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/archived",
		Summary:     "Toggle archived",
		Description: "Flips whether the book is hidden from the shared catalog. Owner only",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleArchived)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID         string    `json:"id" doc:"Book ID"`
	Title      string    `json:"title" doc:"Book title"`
	AuthorName string    `json:"author_name" doc:"Author display name"`
	ISBN       string    `json:"isbn,omitempty" doc:"ISBN if known"`
	Synopsis   string    `json:"synopsis,omitempty" doc:"Short synopsis"`
	Archived   bool      `json:"archived" doc:"Hidden from the shared catalog"`
	Shareable  bool      `json:"shareable" doc:"Available for borrowing"`
	OwnerID    string    `json:"owner_id" doc:"Owning user ID"`
	Rating     float64   `json:"rating" doc:"Average feedback note, 0 when none"`
	HasCover   bool      `json:"has_cover" doc:"Whether a cover image was uploaded"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:         b.ID,
		Title:      b.Title,
		AuthorName: b.AuthorName,
		ISBN:       b.ISBN,
		Synopsis:   b.Synopsis,
		Archived:   b.Archived,
		Shareable:  b.Shareable,
		OwnerID:    b.OwnerID,
		Rating:     b.Rating,
		HasCover:   b.CoverRef != "",
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// PageResponse is the paged wrapper for list endpoints.
type PageResponse[T any] struct {
	Content       []T  `json:"content" doc:"Page content"`
	Number        int  `json:"number" doc:"Zero-based page number"`
	Size          int  `json:"size" doc:"Requested page size"`
	TotalElements int  `json:"total_elements" doc:"Total matching elements"`
	TotalPages    int  `json:"total_pages" doc:"Total page count"`
	First         bool `json:"first" doc:"Whether this is the first page"`
	Last          bool `json:"last" doc:"Whether this is the last page"`
}

// toPageResponse converts a store page element-wise.
func toPageResponse[T, U any](page *store.Page[U], convert func(U) T) PageResponse[T] {
	content := make([]T, len(page.Content))
	for i, item := range page.Content {
		content[i] = convert(item)
	}
	return PageResponse[T]{
		Content:       content,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title      string `json:"title" validate:"required,max=255" doc:"Book title"`
	AuthorName string `json:"author_name" validate:"required,max=255" doc:"Author display name"`
	ISBN       string `json:"isbn,omitempty" validate:"omitempty,isbn" doc:"ISBN-10 or ISBN-13"`
	Synopsis   string `json:"synopsis,omitempty" validate:"omitempty,max=2000" doc:"Short synopsis"`
	Shareable  bool   `json:"shareable,omitempty" doc:"Whether others may borrow this book"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
	Page          int    `query:"page" doc:"Zero-based page number"`
	Size          int    `query:"size" doc:"Page size (default 20, max 100)"`
}

// BookPageOutput wraps a page of books for Huma.
type BookPageOutput struct {
	Body PageResponse[BookResponse]
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// ToggleBookInput contains parameters for the toggle endpoints.
type ToggleBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// BookIDResponse carries just the affected book ID.
type BookIDResponse struct {
	ID string `json:"id" doc:"Book ID"`
}

// BookIDOutput wraps the book ID response for Huma.
type BookIDOutput struct {
	Body BookIDResponse
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Catalog.Create(ctx, service.BookSpec{
		Title:      input.Body.Title,
		AuthorName: input.Body.AuthorName,
		ISBN:       input.Body.ISBN,
		Synopsis:   input.Body.Synopsis,
		Shareable:  input.Body.Shareable,
	}, userID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookPageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Catalog.List(ctx, userID, pageParams(input.Page, input.Size))
	if err != nil {
		return nil, err
	}

	return &BookPageOutput{Body: toPageResponse(page, toBookResponse)}, nil
}

func (s *Server) handleListOwnedBooks(ctx context.Context, input *ListBooksInput) (*BookPageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Catalog.ListByOwner(ctx, userID, pageParams(input.Page, input.Size))
	if err != nil {
		return nil, err
	}

	return &BookPageOutput{Body: toPageResponse(page, toBookResponse)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Catalog.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleToggleShareable(ctx context.Context, input *ToggleBookInput) (*BookIDOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	bookID, err := s.services.Catalog.ToggleShareable(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &BookIDOutput{Body: BookIDResponse{ID: bookID}}, nil
}

func (s *Server) handleToggleArchived(ctx context.Context, input *ToggleBookInput) (*BookIDOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	bookID, err := s.services.Catalog.ToggleArchived(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &BookIDOutput{Body: BookIDResponse{ID: bookID}}, nil
}
