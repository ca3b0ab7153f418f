package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
)

func (s *Server) registerLendingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "borrowBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{id}/borrow",
		Summary:       "Borrow book",
		Description:   "Opens a loan on a shared book for the caller",
		Tags:          []string{"Lending"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleBorrowBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "returnBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/return",
		Summary:     "Return book",
		Description: "Marks the caller's active loan as returned, pending the owner's approval",
		Tags:        []string{"Lending"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReturnBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "approveReturn",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/return/approve",
		Summary:     "Approve return",
		Description: "Confirms a returned book was received, freeing it for the next borrower. Owner only",
		Tags:        []string{"Lending"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleApproveReturn)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBorrowedLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/borrowed",
		Summary:     "List borrowed loans",
		Description: "Returns the page of the caller's active loans, newest first",
		Tags:        []string{"Lending"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBorrowedLoans)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReturnedLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/returned",
		Summary:     "List returned loans",
		Description: "Returns the page of loans on the caller's books awaiting return approval",
		Tags:        []string{"Lending"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReturnedLoans)
}

// === DTOs ===

// LoanActionInput contains parameters for the loan lifecycle endpoints.
type LoanActionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// LoanIDResponse carries the affected loan ID.
type LoanIDResponse struct {
	ID string `json:"id" doc:"Loan ID"`
}

// LoanIDOutput wraps the loan ID response for Huma.
type LoanIDOutput struct {
	Body LoanIDResponse
}

// LoanResponse contains a loan joined with its book's catalog fields.
type LoanResponse struct {
	ID             string    `json:"id" doc:"Loan ID"`
	BookID         string    `json:"book_id" doc:"Borrowed book ID"`
	BorrowerID     string    `json:"borrower_id" doc:"Borrowing user ID"`
	Returned       bool      `json:"returned" doc:"Whether the borrower handed the book back"`
	ReturnApproved bool      `json:"return_approved" doc:"Whether the owner confirmed the return"`
	Title          string    `json:"title" doc:"Book title"`
	AuthorName     string    `json:"author_name" doc:"Author display name"`
	ISBN           string    `json:"isbn,omitempty" doc:"ISBN if known"`
	Rating         float64   `json:"rating" doc:"Average feedback note for the book"`
	CreatedAt      time.Time `json:"created_at" doc:"When the loan was opened"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last state change"`
}

func toLoanResponse(l *domain.LoanWithBook) LoanResponse {
	return LoanResponse{
		ID:             l.ID,
		BookID:         l.BookID,
		BorrowerID:     l.BorrowerID,
		Returned:       l.Returned,
		ReturnApproved: l.ReturnApproved,
		Title:          l.Title,
		AuthorName:     l.AuthorName,
		ISBN:           l.ISBN,
		Rating:         l.Rating,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ListLoansInput contains parameters for the loan listing endpoints.
type ListLoansInput struct {
	Authorization string `header:"Authorization"`
	Page          int    `query:"page" doc:"Zero-based page number"`
	Size          int    `query:"size" doc:"Page size (default 20, max 100)"`
}

// LoanPageOutput wraps a page of loans for Huma.
type LoanPageOutput struct {
	Body PageResponse[LoanResponse]
}

// === Handlers ===

func (s *Server) handleBorrowBook(ctx context.Context, input *LoanActionInput) (*LoanIDOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	loanID, err := s.services.Lending.Borrow(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &LoanIDOutput{Body: LoanIDResponse{ID: loanID}}, nil
}

func (s *Server) handleReturnBook(ctx context.Context, input *LoanActionInput) (*LoanIDOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	loanID, err := s.services.Lending.Return(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &LoanIDOutput{Body: LoanIDResponse{ID: loanID}}, nil
}

func (s *Server) handleApproveReturn(ctx context.Context, input *LoanActionInput) (*LoanIDOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	loanID, err := s.services.Lending.ApproveReturn(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &LoanIDOutput{Body: LoanIDResponse{ID: loanID}}, nil
}

func (s *Server) handleListBorrowedLoans(ctx context.Context, input *ListLoansInput) (*LoanPageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Lending.ListBorrowed(ctx, userID, pageParams(input.Page, input.Size))
	if err != nil {
		return nil, err
	}

	return &LoanPageOutput{Body: toPageResponse(page, toLoanResponse)}, nil
}

func (s *Server) handleListReturnedLoans(ctx context.Context, input *ListLoansInput) (*LoanPageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Lending.ListReturned(ctx, userID, pageParams(input.Page, input.Size))
	if err != nil {
		return nil, err
	}

	return &LoanPageOutput{Body: toPageResponse(page, toLoanResponse)}, nil
}
