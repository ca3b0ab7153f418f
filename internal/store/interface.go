// Package store defines the persistence interface for the BookCircle server.
package store

import (
	"context"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
)

// Store defines the interface for all catalog persistence operations.
//
// Lookup methods return a domain NotFound error when no row matches.
// CreateLoan returns a Conflict error when the book already has an active
// loan; the partial unique index behind it is what closes the concurrent
// borrow race, so callers must treat that error as a lost race rather than
// a bug.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	ListDisplayableBooks(ctx context.Context, principalID string, params PageParams) (*Page[*domain.Book], error)
	ListBooksByOwner(ctx context.Context, ownerID string, params PageParams) (*Page[*domain.Book], error)

	// Loans
	CreateLoan(ctx context.Context, loan *domain.LoanRecord) error
	UpdateLoan(ctx context.Context, loan *domain.LoanRecord) error
	GetLoan(ctx context.Context, id string) (*domain.LoanRecord, error)
	GetActiveLoan(ctx context.Context, bookID, borrowerID string) (*domain.LoanRecord, error)
	HasActiveLoan(ctx context.Context, bookID, borrowerID string) (bool, error)
	GetPendingApproval(ctx context.Context, bookID string) (*domain.LoanRecord, error)
	ListLoansByBorrower(ctx context.Context, borrowerID string, params PageParams) (*Page[*domain.LoanWithBook], error)
	ListReturnedLoansByOwner(ctx context.Context, ownerID string, params PageParams) (*Page[*domain.LoanWithBook], error)

	// Feedback
	CreateFeedback(ctx context.Context, feedback *domain.Feedback) error
	ListFeedbackByBook(ctx context.Context, bookID string, params PageParams) (*Page[*domain.Feedback], error)
	BookRating(ctx context.Context, bookID string) (float64, error)
}
