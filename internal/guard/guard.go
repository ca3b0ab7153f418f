// Package guard centralizes the authorization predicates shared by the
// catalog, lending, and feedback services. Keeping the rules in one place
// stops borrow and feedback from growing divergent copies of "is this book
// available".
package guard

import (
	"context"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/errors"
)

// ActiveLoanChecker is the slice of the store the guard needs.
type ActiveLoanChecker interface {
	HasActiveLoan(ctx context.Context, bookID, borrowerID string) (bool, error)
}

// Guard evaluates ownership and eligibility rules. The predicate methods are
// pure; HasActiveLoan consults persisted loans.
type Guard struct {
	loans ActiveLoanChecker
}

// New creates a guard backed by the given loan checker.
func New(loans ActiveLoanChecker) *Guard {
	return &Guard{loans: loans}
}

// IsOwner reports whether the principal owns the book.
func (g *Guard) IsOwner(book *domain.Book, principalID string) bool {
	return book.IsOwnedBy(principalID)
}

// IsBorrowable reports whether the book can currently be borrowed.
func (g *Guard) IsBorrowable(book *domain.Book) bool {
	return book.IsBorrowable()
}

// HasActiveLoan reports whether the principal holds an outstanding loan on
// the book.
func (g *Guard) HasActiveLoan(ctx context.Context, bookID, principalID string) (bool, error) {
	return g.loans.HasActiveLoan(ctx, bookID, principalID)
}

// RequireOwner returns a forbidden error unless the principal owns the book.
func (g *Guard) RequireOwner(book *domain.Book, principalID string) error {
	if !g.IsOwner(book, principalID) {
		return errors.Forbiddenf("you are not the owner of book %s", book.ID)
	}
	return nil
}

// RequireNotOwner returns a forbidden error when the principal owns the
// book. Owners cannot borrow or review their own listings.
func (g *Guard) RequireNotOwner(book *domain.Book, principalID string) error {
	if g.IsOwner(book, principalID) {
		return errors.Forbiddenf("you are the owner of book %s", book.ID)
	}
	return nil
}

// RequireBorrowable returns a forbidden error unless the book is shareable
// and not archived.
func (g *Guard) RequireBorrowable(book *domain.Book) error {
	if !g.IsBorrowable(book) {
		return errors.Forbiddenf("book %s is not available for borrowing", book.ID)
	}
	return nil
}
