package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/errors"
	"github.com/bookcircleapp/bookcircle-server/internal/guard"
	"github.com/bookcircleapp/bookcircle-server/internal/id"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

// LendingService drives the borrow / return / approve loan lifecycle.
type LendingService struct {
	store  store.Store
	guard  *guard.Guard
	logger *slog.Logger
}

// NewLendingService creates a new lending service.
func NewLendingService(store store.Store, guard *guard.Guard, logger *slog.Logger) *LendingService {
	return &LendingService{
		store:  store,
		guard:  guard,
		logger: logger,
	}
}

// Borrow opens a loan on the book for the borrower. The book must exist, be
// shareable and unarchived, and not belong to the borrower, who must not
// already hold it. Two racing borrowers can both pass those checks; the
// loans table only admits one active loan per book, so the loser gets a
// conflict error back.
func (s *LendingService) Borrow(ctx context.Context, bookID, borrowerID string) (string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if err := s.guard.RequireBorrowable(book); err != nil {
		return "", err
	}
	if err := s.guard.RequireNotOwner(book, borrowerID); err != nil {
		return "", err
	}

	active, err := s.guard.HasActiveLoan(ctx, bookID, borrowerID)
	if err != nil {
		return "", fmt.Errorf("check active loan: %w", err)
	}
	if active {
		return "", errors.Forbiddenf("you have already borrowed book %s", bookID)
	}

	loanID, err := id.Generate("loan")
	if err != nil {
		return "", fmt.Errorf("generate loan id: %w", err)
	}

	loan := &domain.LoanRecord{
		BookID:     bookID,
		BorrowerID: borrowerID,
	}
	loan.ID = loanID
	loan.InitTimestamps()

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return "", err
	}

	s.logger.Info("book borrowed",
		"loan_id", loan.ID,
		"book_id", bookID,
		"borrower_id", borrowerID,
	)

	return loan.ID, nil
}

// Return marks the borrower's active loan on the book as returned, pending
// the owner's approval. The borrower must actually hold the book.
func (s *LendingService) Return(ctx context.Context, bookID, borrowerID string) (string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if err := s.guard.RequireBorrowable(book); err != nil {
		return "", err
	}
	if err := s.guard.RequireNotOwner(book, borrowerID); err != nil {
		return "", err
	}

	loan, err := s.store.GetActiveLoan(ctx, bookID, borrowerID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return "", errors.Forbiddenf("you have not borrowed book %s", bookID)
		}
		return "", err
	}

	loan.MarkReturned()
	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return "", fmt.Errorf("update loan: %w", err)
	}

	s.logger.Info("book returned",
		"loan_id", loan.ID,
		"book_id", bookID,
		"borrower_id", borrowerID,
	)

	return loan.ID, nil
}

// ApproveReturn lets the owner acknowledge a returned book, closing the
// loan and freeing the book for the next borrower. There must be a return
// waiting for approval.
func (s *LendingService) ApproveReturn(ctx context.Context, bookID, ownerID string) (string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if err := s.guard.RequireBorrowable(book); err != nil {
		return "", err
	}
	if err := s.guard.RequireOwner(book, ownerID); err != nil {
		return "", err
	}

	loan, err := s.store.GetPendingApproval(ctx, bookID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return "", errors.Forbiddenf("book %s is not returned yet", bookID)
		}
		return "", err
	}

	loan.ApproveReturn()
	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return "", fmt.Errorf("update loan: %w", err)
	}

	s.logger.Info("book return approved",
		"loan_id", loan.ID,
		"book_id", bookID,
		"owner_id", ownerID,
	)

	return loan.ID, nil
}

// ListBorrowed returns the page of the principal's loans, newest first,
// with the book details joined in.
func (s *LendingService) ListBorrowed(ctx context.Context, borrowerID string, params store.PageParams) (*store.Page[*domain.LoanWithBook], error) {
	return s.store.ListLoansByBorrower(ctx, borrowerID, params)
}

// ListReturned returns the page of returned loans on the principal's books,
// newest first, so the owner can see what is waiting for approval.
func (s *LendingService) ListReturned(ctx context.Context, ownerID string, params store.PageParams) (*store.Page[*domain.LoanWithBook], error) {
	return s.store.ListReturnedLoansByOwner(ctx, ownerID, params)
}
