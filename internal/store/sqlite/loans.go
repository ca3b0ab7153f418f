package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/errors"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

// loanColumns is the ordered list of columns selected in loan queries.
// Must match the scan order in scanLoan.
const loanColumns = `l.id, l.created_at, l.updated_at, l.book_id,
	l.borrower_id, l.returned, l.return_approved`

// scanLoan scans a sql.Row (or sql.Rows via its Scan method) into a domain.LoanRecord.
func scanLoan(scanner interface{ Scan(dest ...any) error }) (*domain.LoanRecord, error) {
	var l domain.LoanRecord

	var (
		createdAt      string
		updatedAt      string
		returned       int
		returnApproved int
	)

	err := scanner.Scan(
		&l.ID,
		&createdAt,
		&updatedAt,
		&l.BookID,
		&l.BorrowerID,
		&returned,
		&returnApproved,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	l.Returned = returned != 0
	l.ReturnApproved = returnApproved != 0

	return &l, nil
}

// CreateLoan inserts a new loan row. The partial unique index on
// loans(book_id) WHERE returned = 0 guarantees at most one active loan per
// book; when a concurrent borrow wins the race first, the violation is
// surfaced as a conflict error.
func (s *Store) CreateLoan(ctx context.Context, loan *domain.LoanRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (id, created_at, updated_at, book_id, borrower_id,
			returned, return_approved)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		loan.ID,
		formatTime(loan.CreatedAt),
		formatTime(loan.UpdatedAt),
		loan.BookID,
		loan.BorrowerID,
		boolToInt(loan.Returned),
		boolToInt(loan.ReturnApproved),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.Conflictf("book %s already has an active loan", loan.BookID)
		}
		return fmt.Errorf("insert loan: %w", err)
	}

	return nil
}

// UpdateLoan persists state changes (returned, return_approved) for a loan.
func (s *Store) UpdateLoan(ctx context.Context, loan *domain.LoanRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE loans
		SET updated_at = ?, returned = ?, return_approved = ?
		WHERE id = ?`,
		formatTime(loan.UpdatedAt),
		boolToInt(loan.Returned),
		boolToInt(loan.ReturnApproved),
		loan.ID,
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update loan rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NotFoundf("loan %s not found", loan.ID)
	}

	return nil
}

// GetLoan returns a single loan by ID.
func (s *Store) GetLoan(ctx context.Context, id string) (*domain.LoanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans l
		WHERE l.id = ?`, id)

	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("loan %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}

	return loan, nil
}

// GetActiveLoan returns the outstanding loan held by the borrower on the
// book, or a NotFound error when the borrower has none.
func (s *Store) GetActiveLoan(ctx context.Context, bookID, borrowerID string) (*domain.LoanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans l
		WHERE l.book_id = ? AND l.borrower_id = ? AND l.returned = 0`,
		bookID, borrowerID)

	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no active loan on book %s for user %s", bookID, borrowerID)
	}
	if err != nil {
		return nil, fmt.Errorf("get active loan: %w", err)
	}

	return loan, nil
}

// HasActiveLoan reports whether the borrower currently holds an
// unreturned loan on the book.
func (s *Store) HasActiveLoan(ctx context.Context, bookID, borrowerID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM loans
			WHERE book_id = ? AND borrower_id = ? AND returned = 0
		)`, bookID, borrowerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has active loan: %w", err)
	}

	return exists != 0, nil
}

// GetPendingApproval returns the loan on the book that has been returned
// but not yet approved, or a NotFound error when there is none.
func (s *Store) GetPendingApproval(ctx context.Context, bookID string) (*domain.LoanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+loanColumns+`
		FROM loans l
		WHERE l.book_id = ? AND l.returned = 1 AND l.return_approved = 0
		ORDER BY l.created_at DESC
		LIMIT 1`, bookID)

	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no return pending approval on book %s", bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("get pending approval: %w", err)
	}

	return loan, nil
}

// loanWithBookColumns extends loanColumns with the joined book fields.
// Must match the scan order in scanLoanWithBook.
const loanWithBookColumns = loanColumns + `, b.title, b.author_name, b.isbn,
	COALESCE(r.avg_note, 0)`

// scanLoanWithBook scans a loan row joined with its book's catalog fields.
func scanLoanWithBook(scanner interface{ Scan(dest ...any) error }) (*domain.LoanWithBook, error) {
	var lw domain.LoanWithBook

	var (
		createdAt      string
		updatedAt      string
		returned       int
		returnApproved int
		avgNote        float64
	)

	err := scanner.Scan(
		&lw.ID,
		&createdAt,
		&updatedAt,
		&lw.BookID,
		&lw.BorrowerID,
		&returned,
		&returnApproved,
		&lw.Title,
		&lw.AuthorName,
		&lw.ISBN,
		&avgNote,
	)
	if err != nil {
		return nil, err
	}

	lw.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	lw.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	lw.Returned = returned != 0
	lw.ReturnApproved = returnApproved != 0
	lw.Rating = domain.RoundRating(avgNote)

	return &lw, nil
}

// ListLoansByBorrower returns the page of loans held (past and present) by
// the borrower, newest first, joined with each book's catalog fields.
func (s *Store) ListLoansByBorrower(ctx context.Context, borrowerID string, params store.PageParams) (*store.Page[*domain.LoanWithBook], error) {
	params.Validate()

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans WHERE borrower_id = ?`, borrowerID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count loans by borrower: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+loanWithBookColumns+`
		FROM loans l
		JOIN books b ON b.id = l.book_id
		`+ratingJoin+`
		WHERE l.borrower_id = ?
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ? OFFSET ?`,
		borrowerID, params.Size, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("list loans by borrower: %w", err)
	}
	defer rows.Close()

	loans, err := collectLoansWithBook(rows)
	if err != nil {
		return nil, err
	}

	return store.NewPage(loans, params, total), nil
}

// ListReturnedLoansByOwner returns the page of returned loans (approval
// pending or granted) on books owned by the given user, newest first.
// This is the owner's to-do list for approvals.
func (s *Store) ListReturnedLoansByOwner(ctx context.Context, ownerID string, params store.PageParams) (*store.Page[*domain.LoanWithBook], error) {
	params.Validate()

	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE b.owner_id = ? AND l.returned = 1`, ownerID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count returned loans by owner: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+loanWithBookColumns+`
		FROM loans l
		JOIN books b ON b.id = l.book_id
		`+ratingJoin+`
		WHERE b.owner_id = ? AND l.returned = 1
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ? OFFSET ?`,
		ownerID, params.Size, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("list returned loans by owner: %w", err)
	}
	defer rows.Close()

	loans, err := collectLoansWithBook(rows)
	if err != nil {
		return nil, err
	}

	return store.NewPage(loans, params, total), nil
}

// collectLoansWithBook drains rows into a slice of joined loans.
func collectLoansWithBook(rows *sql.Rows) ([]*domain.LoanWithBook, error) {
	var loans []*domain.LoanWithBook
	for rows.Next() {
		loan, err := scanLoanWithBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return loans, nil
}
