package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/errors"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries,
// including the rating aggregate. Must match the scan order in scanBook.
const bookColumns = `b.id, b.created_at, b.updated_at, b.title, b.author_name,
	b.isbn, b.synopsis, b.cover_ref, b.archived, b.shareable, b.owner_id,
	COALESCE(r.avg_note, 0)`

// ratingJoin computes the mean feedback note per book. The rating is
// derived on every read rather than stored, so new feedback shows up
// immediately.
const ratingJoin = `LEFT JOIN (
		SELECT book_id, AVG(note) AS avg_note FROM feedback GROUP BY book_id
	) r ON r.book_id = b.id`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt string
		updatedAt string
		coverRef  sql.NullString
		archived  int
		shareable int
		avgNote   float64
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&b.AuthorName,
		&b.ISBN,
		&b.Synopsis,
		&coverRef,
		&archived,
		&shareable,
		&b.OwnerID,
		&avgNote,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if coverRef.Valid {
		b.CoverRef = coverRef.String
	}
	b.Archived = archived != 0
	b.Shareable = shareable != 0
	b.Rating = domain.RoundRating(avgNote)

	return &b, nil
}

// CreateBook inserts a new book row.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, created_at, updated_at, title, author_name,
			isbn, synopsis, cover_ref, archived, shareable, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.AuthorName,
		book.ISBN,
		book.Synopsis,
		nullString(book.CoverRef),
		boolToInt(book.Archived),
		boolToInt(book.Shareable),
		book.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	return nil
}

// GetBook returns a single book with its derived rating.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+bookColumns+`
		FROM books b `+ratingJoin+`
		WHERE b.id = ?`, id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("book %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

// UpdateBook persists catalog field changes for an existing book.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books
		SET updated_at = ?, title = ?, author_name = ?, isbn = ?,
			synopsis = ?, cover_ref = ?, archived = ?, shareable = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		book.AuthorName,
		book.ISBN,
		book.Synopsis,
		nullString(book.CoverRef),
		boolToInt(book.Archived),
		boolToInt(book.Shareable),
		book.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NotFoundf("book %s not found", book.ID)
	}

	return nil
}

// displayablePredicate selects books visible to a principal: shared and not
// archived, or owned by the principal regardless of flags. Evaluated in SQL
// so page counts stay correct.
const displayablePredicate = `(b.archived = 0 AND b.shareable = 1) OR b.owner_id = ?`

// ListDisplayableBooks returns the page of books visible to the principal,
// newest first.
func (s *Store) ListDisplayableBooks(ctx context.Context, principalID string, params store.PageParams) (*store.Page[*domain.Book], error) {
	params.Validate()

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books b WHERE `+displayablePredicate, principalID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count displayable books: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books b `+ratingJoin+`
		WHERE `+displayablePredicate+`
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT ? OFFSET ?`,
		principalID, params.Size, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("list displayable books: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}

	return store.NewPage(books, params, total), nil
}

// ListBooksByOwner returns all books owned by the given user, newest first,
// irrespective of the archived/shareable flags.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string, params store.PageParams) (*store.Page[*domain.Book], error) {
	params.Validate()

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books b WHERE b.owner_id = ?`, ownerID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count books by owner: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books b `+ratingJoin+`
		WHERE b.owner_id = ?
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT ? OFFSET ?`,
		ownerID, params.Size, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}

	return store.NewPage(books, params, total), nil
}

// collectBooks drains rows into a slice of books.
func collectBooks(rows *sql.Rows) ([]*domain.Book, error) {
	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}
