package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

// feedbackColumns is the ordered list of columns selected in feedback
// queries. Must match the scan order in scanFeedback.
const feedbackColumns = `f.id, f.created_at, f.updated_at, f.book_id,
	f.author_id, f.note, f.comment`

// scanFeedback scans a sql.Row (or sql.Rows via its Scan method) into a domain.Feedback.
func scanFeedback(scanner interface{ Scan(dest ...any) error }) (*domain.Feedback, error) {
	var f domain.Feedback

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&f.ID,
		&createdAt,
		&updatedAt,
		&f.BookID,
		&f.AuthorID,
		&f.Note,
		&f.Comment,
	)
	if err != nil {
		return nil, err
	}

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// CreateFeedback inserts a new feedback row.
func (s *Store) CreateFeedback(ctx context.Context, feedback *domain.Feedback) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, created_at, updated_at, book_id, author_id,
			note, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		feedback.ID,
		formatTime(feedback.CreatedAt),
		formatTime(feedback.UpdatedAt),
		feedback.BookID,
		feedback.AuthorID,
		feedback.Note,
		feedback.Comment,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}

// ListFeedbackByBook returns the page of feedback on a book, newest first.
func (s *Store) ListFeedbackByBook(ctx context.Context, bookID string, params store.PageParams) (*store.Page[*domain.Feedback], error) {
	params.Validate()

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feedback WHERE book_id = ?`, bookID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+feedbackColumns+`
		FROM feedback f
		WHERE f.book_id = ?
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT ? OFFSET ?`,
		bookID, params.Size, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var feedbacks []*domain.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}

	return store.NewPage(feedbacks, params, total), nil
}

// BookRating returns the mean feedback note for the book rounded to one
// decimal place, or 0.0 when the book has no feedback. Recomputed on every
// call so fresh feedback is reflected immediately.
func (s *Store) BookRating(ctx context.Context, bookID string) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(note) FROM feedback WHERE book_id = ?`, bookID,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("book rating: %w", err)
	}

	if !avg.Valid {
		return 0, nil
	}

	return domain.RoundRating(avg.Float64), nil
}
