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

// FeedbackService collects ratings and comments on books and derives the
// aggregate rating shown on listings.
type FeedbackService struct {
	store  store.Store
	guard  *guard.Guard
	logger *slog.Logger
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(store store.Store, guard *guard.Guard, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		store:  store,
		guard:  guard,
		logger: logger,
	}
}

// Submit records feedback on a book. The book must be shareable and
// unarchived, the author must not own it, and the note must fall in [0, 5].
// A past loan is deliberately not required: anyone who could borrow the
// book may review it.
func (s *FeedbackService) Submit(ctx context.Context, bookID, authorID string, note float64, comment string) (string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if !s.guard.IsBorrowable(book) {
		return "", errors.Forbiddenf("book %s is not available for feedback", bookID)
	}
	if s.guard.IsOwner(book, authorID) {
		return "", errors.Forbiddenf("you cannot give feedback on your own book %s", bookID)
	}

	feedback := &domain.Feedback{
		BookID:   bookID,
		AuthorID: authorID,
		Note:     note,
		Comment:  comment,
	}
	if !feedback.NoteInRange() {
		return "", errors.ValidationWithDetails("validation failed", map[string]string{
			"note": "must be between 0 and 5",
		})
	}

	feedbackID, err := id.Generate("fb")
	if err != nil {
		return "", fmt.Errorf("generate feedback id: %w", err)
	}
	feedback.ID = feedbackID
	feedback.InitTimestamps()

	if err := s.store.CreateFeedback(ctx, feedback); err != nil {
		return "", fmt.Errorf("create feedback: %w", err)
	}

	s.logger.Info("feedback submitted",
		"feedback_id", feedback.ID,
		"book_id", bookID,
		"note", note,
	)

	return feedback.ID, nil
}

// ListForBook returns the page of feedback on a book, newest first, marking
// the entries the viewer wrote themselves.
func (s *FeedbackService) ListForBook(ctx context.Context, bookID, viewerID string, params store.PageParams) (*store.Page[*domain.FeedbackView], error) {
	page, err := s.store.ListFeedbackByBook(ctx, bookID, params)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.FeedbackView, 0, len(page.Content))
	for _, fb := range page.Content {
		views = append(views, &domain.FeedbackView{
			Feedback:    *fb,
			OwnFeedback: fb.AuthorID == viewerID,
		})
	}

	return &store.Page[*domain.FeedbackView]{
		Content:       views,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}, nil
}

// Rating returns the book's aggregate rating: the mean note rounded to one
// decimal, or 0.0 when the book has no feedback yet. It is recomputed from
// the stored feedback on every call, never cached.
func (s *FeedbackService) Rating(ctx context.Context, bookID string) (float64, error) {
	return s.store.BookRating(ctx, bookID)
}
