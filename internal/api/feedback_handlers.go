package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
)

func (s *Server) registerFeedbackRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitFeedback",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{id}/feedback",
		Summary:       "Submit feedback",
		Description:   "Records a note and optional comment on a shared book",
		Tags:          []string{"Feedback"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitFeedback)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFeedback",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/feedback",
		Summary:     "List feedback",
		Description: "Returns the page of feedback on a book, newest first",
		Tags:        []string{"Feedback"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFeedback)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookRating",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/rating",
		Summary:     "Get rating",
		Description: "Returns the average feedback note for a book",
		Tags:        []string{"Feedback"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBookRating)
}

// === DTOs ===

// SubmitFeedbackRequest is the request body for submitting feedback.
type SubmitFeedbackRequest struct {
	Note    float64 `json:"note" validate:"gte=0,lte=5" doc:"Note from 0 to 5"`
	Comment string  `json:"comment,omitempty" validate:"omitempty,max=2000" doc:"Optional comment"`
}

// SubmitFeedbackInput wraps the submit feedback request for Huma.
type SubmitFeedbackInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          SubmitFeedbackRequest
}

// FeedbackIDResponse carries the created feedback ID.
type FeedbackIDResponse struct {
	ID string `json:"id" doc:"Feedback ID"`
}

// FeedbackIDOutput wraps the feedback ID response for Huma.
type FeedbackIDOutput struct {
	Body FeedbackIDResponse
}

// FeedbackResponse contains one feedback entry in API responses.
type FeedbackResponse struct {
	ID          string    `json:"id" doc:"Feedback ID"`
	BookID      string    `json:"book_id" doc:"Book ID"`
	AuthorID    string    `json:"author_id" doc:"Feedback author ID"`
	Note        float64   `json:"note" doc:"Note from 0 to 5"`
	Comment     string    `json:"comment,omitempty" doc:"Optional comment"`
	OwnFeedback bool      `json:"own_feedback" doc:"Whether the caller wrote this entry"`
	CreatedAt   time.Time `json:"created_at" doc:"Submission time"`
}

func toFeedbackResponse(f *domain.FeedbackView) FeedbackResponse {
	return FeedbackResponse{
		ID:          f.ID,
		BookID:      f.BookID,
		AuthorID:    f.AuthorID,
		Note:        f.Note,
		Comment:     f.Comment,
		OwnFeedback: f.OwnFeedback,
		CreatedAt:   f.CreatedAt,
	}
}

// ListFeedbackInput contains parameters for listing feedback on a book.
type ListFeedbackInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Page          int    `query:"page" doc:"Zero-based page number"`
	Size          int    `query:"size" doc:"Page size (default 20, max 100)"`
}

// FeedbackPageOutput wraps a page of feedback for Huma.
type FeedbackPageOutput struct {
	Body PageResponse[FeedbackResponse]
}

// GetBookRatingInput contains parameters for the rating endpoint.
type GetBookRatingInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// RatingResponse contains the derived rating for a book.
type RatingResponse struct {
	BookID string  `json:"book_id" doc:"Book ID"`
	Rating float64 `json:"rating" doc:"Average note rounded to one decimal, 0 when no feedback"`
}

// RatingOutput wraps the rating response for Huma.
type RatingOutput struct {
	Body RatingResponse
}

// === Handlers ===

func (s *Server) handleSubmitFeedback(ctx context.Context, input *SubmitFeedbackInput) (*FeedbackIDOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	feedbackID, err := s.services.Feedback.Submit(ctx, input.ID, userID, input.Body.Note, input.Body.Comment)
	if err != nil {
		return nil, err
	}

	return &FeedbackIDOutput{Body: FeedbackIDResponse{ID: feedbackID}}, nil
}

func (s *Server) handleListFeedback(ctx context.Context, input *ListFeedbackInput) (*FeedbackPageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Feedback.ListForBook(ctx, input.ID, userID, pageParams(input.Page, input.Size))
	if err != nil {
		return nil, err
	}

	return &FeedbackPageOutput{Body: toPageResponse(page, toFeedbackResponse)}, nil
}

func (s *Server) handleGetBookRating(ctx context.Context, input *GetBookRatingInput) (*RatingOutput, error) {
	if _, err := s.authenticateRequest(input.Authorization); err != nil {
		return nil, err
	}

	rating, err := s.services.Feedback.Rating(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &RatingOutput{Body: RatingResponse{BookID: input.ID, Rating: rating}}, nil
}
