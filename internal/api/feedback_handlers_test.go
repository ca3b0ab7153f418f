package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Rated", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/feedback", map[string]any{
		"note":    4.0,
		"comment": "Enjoyed it.",
	}, bob)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[FeedbackIDResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Contains(t, envelope.Data.ID, "fb-")
}

func TestSubmitFeedback_OwnBook(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bookID := ts.createBook(t, alice, "Self Review", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/feedback", map[string]any{
		"note": 5.0,
	}, alice)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestSubmitFeedback_NoteOutOfRange(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Overrated", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/feedback", map[string]any{
		"note": 9.0,
	}, bob)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestListFeedback_OwnFlag(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	carol := ts.bearer(t, "user-carol")
	bookID := ts.createBook(t, alice, "Discussed", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/feedback", map[string]any{"note": 3.0}, bob)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = ts.api.Post("/api/v1/books/"+bookID+"/feedback", map[string]any{"note": 5.0}, carol)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+bookID+"/feedback", bob)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[PageResponse[FeedbackResponse]]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Data.TotalElements)

	ownByAuthor := make(map[string]bool)
	for _, f := range envelope.Data.Content {
		ownByAuthor[f.AuthorID] = f.OwnFeedback
	}
	assert.True(t, ownByAuthor["user-bob"])
	assert.False(t, ownByAuthor["user-carol"])
}

func TestGetBookRating(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	carol := ts.bearer(t, "user-carol")
	bookID := ts.createBook(t, alice, "Averaged", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/feedback", map[string]any{"note": 4.0}, bob)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = ts.api.Post("/api/v1/books/"+bookID+"/feedback", map[string]any{"note": 5.0}, carol)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+bookID+"/rating", bob)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[RatingResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, bookID, envelope.Data.BookID)
	assert.Equal(t, 4.5, envelope.Data.Rating)

	// The derived rating also shows on the book itself.
	resp = ts.api.Get("/api/v1/books/"+bookID, bob)
	require.Equal(t, http.StatusOK, resp.Code)

	var bookEnvelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &bookEnvelope))
	assert.Equal(t, 4.5, bookEnvelope.Data.Rating)
}
