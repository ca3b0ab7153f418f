package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":       "The Left Hand of Darkness",
		"author_name": "Ursula K. Le Guin",
		"isbn":        "9780441478125",
		"synopsis":    "An envoy on a planet of ambisexual humans.",
		"shareable":   true,
	}, alice)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, 1, envelope.V)
	assert.Contains(t, envelope.Data.ID, "book-")
	assert.Equal(t, "The Left Hand of Darkness", envelope.Data.Title)
	assert.Equal(t, "user-alice", envelope.Data.OwnerID)
	assert.True(t, envelope.Data.Shareable)
	assert.False(t, envelope.Data.Archived)
	assert.False(t, envelope.Data.HasCover)
	assert.Equal(t, 0.0, envelope.Data.Rating)
}

func TestCreateBook_Unauthorized(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":       "No Token",
		"author_name": "Nobody",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/books", map[string]any{
		"title":       "Bad Token",
		"author_name": "Nobody",
	}, "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateBook_MissingTitle(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"author_name": "Ursula K. Le Guin",
	}, alice)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestGetBook(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bookID := ts.createBook(t, alice, "Dune", true)

	resp := ts.api.Get("/api/v1/books/"+bookID, alice)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, bookID, envelope.Data.ID)
	assert.Equal(t, "Dune", envelope.Data.Title)
}

func TestGetBook_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")

	resp := ts.api.Get("/api/v1/books/book-missing", alice)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestListBooks_Visibility(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")

	ts.createBook(t, alice, "Shared by Alice", true)
	ts.createBook(t, alice, "Private by Alice", false)
	ts.createBook(t, bob, "Private by Bob", false)

	// Bob sees Alice's shared book plus his own private one.
	resp := ts.api.Get("/api/v1/books", bob)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[PageResponse[BookResponse]]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Data.TotalElements)

	titles := make(map[string]bool)
	for _, b := range envelope.Data.Content {
		titles[b.Title] = true
	}
	assert.True(t, titles["Shared by Alice"])
	assert.True(t, titles["Private by Bob"])
	assert.False(t, titles["Private by Alice"])
}

func TestListOwnedBooks_Pagination(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")

	for _, title := range []string{"One", "Two", "Three", "Four", "Five"} {
		ts.createBook(t, alice, title, false)
	}

	resp := ts.api.Get("/api/v1/books/owned?page=0&size=2", alice)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[PageResponse[BookResponse]]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Len(t, envelope.Data.Content, 2)
	assert.Equal(t, 5, envelope.Data.TotalElements)
	assert.Equal(t, 3, envelope.Data.TotalPages)
	assert.True(t, envelope.Data.First)
	assert.False(t, envelope.Data.Last)

	resp = ts.api.Get("/api/v1/books/owned?page=2&size=2", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Content, 1)
	assert.True(t, envelope.Data.Last)
}

func TestToggleShareable(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bookID := ts.createBook(t, alice, "Flip Me", true)

	resp := ts.api.Patch("/api/v1/books/"+bookID+"/shareable", alice)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BookIDResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, bookID, envelope.Data.ID)

	resp = ts.api.Get("/api/v1/books/"+bookID, alice)
	require.Equal(t, http.StatusOK, resp.Code)

	var bookEnvelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &bookEnvelope))
	assert.False(t, bookEnvelope.Data.Shareable)
}

func TestToggleShareable_NotOwner(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Not Yours", true)

	resp := ts.api.Patch("/api/v1/books/"+bookID+"/shareable", bob)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "FORBIDDEN", envelope.Code)
}

func TestToggleArchived(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Archive Me", true)

	resp := ts.api.Patch("/api/v1/books/"+bookID+"/archived", alice)
	require.Equal(t, http.StatusOK, resp.Code)

	// Archived books drop out of the shared catalog for others.
	listResp := ts.api.Get("/api/v1/books", bob)
	require.Equal(t, http.StatusOK, listResp.Code)

	var envelope testEnvelope[PageResponse[BookResponse]]
	require.NoError(t, json.Unmarshal(listResp.Body.Bytes(), &envelope))
	assert.Equal(t, 0, envelope.Data.TotalElements)
}
