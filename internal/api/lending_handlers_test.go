package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowBook(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Borrowable", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/borrow", bob)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[LoanIDResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Contains(t, envelope.Data.ID, "loan-")
}

func TestBorrowBook_OwnBook(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bookID := ts.createBook(t, alice, "Mine", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/borrow", alice)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "FORBIDDEN", envelope.Code)
}

func TestBorrowBook_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	bob := ts.bearer(t, "user-bob")

	resp := ts.api.Post("/api/v1/books/book-missing/borrow", bob)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBorrowBook_AlreadyOnLoan(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	carol := ts.bearer(t, "user-carol")
	bookID := ts.createBook(t, alice, "Popular", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/borrow", bob)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Post("/api/v1/books/"+bookID+"/borrow", carol)
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "CONFLICT", envelope.Code)
}

func TestReturnBook_WithoutLoan(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Never Borrowed", true)

	resp := ts.api.Patch("/api/v1/books/"+bookID+"/return", bob)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestApproveReturn_NotOwner(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Hand Back", true)

	resp := ts.api.Post("/api/v1/books/"+bookID+"/borrow", bob)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = ts.api.Patch("/api/v1/books/"+bookID+"/return", bob)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/books/"+bookID+"/return/approve", bob)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestLendingLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.bearer(t, "user-alice")
	bob := ts.bearer(t, "user-bob")
	bookID := ts.createBook(t, alice, "Round Trip", true)

	// Borrow.
	resp := ts.api.Post("/api/v1/books/"+bookID+"/borrow", bob)
	require.Equal(t, http.StatusCreated, resp.Code)

	// The loan shows up in Bob's borrowed list.
	resp = ts.api.Get("/api/v1/loans/borrowed", bob)
	require.Equal(t, http.StatusOK, resp.Code)

	var loans testEnvelope[PageResponse[LoanResponse]]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loans))
	require.Equal(t, 1, loans.Data.TotalElements)
	assert.Equal(t, bookID, loans.Data.Content[0].BookID)
	assert.Equal(t, "Round Trip", loans.Data.Content[0].Title)
	assert.False(t, loans.Data.Content[0].Returned)

	// Return.
	resp = ts.api.Patch("/api/v1/books/"+bookID+"/return", bob)
	require.Equal(t, http.StatusOK, resp.Code)

	// Pending approval appears in Alice's returned list.
	resp = ts.api.Get("/api/v1/loans/returned", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loans))
	require.Equal(t, 1, loans.Data.TotalElements)
	assert.True(t, loans.Data.Content[0].Returned)
	assert.False(t, loans.Data.Content[0].ReturnApproved)

	// Approve.
	resp = ts.api.Patch("/api/v1/books/"+bookID+"/return/approve", alice)
	require.Equal(t, http.StatusOK, resp.Code)

	// The book is free for the next borrower.
	carol := ts.bearer(t, "user-carol")
	resp = ts.api.Post("/api/v1/books/"+bookID+"/borrow", carol)
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestListBorrowedLoans_Unauthorized(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/loans/borrowed")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
