package api

import (
	"encoding/json/v2"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/bookcircleapp/bookcircle-server/internal/auth"
	"github.com/bookcircleapp/bookcircle-server/internal/guard"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
	"github.com/bookcircleapp/bookcircle-server/internal/service"
	"github.com/bookcircleapp/bookcircle-server/internal/store/sqlite"
)

// testKeyHex is a fixed symmetric key for tests.
const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	coverStorage, err := covers.NewStorage(filepath.Join(dir, "covers"))
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(testKeyHex, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	g := guard.New(st)

	services := &Services{
		Catalog:  service.NewCatalogService(st, g, coverStorage, logger),
		Lending:  service.NewLendingService(st, g, logger),
		Feedback: service.NewFeedbackService(st, g, logger),
	}

	s := NewServer(services, st, coverStorage, tokens, nil, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		tokens: tokens,
	}
}

// bearer returns an Authorization header line for the given user.
func (ts *testServer) bearer(t *testing.T, userID string) string {
	t.Helper()

	token, err := ts.tokens.GenerateToken(userID)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

// createBook creates a book through the API and returns its ID.
func (ts *testServer) createBook(t *testing.T, ownerHeader, title string, shareable bool) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":       title,
		"author_name": "Test Author",
		"shareable":   shareable,
	}, ownerHeader)
	require.Equal(t, 201, resp.Code, "create book failed: %s", resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ID)
	return envelope.Data.ID
}
