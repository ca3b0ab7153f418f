package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/guard"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
	"github.com/bookcircleapp/bookcircle-server/internal/store/sqlite"
)

// testEnv wires the services against a real sqlite store in a temp dir.
type testEnv struct {
	store    store.Store
	catalog  *CatalogService
	lending  *LendingService
	feedback *FeedbackService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	coverStore, err := covers.NewStorage(dir)
	require.NoError(t, err)

	g := guard.New(st)

	return &testEnv{
		store:    st,
		catalog:  NewCatalogService(st, g, coverStore, logger),
		lending:  NewLendingService(st, g, logger),
		feedback: NewFeedbackService(st, g, logger),
	}
}

// createBook creates a shareable book through the catalog service.
func (env *testEnv) createBook(t *testing.T, title, ownerID string) *domain.Book {
	t.Helper()

	book, err := env.catalog.Create(context.Background(), BookSpec{
		Title:      title,
		AuthorName: "Test Author",
		ISBN:       "9780000000000",
		Synopsis:   "A book used in tests.",
		Shareable:  true,
	}, ownerID)
	require.NoError(t, err)
	return book
}
