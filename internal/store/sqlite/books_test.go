package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bookcircleapp/bookcircle-server/internal/domain"
	"github.com/bookcircleapp/bookcircle-server/internal/errors"
	"github.com/bookcircleapp/bookcircle-server/internal/id"
	"github.com/bookcircleapp/bookcircle-server/internal/store"
)

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := makeTestBook("The Hobbit", "user-owner")
	book.ISBN = "978-0-261-10295-4"
	book.Synopsis = "There and back again."
	book.CoverRef = "covers/users/user-owner/abc.jpg"
	book.Archived = true

	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}

	if got.Title != "The Hobbit" {
		t.Errorf("title = %q", got.Title)
	}
	if got.ISBN != book.ISBN {
		t.Errorf("isbn = %q", got.ISBN)
	}
	if got.CoverRef != book.CoverRef {
		t.Errorf("cover ref = %q", got.CoverRef)
	}
	if !got.Archived || !got.Shareable {
		t.Errorf("flags = archived:%v shareable:%v", got.Archived, got.Shareable)
	}
	if got.OwnerID != "user-owner" {
		t.Errorf("owner = %q", got.OwnerID)
	}
	if got.Rating != 0.0 {
		t.Errorf("rating without feedback = %v, want 0.0", got.Rating)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), "book-missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := insertTestBook(t, s, "Original Title", "user-owner")

	book.Title = "Updated Title"
	book.ToggleShareable()
	if err := s.UpdateBook(ctx, book); err != nil {
		t.Fatalf("update book: %v", err)
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Shareable {
		t.Error("shareable should be false after toggle")
	}
}

func TestUpdateBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	book := makeTestBook("Ghost", "user-owner")
	err := s.UpdateBook(context.Background(), book)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetBook_RatingFromFeedback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := insertTestBook(t, s, "Rated Book", "user-owner")

	for i, note := range []float64{3, 4, 5} {
		fb := makeTestFeedback(book.ID, fmt.Sprintf("user-%d", i), note)
		if err := s.CreateFeedback(ctx, fb); err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Rating != 4.0 {
		t.Errorf("rating = %v, want 4.0", got.Rating)
	}
}

func TestListDisplayableBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Visible to everyone: shareable, not archived.
	shared := insertTestBook(t, s, "Shared", "user-other")

	// Hidden from non-owners: not shareable.
	private := makeTestBook("Private", "user-other")
	private.Shareable = false
	if err := s.CreateBook(ctx, private); err != nil {
		t.Fatalf("create book: %v", err)
	}

	// Hidden from non-owners: archived.
	archived := makeTestBook("Archived", "user-other")
	archived.Archived = true
	if err := s.CreateBook(ctx, archived); err != nil {
		t.Fatalf("create book: %v", err)
	}

	// Owned by the viewer, not shareable: still visible to them.
	mine := makeTestBook("Mine", "user-viewer")
	mine.Shareable = false
	if err := s.CreateBook(ctx, mine); err != nil {
		t.Fatalf("create book: %v", err)
	}

	page, err := s.ListDisplayableBooks(ctx, "user-viewer", store.PageParams{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("list displayable: %v", err)
	}

	if page.TotalElements != 2 {
		t.Fatalf("total = %d, want 2", page.TotalElements)
	}

	titles := map[string]bool{}
	for _, b := range page.Content {
		titles[b.Title] = true
	}
	if !titles["Shared"] || !titles["Mine"] {
		t.Errorf("unexpected titles: %v", titles)
	}

	// The owner sees all their own books regardless of flags.
	ownerPage, err := s.ListDisplayableBooks(ctx, "user-other", store.PageParams{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("list displayable for owner: %v", err)
	}
	if ownerPage.TotalElements != 3 {
		t.Errorf("owner total = %d, want 3", ownerPage.TotalElements)
	}
	_ = shared
}

func TestListDisplayableBooks_NewestFirstAndPaged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		book := &domain.Book{
			Audit: domain.Audit{
				ID:        id.MustGenerate("book"),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
				UpdatedAt: base.Add(time.Duration(i) * time.Minute),
			},
			Title:      fmt.Sprintf("Book %d", i),
			AuthorName: "Author",
			Shareable:  true,
			OwnerID:    "user-owner",
		}
		if err := s.CreateBook(ctx, book); err != nil {
			t.Fatalf("create book: %v", err)
		}
	}

	page, err := s.ListDisplayableBooks(ctx, "user-viewer", store.PageParams{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("list displayable: %v", err)
	}

	if page.TotalElements != 5 || page.TotalPages != 3 {
		t.Fatalf("totals = %d/%d, want 5/3", page.TotalElements, page.TotalPages)
	}
	if len(page.Content) != 2 {
		t.Fatalf("page size = %d", len(page.Content))
	}
	// Newest first.
	if page.Content[0].Title != "Book 4" || page.Content[1].Title != "Book 3" {
		t.Errorf("order = %q, %q", page.Content[0].Title, page.Content[1].Title)
	}
	if !page.First || page.Last {
		t.Errorf("first/last = %v/%v", page.First, page.Last)
	}

	last, err := s.ListDisplayableBooks(ctx, "user-viewer", store.PageParams{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("list displayable last page: %v", err)
	}
	if len(last.Content) != 1 || !last.Last {
		t.Errorf("last page content = %d, last = %v", len(last.Content), last.Last)
	}
}

func TestListBooksByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestBook(t, s, "Owned Shared", "user-owner")

	hidden := makeTestBook("Owned Hidden", "user-owner")
	hidden.Shareable = false
	hidden.Archived = true
	if err := s.CreateBook(ctx, hidden); err != nil {
		t.Fatalf("create book: %v", err)
	}

	insertTestBook(t, s, "Someone Elses", "user-other")

	page, err := s.ListBooksByOwner(ctx, "user-owner", store.PageParams{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}

	if page.TotalElements != 2 {
		t.Fatalf("total = %d, want 2", page.TotalElements)
	}
	for _, b := range page.Content {
		if b.OwnerID != "user-owner" {
			t.Errorf("unexpected owner %q", b.OwnerID)
		}
	}
}
