// Package domain contains the core business entities and domain logic for the BookCircle catalog.
package domain

// Book represents a physical book listed in the shared catalog.
type Book struct {
	Audit
	Title      string  `json:"title"`
	AuthorName string  `json:"author_name"`
	ISBN       string  `json:"isbn,omitempty"`
	Synopsis   string  `json:"synopsis,omitempty"`
	CoverRef   string  `json:"cover_ref,omitempty"` // Opaque reference into cover storage, empty when no cover uploaded.
	Archived   bool    `json:"archived"`
	Shareable  bool    `json:"shareable"`
	OwnerID    string  `json:"owner_id"`
	Rating     float64 `json:"rating"` // Derived from feedback on read, never stored.
}

// IsOwnedBy reports whether the book is owned by the given user.
func (b *Book) IsOwnedBy(userID string) bool {
	return b.OwnerID == userID
}

// IsBorrowable reports whether the book can currently be borrowed.
// Archived books and books withdrawn from sharing are off the table.
func (b *Book) IsBorrowable() bool {
	return !b.Archived && b.Shareable
}

// ToggleShareable flips the shareable flag.
func (b *Book) ToggleShareable() {
	b.Shareable = !b.Shareable
	b.Touch()
}

// ToggleArchived flips the archived flag.
func (b *Book) ToggleArchived() {
	b.Archived = !b.Archived
	b.Touch()
}
