package domain

// LoanRecord tracks one borrow of a book by a member.
//
// Lifecycle: created with Returned=false (the active loan), marked
// Returned=true when the borrower hands the book back, and
// ReturnApproved=true once the owner confirms. Approval is terminal;
// the book is then eligible for a new loan.
//
// Invariants:
//   - at most one record per book with Returned=false (enforced by the store)
//   - BorrowerID never equals the book's OwnerID
//   - ReturnApproved implies Returned
type LoanRecord struct {
	Audit
	BookID         string `json:"book_id"`
	BorrowerID     string `json:"borrower_id"`
	Returned       bool   `json:"returned"`
	ReturnApproved bool   `json:"return_approved"`
}

// IsActive reports whether this loan is outstanding.
func (l *LoanRecord) IsActive() bool {
	return !l.Returned
}

// MarkReturned records that the borrower handed the book back.
func (l *LoanRecord) MarkReturned() {
	l.Returned = true
	l.Touch()
}

// ApproveReturn records the owner's confirmation of the return.
func (l *LoanRecord) ApproveReturn() {
	l.ReturnApproved = true
	l.Touch()
}

// LoanWithBook is a loan joined with the catalog fields of its book,
// used by the borrowed/returned listings so clients don't need a
// second round-trip per row.
type LoanWithBook struct {
	LoanRecord
	Title      string  `json:"title"`
	AuthorName string  `json:"author_name"`
	ISBN       string  `json:"isbn,omitempty"`
	Rating     float64 `json:"rating"`
}
