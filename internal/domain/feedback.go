package domain

import "math"

// Feedback is a rated comment left on a book by a member.
// The submitter must not be the book's owner; whether they ever borrowed
// the book is deliberately not checked.
type Feedback struct {
	Audit
	BookID   string  `json:"book_id"`
	AuthorID string  `json:"author_id"`
	Note     float64 `json:"note"` // 0 to 5.
	Comment  string  `json:"comment,omitempty"`
}

// NoteInRange reports whether the note is within the accepted 0-5 range.
func (f *Feedback) NoteInRange() bool {
	return f.Note >= 0 && f.Note <= 5
}

// FeedbackView is feedback as seen by a particular viewer. OwnFeedback
// lets clients show edit affordances without a separate endpoint.
type FeedbackView struct {
	Feedback
	OwnFeedback bool `json:"own_feedback"`
}

// RoundRating rounds a mean note to one decimal place, matching how
// book ratings are displayed. Half values round away from zero.
func RoundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}
