package store

// PageParams contains page-number pagination request parameters.
type PageParams struct {
	Page int // 0-based page number
	Size int // items per page (defaults to 20 with a maximum of 100)
}

// DefaultPageParams returns sensible defaults.
func DefaultPageParams() PageParams {
	return PageParams{
		Page: 0,
		Size: 20,
	}
}

// Validate checks and corrects pagination parameters.
func (p *PageParams) Validate() {
	if p.Page < 0 {
		p.Page = 0
	}

	if p.Size <= 0 {
		p.Size = 20
	}

	if p.Size > 100 {
		p.Size = 100
	}
}

// Offset returns the row offset for this page.
func (p PageParams) Offset() int {
	return p.Page * p.Size
}

// Page contains one page of data plus paging metadata. Counts come from a
// COUNT query over the same predicate as the content query, so totals stay
// correct for server-side filters.
type Page[T any] struct {
	Content       []T  `json:"content"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	TotalElements int  `json:"total_elements"`
	TotalPages    int  `json:"total_pages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// NewPage assembles a Page from content and the total element count.
func NewPage[T any](content []T, params PageParams, total int) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if params.Size > 0 {
		totalPages = (total + params.Size - 1) / params.Size
	}

	return &Page[T]{
		Content:       content,
		Number:        params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         params.Page == 0,
		Last:          params.Page >= totalPages-1,
	}
}
