package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParams_Validate(t *testing.T) {
	tests := []struct {
		name     string
		params   PageParams
		wantPage int
		wantSize int
	}{
		{"defaults applied", PageParams{}, 0, 20},
		{"negative page clamped", PageParams{Page: -3, Size: 10}, 0, 10},
		{"oversized clamped", PageParams{Page: 1, Size: 500}, 1, 100},
		{"valid unchanged", PageParams{Page: 2, Size: 50}, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Validate()
			assert.Equal(t, tt.wantPage, tt.params.Page)
			assert.Equal(t, tt.wantSize, tt.params.Size)
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	p := PageParams{Page: 3, Size: 20}
	assert.Equal(t, 60, p.Offset())
}

func TestNewPage(t *testing.T) {
	params := PageParams{Page: 0, Size: 2}
	page := NewPage([]string{"a", "b"}, params, 5)

	assert.Equal(t, []string{"a", "b"}, page.Content)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 5, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
}

func TestNewPage_LastPage(t *testing.T) {
	params := PageParams{Page: 2, Size: 2}
	page := NewPage([]string{"e"}, params, 5)

	assert.False(t, page.First)
	assert.True(t, page.Last)
}

func TestNewPage_Empty(t *testing.T) {
	params := PageParams{Page: 0, Size: 20}
	page := NewPage[string](nil, params, 0)

	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Equal(t, 0, page.TotalPages)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}
