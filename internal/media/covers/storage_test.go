package covers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookcircleapp/bookcircle-server/internal/errors"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewStorage_EmptyBasePath(t *testing.T) {
	_, err := NewStorage("")
	assert.Error(t, err)
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStorage(t)

	data := []byte("fake jpeg bytes")
	ref, err := s.Save(data, "user-owner", "cover.JPG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "users/user-owner/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"), "extension should be lowercased: %s", ref)

	got, err := s.Get(ref)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	assert.True(t, s.Exists(ref))
}

func TestSave_UniqueReferences(t *testing.T) {
	s := newTestStorage(t)

	ref1, err := s.Save([]byte("one"), "user-owner", "cover.png")
	require.NoError(t, err)
	ref2, err := s.Save([]byte("two"), "user-owner", "cover.png")
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
}

func TestSave_Validation(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Save(nil, "user-owner", "cover.jpg")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = s.Save([]byte("data"), "", "cover.jpg")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSave_NoExtension(t *testing.T) {
	s := newTestStorage(t)

	ref, err := s.Save([]byte("data"), "user-owner", "coverfile")
	require.NoError(t, err)
	assert.NotContains(t, ref[strings.LastIndex(ref, "/"):], ".")

	got, err := s.Get(ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Get("users/user-owner/missing.jpg")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestGet_RejectsTraversal(t *testing.T) {
	s := newTestStorage(t)

	tests := []string{
		"../outside.jpg",
		"users/../../etc/passwd",
		"/etc/passwd",
		"not-users/file.jpg",
	}

	for _, ref := range tests {
		t.Run(ref, func(t *testing.T) {
			_, err := s.Get(ref)
			assert.True(t, errors.Is(err, errors.ErrValidation), "ref %q should be rejected", ref)
			assert.False(t, s.Exists(ref))
		})
	}
}
