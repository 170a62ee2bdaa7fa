package storage

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid GIF and PNG headers, enough for content sniffing.
var (
	gifBytes = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
)

func newMemStore() *Store {
	s := New(afero.NewMemMapFs(), "storage")
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestSaveGeneratesUniqueReferences(t *testing.T) {
	s := newMemStore()

	first, err := s.Save("diplomas", File{Name: "my diploma.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)
	second, err := s.Save("diplomas", File{Name: "my diploma.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "/storage/diplomas/1700000000_"))
	assert.True(t, strings.HasSuffix(first, "_my_diploma.pdf"))
	assert.NotEqual(t, first, second)
	assert.True(t, s.Exists(first))
	assert.True(t, s.Exists(second))
}

func TestSaveStripsDirectoriesFromOriginalName(t *testing.T) {
	s := newMemStore()

	ref, err := s.Save("annonces", File{Name: "../../etc/passwd", Data: []byte("x")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/storage/annonces/"))
	assert.True(t, strings.HasSuffix(ref, "_passwd"))
}

func TestSaveRejectsEmptyFile(t *testing.T) {
	_, err := newMemStore().Save("annonces", File{Name: "a.png"})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newMemStore()
	ref, err := s.Save("annonces", File{Name: "a.gif", Data: gifBytes})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ref))
	assert.False(t, s.Exists(ref))
	assert.NoError(t, s.Delete(ref))
}

func TestDeleteRejectsForeignReference(t *testing.T) {
	s := newMemStore()
	assert.Error(t, s.Delete("/elsewhere/a.gif"))
	assert.Error(t, s.Delete("/storage/../secret"))
}

func TestCheckImage(t *testing.T) {
	assert.NoError(t, CheckImage(File{Name: "a.gif", Data: gifBytes}, 1024))
	assert.NoError(t, CheckImage(File{Name: "a.png", Data: pngBytes}, 1024))
	assert.ErrorIs(t, CheckImage(File{Name: "a.txt", Data: []byte("hello world")}, 1024), ErrUnsupportedType)
	assert.ErrorIs(t, CheckImage(File{Name: "a.gif", Data: gifBytes}, 4), ErrTooLarge)
	assert.ErrorIs(t, CheckImage(File{Name: "a.gif"}, 4), ErrEmptyFile)
}

func TestHandlerServesStoredFiles(t *testing.T) {
	s := newMemStore()
	ref, err := s.Save("annonces", File{Name: "a.gif", Data: gifBytes})
	require.NoError(t, err)

	srv := http.StripPrefix(s.URLPrefix(), s.Handler())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ref, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gifBytes, rec.Body.Bytes())
}
