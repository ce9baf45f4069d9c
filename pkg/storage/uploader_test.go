package storage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet-portal-backend/pkg/apperrors"
)

func TestLocalUploaderPut(t *testing.T) {
	root := t.TempDir()
	u, err := NewLocalUploader(root, "https://portal.example/", 1024)
	require.NoError(t, err)

	obj, err := u.Put(context.Background(), "../../Report Q3.pdf", "", strings.NewReader("%PDF-1.4 hello"))
	require.NoError(t, err)

	assert.Equal(t, "Report Q3.pdf", obj.Name)
	assert.Equal(t, int64(14), obj.Size)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.True(t, strings.HasPrefix(obj.URL, "https://portal.example/uploads/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".pdf"))
	assert.Len(t, obj.Checksum, 64)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(obj.Key)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 hello", string(data))
}

func TestLocalUploaderKeepsDeclaredType(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "", 0)
	require.NoError(t, err)

	obj, err := u.Put(context.Background(), "blob", "image/png", bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}))
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.True(t, strings.HasPrefix(obj.URL, PublicPrefix))
}

func TestLocalUploaderRejectsOversize(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "", 4)
	require.NoError(t, err)

	_, err = u.Put(context.Background(), "big.txt", "text/plain", strings.NewReader("12345"))
	var invalid *apperrors.InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "file", invalid.Field)
}

func TestLocalUploaderHandler(t *testing.T) {
	u, err := NewLocalUploader(t.TempDir(), "", 0)
	require.NoError(t, err)
	obj, err := u.Put(context.Background(), "note.txt", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	u.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, obj.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", rec.Body.String())

	rec = httptest.NewRecorder()
	u.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PublicPrefix, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
