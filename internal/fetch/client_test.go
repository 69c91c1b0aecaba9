package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davosmed/fb2sqlite/internal/common"
)

func TestDownload(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("gtin;description\n123;Absauggerät\n"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "downloads", "firstbase.csv")
	err := Download(context.Background(), srv.URL, dest, 10*time.Second)
	require.NoError(t, err)

	assert.Equal(t, "fb2sqlite/0.1", gotAgent)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Absauggerät")
}

func TestDownloadOverwritesPrevious(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "firstbase.csv")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	require.NoError(t, Download(context.Background(), srv.URL, dest, 10*time.Second))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "firstbase.csv")
	err := Download(context.Background(), srv.URL, dest, 10*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSourceRead)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadUnreachable(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "firstbase.csv")
	err := Download(context.Background(), "http://127.0.0.1:1/export.csv", dest, 2*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSourceRead)
}
