// Package fetch downloads source files over HTTP, caching them on disk
// so a run can be repeated against the same snapshot.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/davosmed/fb2sqlite/internal/common"
)

const userAgent = "fb2sqlite/0.1"

// DefaultTimeout bounds a single download. The GS1 export is large and
// the server is slow, so this is generous.
const DefaultTimeout = 300 * time.Second

// Download fetches url and writes the body to dest, replacing any
// previous copy. The write goes through a temp file so a failed
// download never clobbers an existing snapshot.
func Download(ctx context.Context, url, dest string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request for %s: %v", common.ErrSourceRead, url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: timeout}

	slog.Info("downloading", "url", url, "dest", dest)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", common.ErrSourceRead, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fetch %s: unexpected status %s", common.ErrSourceRead, url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: create download dir: %v", common.ErrSourceRead, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.partial")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", common.ErrSourceRead, err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: download %s: %v", common.ErrSourceRead, url, err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: store download: %v", common.ErrSourceRead, err)
	}

	slog.Info("download complete", "dest", dest, "bytes", written, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
