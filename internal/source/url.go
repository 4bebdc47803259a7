package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/shale-build/shale/internal/paths"
	"github.com/shale-build/shale/internal/recipe"
)

// Materializes a URL source into the cache and returns the cached file path.
//
// Candidate URLs are tried in declaration order; the first download that
// validates against the expected checksum wins and the last failure is
// reported otherwise. Cache hits are revalidated before being trusted, so
// a corrupted cache entry is re-downloaded rather than used.
func urlSrc(ctx context.Context, src *recipe.URLSource, cacheDir string) (string, error) {
	if src.Checksum == "" {
		return "", fmt.Errorf("%w: %v", ErrNoChecksum, src.URLs)
	}
	if err := src.Checksum.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	var lastErr error
	for _, candidate := range src.URLs {
		cached, err := fetchURL(ctx, candidate, src.Checksum, cacheDir)
		if err != nil {
			slog.Warn("download failed", "url", candidate, "error", err)
			lastErr = err
			continue
		}
		return cached, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no candidate urls", ErrDownload)
	}
	return "", lastErr
}

// Downloads a single URL into the cache, validating the checksum.
func fetchURL(ctx context.Context, rawURL string, checksum digest.Digest, cacheDir string) (string, error) {
	fileName, err := cacheFileName(rawURL, checksum)
	if err != nil {
		return "", err
	}
	cached := filepath.Join(cacheDir, fileName)

	if _, err := os.Stat(cached); err == nil {
		if err := validateChecksum(cached, checksum); err == nil {
			slog.Info("using cached source", "file", cached)
			return cached, nil
		}
		slog.Warn("cached source failed checksum validation, re-downloading", "file", cached)
	}

	slog.Info("fetching source from url", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s: %s", ErrDownload, rawURL, resp.Status)
	}

	if err := writeVerified(cached, resp.Body, checksum); err != nil {
		return "", err
	}
	return cached, nil
}

// Streams the body to the cache file while verifying the digest.
//
// The file is written to a temporary sibling and renamed into place only
// after verification, so the cache never holds an unvalidated entry under
// its final name.
func writeVerified(dest string, body io.Reader, checksum digest.Digest) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	verifier := checksum.Verifier()
	if _, err := io.Copy(io.MultiWriter(tmp, verifier), body); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if !verifier.Verified() {
		return fmt.Errorf("%w: %s", ErrValidationFailed, dest)
	}

	if err := os.Chmod(tmp.Name(), paths.DefaultFileMode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Re-verifies an existing cache file against the expected digest.
func validateChecksum(file string, checksum digest.Digest) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	verifier := checksum.Verifier()
	if _, err := io.Copy(verifier, f); err != nil {
		return err
	}
	if !verifier.Verified() {
		return fmt.Errorf("%w: %s", ErrValidationFailed, file)
	}
	return nil
}

// Derives the cache file name for a URL: the first hex characters of the
// expected digest, then the file name from the URL path. The digest prefix
// keeps same-named files from different releases apart.
func cacheFileName(rawURL string, checksum digest.Digest) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("%w: failed to get filename for `%s`", ErrSource, rawURL)
	}

	encoded := checksum.Encoded()
	if len(encoded) > 8 {
		encoded = encoded[:8]
	}
	return encoded + "_" + base, nil
}
