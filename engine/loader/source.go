package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ErrUnsupportedSource is returned for references whose scheme no source backend handles.
var ErrUnsupportedSource = errors.New("unsupported image source")

// sourceBackend fetches the encoded bytes behind an image reference.
type sourceBackend interface {
	// Fetch reads the whole payload for ref.
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// fileSource reads local paths. Relative paths resolve against baseDir and "~" expands to the
// user's home directory.
type fileSource struct {
	baseDir  string
	maxBytes int64
}

func (s *fileSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	path := strings.TrimPrefix(ref, "file://")
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(expanded) && s.baseDir != "" {
		expanded = filepath.Join(s.baseDir, expanded)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f, s.maxBytes)
}

// httpSource downloads http and https references.
type httpSource struct {
	client   *http.Client
	maxBytes int64
}

func (s *httpSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", ref, resp.Status)
	}
	return readLimited(resp.Body, s.maxBytes)
}

// dataSource decodes inline data: URIs.
type dataSource struct{}

func (dataSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if strings.HasSuffix(header, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(unescaped), nil
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxBytes)
	}
	return data, nil
}
