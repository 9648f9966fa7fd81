// Package security provides input validation for files and URLs read by beadwork.
package security

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrSizeLimit is returned by LimitedReader once its limit is used up.
var ErrSizeLimit = errors.New("size limit exceeded")

// ValidateImageURL checks that urlStr is an absolute HTTP(S) URL with a host.
func ValidateImageURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid URL protocol (only http:// and https:// allowed): %s", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	return nil
}

// LimitedReader wraps an io.Reader and fails, rather than truncating, when
// more than Remaining bytes are read. Decompressed catalog tables are read
// through it.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		// Only an exhausted limit with more data behind it is an error.
		var probe [1]byte
		if n, _ := l.R.Read(probe[:]); n == 0 {
			return 0, io.EOF
		}
		return 0, ErrSizeLimit
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
