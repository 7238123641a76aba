package ics

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	appLog "timeduration/internal/log"
)

// Source names one calendar payload: a local file path or an http(s) URL.
type Source struct {
	// ID is a label used in logs and occurrences.
	ID string
	// Location is a file path or URL.
	Location string
}

// IsRemote reports whether the source is fetched over HTTP.
func (s Source) IsRemote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// Loader reads ICS payloads from disk or over HTTP.
type Loader struct {
	client *http.Client
}

// NewLoader creates a Loader whose HTTP requests give up after timeout.
// A non-positive timeout defaults to 15 seconds.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Load returns the raw payload of src.
func (l *Loader) Load(ctx context.Context, src Source) ([]byte, error) {
	if src.Location == "" {
		return nil, errors.New("source location is empty")
	}
	if !src.IsRemote() {
		body, err := os.ReadFile(src.Location)
		if err != nil {
			return nil, errors.Wrapf(err, "read ics %s", src.ID)
		}
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build ics request")
	}

	appLog.Info("ics fetch start", "id", src.ID, "url", redactURL(src.Location))

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch ics %s", src.ID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch ics %s: %s", src.ID, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read ics %s", src.ID)
	}

	appLog.Info("ics fetch success", "id", src.ID, "url", redactURL(src.Location), "bytes", len(body))
	return body, nil
}

// redactURL hides path and query of a URL for logging, since calendar
// URLs often embed access tokens.
//
//	https://example.com/path/to/private.ics?token=abcd
//	-> https://example.com/...(redacted)
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}
	host := u[i+3:]
	if j := strings.IndexByte(host, '/'); j >= 0 {
		host = host[:j]
	}
	return u[:i+3] + host + redactedSuffix
}
