// Package fetchutil wraps resty with the retry and error taxonomy the
// scrapers share: rate limits surface immediately, client errors are
// permanent, everything else gets a few backed-off attempts.
package fetchutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const maxAttempts = 3

// RateLimitError reports an http 429. No retries are made, the caller
// decides how long to stand down.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// PermanentError reports a status that retrying cannot fix.
type PermanentError struct {
	StatusCode int
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent http failure: status %d", e.StatusCode)
}

// TransientError reports that every retry attempt failed.
type TransientError struct {
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

type Client struct {
	http *resty.Client

	// BackoffUnit scales the sleep between attempts, 2^attempt units.
	// Defaults to one second.
	BackoffUnit time.Duration
}

func NewClient(http *resty.Client) *Client {
	return &Client{http: http, BackoffUnit: time.Second}
}

// Fetch issues the request and returns the response body. Form values
// are sent as a form body for non-GET methods and ignored otherwise.
func (c *Client) Fetch(ctx context.Context, method, url string, form map[string]string) (string, error) {
	unit := c.BackoffUnit
	if unit <= 0 {
		unit = time.Second
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		req := c.http.R().SetContext(ctx)
		if method != http.MethodGet && len(form) > 0 {
			req.SetFormData(form)
		}
		res, err := req.Execute(method, url)
		if err != nil {
			lastErr = err
		} else {
			switch {
			case res.StatusCode() == http.StatusTooManyRequests:
				return "", &RateLimitError{RetryAfter: retryAfter(res)}
			case res.StatusCode() == http.StatusNotFound,
				res.StatusCode() == http.StatusUnauthorized,
				res.StatusCode() == http.StatusForbidden:
				return "", &PermanentError{StatusCode: res.StatusCode()}
			case res.IsError():
				lastErr = fmt.Errorf("status %d", res.StatusCode())
			default:
				return res.String(), nil
			}
		}

		if attempt < maxAttempts-1 {
			sleep := time.Duration(1<<uint(attempt)) * unit
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(sleep):
			}
		}
	}
	return "", &TransientError{Attempts: maxAttempts, Err: lastErr}
}

func retryAfter(res *resty.Response) time.Duration {
	raw := res.Header().Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// IsRateLimited reports whether err is (or wraps) a RateLimitError.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsPermanent reports whether err is (or wraps) a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
