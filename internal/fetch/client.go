// Package fetch wraps the outbound HTTP client used to pull article pages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
)

const defaultMaxBodyBytes = 4 << 20

type Client struct {
	hc        *http.Client
	userAgent string
	maxBody   int64
}

func NewClient(timeout time.Duration, userAgent string, maxBody int64) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBody:   maxBody,
	}
}

// Get fetches url and returns the response body. Transport errors and
// non-2xx statuses both surface as ErrFetchFailed so callers can branch on
// fetch failure as one kind.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", appErr.ErrFetchFailed, url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", appErr.ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: get %s: status %d", appErr.ErrFetchFailed, url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", appErr.ErrFetchFailed, url, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: get %s: body larger than %d bytes", appErr.ErrFetchFailed, url, c.maxBody)
	}
	return body, nil
}
