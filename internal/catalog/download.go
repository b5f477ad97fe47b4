package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

// Credentials is a username/password pair for HTTP Basic auth against
// upstream (scihub or inthub2, selected per §4.3 step 4).
type Credentials struct {
	Username string
	Password string
}

// Download streams the product archive from downloadURL. The caller is
// responsible for closing the returned ReadCloser.
func (c *Client) Download(ctx context.Context, downloadURL string, creds Credentials) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build download request: %w", err)
	}
	req.SetBasicAuth(creds.Username, creds.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("download request: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, 0, errExpired(downloadURL)
	case resp.StatusCode >= 400:
		resp.Body.Close()
		return nil, 0, fmt.Errorf("download request: upstream returned %s", resp.Status)
	}

	return resp.Body, resp.ContentLength, nil
}

// Checksum fetches the authoritative MD5 from the product metadata endpoint
// (§6, "upstream product metadata endpoint"). checksumURL is derived by the
// caller from the granule's id.
func (c *Client) Checksum(ctx context.Context, checksumURL string, creds Credentials) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checksumURL, nil)
	if err != nil {
		return "", fmt.Errorf("build checksum request: %w", err)
	}
	req.SetBasicAuth(creds.Username, creds.Password)

	var checksum string
	err = c.doRetried(ctx, func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("checksum request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("checksum request: upstream returned %s", resp.Status))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
		if err != nil {
			return fmt.Errorf("read checksum response: %w", err)
		}
		checksum = string(body)
		return nil
	})
	if err != nil {
		return "", err
	}
	return checksum, nil
}

// ExpiredError marks a product as no longer retrievable upstream (404/410).
type ExpiredError struct {
	URL string
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("product expired upstream: %s", e.URL)
}

func errExpired(url string) error {
	return &ExpiredError{URL: url}
}
