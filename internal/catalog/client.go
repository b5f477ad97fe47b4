// Package catalog wraps the CDSE OData catalog API and the companion
// download/metadata endpoints, using an explicit constructor and
// context-aware methods over plain net/http.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to the CDSE catalog, download, and metadata endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a catalog Client rooted at baseURL (the OData
// service root, e.g. https://catalogue.dataspace.copernicus.eu/odata/v1).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Product is one entry in a catalog search page.
type Product struct {
	ID            string    `json:"Id"`
	Name          string    `json:"Name"`
	ContentLength int64     `json:"ContentLength"`
	Checksum      string    `json:"Checksum"`
	BeginPosition time.Time `json:"ContentDate.Start"`
	EndPosition   time.Time `json:"ContentDate.End"`
	IngestionDate time.Time `json:"PublicationDate"`
	TileID        string    `json:"TileId"`
	DownloadURL   string    `json:"DownloadURL"`
}

// SearchPage is one page of a catalog query, mirroring the
// `{value: [...], "odata.count": N}` envelope of §6.
type SearchPage struct {
	Value      []Product `json:"value"`
	TotalCount int       `json:"odata.count"`
}

// SearchParams parametrizes one catalog page request (§4.2.1 step 2-3).
type SearchParams struct {
	Date     time.Time // the UTC day to search, time-of-day is ignored
	Platform string
	Skip     int
	Top      int
}

// Search retrieves one page of products for the given date/platform window,
// retried with exponential backoff on transient failures (base 2s, 7
// attempts) per §4.2.3. A 4xx response is fatal and is not retried.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchPage, error) {
	dayStart := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	filter := fmt.Sprintf(
		"ContentDate/Start ge %s and ContentDate/Start lt %s and Collection/Name eq 'SENTINEL-2' and Attributes/OData.CSC.StringAttribute/any(att:att/Name eq 'platformSerialIdentifier' and att/OData.CSC.StringAttribute/Value eq '%s')",
		dayStart.Format(time.RFC3339), dayEnd.Format(time.RFC3339), p.Platform,
	)

	query := url.Values{}
	query.Set("$filter", filter)
	query.Set("$skip", fmt.Sprintf("%d", p.Skip))
	query.Set("$top", fmt.Sprintf("%d", p.Top))
	query.Set("$count", "true")

	var page SearchPage
	reqURL := c.baseURL + "/Products?" + query.Encode()

	err := c.doRetried(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build search request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("search request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("search request: upstream returned %s", resp.Status))
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("search request: upstream returned %s", resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			return backoff.Permanent(fmt.Errorf("decode search response: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// retryPolicy is the §4.2.3 backoff contract: base 2s, capped at 7 attempts.
func retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, 6), ctx)
}

func (c *Client) doRetried(ctx context.Context, op func() error) error {
	return backoff.Retry(op, retryPolicy(ctx))
}
