package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// FetchError reports a failed catalog fetch. StatusCode is zero when the
// failure happened before an HTTP response (transport error, bad JSON).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("catalog: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches the product catalog from the remote product API.
// It performs no retries; callers decide when to re-fetch.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client for the given API base URL
// (e.g. https://fakestoreapi.com).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch retrieves the full catalog via GET {base}/products.
// Any failure is returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context) ([]model.Product, error) {
	url := c.baseURL + "/products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return products, nil
}
