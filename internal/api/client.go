// Package api implements the HTTP client for the paginated MyShop API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one record exactly as the API returned it, before any
// shaping toward the warehouse schema.
type RawRecord = map[string]interface{}

// ResourcePage is one decoded page of an API response.
type ResourcePage struct {
	Records     []RawRecord
	CurrentPage int
	TotalPages  int
}

// FetchError wraps any failure to retrieve one page: transport errors,
// non-2xx status codes and undecodable bodies.
type FetchError struct {
	Endpoint string
	Page     int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s page %d: %v", e.Endpoint, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type pageEnvelope struct {
	Data       []map[string]interface{} `json:"data"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
	} `json:"pagination"`
}

// Client issues one GET per page against the MyShop API. A single
// fetch is fail-fast; retries are the caller's concern.
type Client struct {
	BaseURL    string
	Token      string
	PerPage    int
	HTTPClient *http.Client
}

const defaultPerPage = 100

func NewClient(baseURL, token string, perPage int) *Client {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		PerPage:    perPage,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchPage retrieves a single page of the given endpoint.
func (c *Client) FetchPage(ctx context.Context, endpoint string, page int) (*ResourcePage, error) {
	fullURL := c.BaseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Page: page, Err: err}
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.PerPage))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Page: page, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Endpoint: endpoint,
			Page:     page,
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var env pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Page: page, Err: fmt.Errorf("decoding response body: %w", err)}
	}

	current := env.Pagination.CurrentPage
	if current == 0 {
		// Some endpoints omit the counter; trust the requested page.
		current = page
	}

	return &ResourcePage{
		Records:     env.Data,
		CurrentPage: current,
		TotalPages:  env.Pagination.TotalPages,
	}, nil
}
