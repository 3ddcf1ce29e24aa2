package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/query"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client reads mission results from a missionlog API. It implements
// query.Provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// FetchResults returns every result for ownerID, unfiltered.
func (c *Client) FetchResults(ctx context.Context, ownerID string) ([]models.MissionResult, error) {
	p := query.DefaultParams()
	p.OwnerID = ownerID
	view, err := c.Query(ctx, p)
	if err != nil {
		return nil, err
	}
	return view.Records, nil
}

// Query asks the server to evaluate p.
func (c *Client) Query(ctx context.Context, p query.Params) (query.View, error) {
	v := url.Values{}
	if p.OwnerID != "" {
		v.Set("owner", p.OwnerID)
	}
	v.Set("status", string(p.Status))
	v.Set("category", string(p.Category))
	if p.Search != "" {
		v.Set("q", p.Search)
	}
	v.Set("sort", string(p.Sort))

	var view query.View
	if err := c.get(ctx, "/results?"+v.Encode(), &view); err != nil {
		return query.View{}, err
	}
	return view, nil
}

// GetResult fetches a single result.
func (c *Client) GetResult(ctx context.Context, id string) (*models.MissionResult, error) {
	var r models.MissionResult
	if err := c.get(ctx, "/results/"+url.PathEscape(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Health returns the server's health payload. The payload is returned
// alongside the error on non-200 responses.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	err := c.get(ctx, "/health", &health)
	if err != nil && health.Version == "" {
		return nil, err
	}
	return &health, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		// health reports its payload even when unhealthy
		_ = json.Unmarshal(body, out)
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
