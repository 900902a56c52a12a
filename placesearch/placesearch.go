package placesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"mingle/planner"
)

// Client is the HTTP implementation of planner.PlaceSearch, backed by
// the external place-search/geocoding service.
type Client struct {
	baseURL string
	http    *http.Client
}

func New() *Client {
	base := os.Getenv("PLACESEARCH_URL")
	if base == "" {
		base = "http://localhost:7001"
	}
	return &Client{
		baseURL: base,
		// The upstream imposes no timeout of its own; expiry counts as
		// a resolution failure.
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) BatchResolve(ctx context.Context, queries []planner.PlaceQuery) ([]planner.PlaceResult, error) {
	body, err := json.Marshal(queries)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/places/resolve", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var results []planner.PlaceResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("malformed place search response: %w", err)
	}
	return results, nil
}
