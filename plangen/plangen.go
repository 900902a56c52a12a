package plangen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrNoPlans means the producer has not generated anything for the
// outing yet. A normal state, not a failure.
var ErrNoPlans = errors.New("no plans generated for outing")

// Client talks to the external itinerary-generation producer. The
// producer's output is free-form JSON; callers hand the body to the
// planner normalizer untouched.
type Client struct {
	baseURL string
	http    *http.Client
}

func New() *Client {
	base := os.Getenv("PLANGEN_URL")
	if base == "" {
		base = "http://localhost:7002"
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchRaw returns the raw generated payload for an outing.
func (c *Client) FetchRaw(ctx context.Context, outingID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/plans/"+outingID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrNoPlans, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
