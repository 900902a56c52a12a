package placesearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mingle/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchResolveRoundTrip(t *testing.T) {
	lat, lng := 41.8826, -87.6226
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/places/resolve", r.URL.Path)

		var queries []planner.PlaceQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&queries))
		require.Len(t, queries, 1)

		json.NewEncoder(w).Encode([]planner.PlaceResult{
			{Query: queries[0], Lat: &lat, Lng: &lng, Address: "201 E Randolph St, Chicago, IL"},
		})
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, http: srv.Client()}
	results, err := c.BatchResolve(context.Background(), []planner.PlaceQuery{
		{Name: "Millennium Park", Address: "201 E Randolph St"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, lat, *results[0].Lat)
	assert.Equal(t, "201 E Randolph St, Chicago, IL", results[0].Address)
}

func TestBatchResolveNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, http: srv.Client()}
	_, err := c.BatchResolve(context.Background(), []planner.PlaceQuery{{Name: "x"}})
	assert.Error(t, err)
}

func TestBatchResolveMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, http: srv.Client()}
	_, err := c.BatchResolve(context.Background(), []planner.PlaceQuery{{Name: "x"}})
	assert.Error(t, err)
}
