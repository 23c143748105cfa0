package polymarket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchPriceHistory(t *testing.T) {
	from := time.Date(2024, 7, 27, 14, 0, 0, 0, time.UTC)
	to := time.Date(2024, 8, 24, 14, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices-history", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "tok-123", q.Get("market"))
		assert.Equal(t, "1", q.Get("fidelity"))
		assert.NotEmpty(t, q.Get("startTs"))
		assert.NotEmpty(t, q.Get("endTs"))

		// Puntos desordenados a propósito: el cliente garantiza el orden
		json.NewEncoder(w).Encode(historyResponse{History: []historyPoint{
			{T: to.Unix() - 600, P: 0.905},
			{T: to.Unix() - 3600, P: 0.88},
			{T: to.Unix() - 120, P: 0.97},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	series, err := c.FetchPriceHistory(context.Background(), "tok-123", from, to)

	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, 0.88, series[0].Price)
	assert.Equal(t, 0.905, series[1].Price)
	assert.Equal(t, 0.97, series[2].Price)
	assert.True(t, series[0].Timestamp.Before(series[1].Timestamp))
}

func TestClient_FetchPriceHistory_FailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	series, err := c.FetchPriceHistory(context.Background(), "tok-404", time.Now().Add(-time.Hour), time.Now())

	// Un fetch fallido devuelve serie vacía, no error: el batch continúa
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestClient_FetchPriceHistory_EmptyHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(historyResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	series, err := c.FetchPriceHistory(context.Background(), "tok-dry", time.Now().Add(-time.Hour), time.Now())

	require.NoError(t, err)
	assert.Empty(t, series)
}
