package polymarket

// history.go — series de precios del CLOB.
//
// El rate limiter de históricos es el presupuesto de todo el análisis
// (6 llamadas por 10s): cada token del batch pasa por aquí en secuencia.

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/adelossa/pregame/internal/domain"
)

const (
	historyPath = "/prices-history"

	// fidelity en minutos entre puntos; 1 = la resolución máxima.
	defaultFidelity = 1
)

// FetchPriceHistory devuelve la serie (timestamp, precio) del token en la
// ventana [from, to], ordenada ascendente. Un fetch fallido tras los retries
// devuelve serie vacía y loguea — el caller sigue con el siguiente token.
func (c *Client) FetchPriceHistory(ctx context.Context, tokenID string, from, to time.Time) ([]domain.PricePoint, error) {
	q := url.Values{}
	q.Set("market", tokenID)
	q.Set("startTs", fmt.Sprintf("%d", from.Unix()))
	q.Set("endTs", fmt.Sprintf("%d", to.Unix()))
	q.Set("fidelity", fmt.Sprintf("%d", defaultFidelity))

	reqURL := c.clobBase + historyPath + "?" + q.Encode()

	var resp historyResponse
	if err := c.get(ctx, c.historyLimiter, reqURL, &resp); err != nil {
		// UpstreamFetchFailure: resultado vacío, el batch continúa.
		slog.Warn("price history fetch failed", "token_id", tokenID, "err", err)
		return nil, nil
	}

	series := mapHistory(resp.History)

	// La API devuelve los puntos en orden temporal, pero el sampler exige
	// la precondición ordenada — la garantizamos aquí, no allí.
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	slog.Debug("price history fetched", "token_id", tokenID, "points", len(series))
	return series, nil
}
