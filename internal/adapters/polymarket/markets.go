package polymarket

// markets.go — fetch paginado de mercados desde Gamma y enriquecimiento de
// game_start_time desde el CLOB.
//
// Gamma pagina por offset. Una página fallida se loguea y se trata como fin
// del stream (el batch degrada a menos filas, nunca aborta). El kickoff de
// cada mercado viene de una fuente secundaria: GET /markets/{condition_id}
// del CLOB, en el mismo patrón de enriquecimiento opcional que usamos para
// todo lo que no es imprescindible.

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/adelossa/pregame/internal/domain"
)

const (
	gammaMarketsPath = "/markets"
	clobMarketPath   = "/markets/" // + condition_id
	pageSize         = 100
)

// FetchMarkets devuelve todos los mercados de Gamma que casan con el filtro
// configurado del cliente, paginando por offset hasta agotar resultados.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.RawMarket, error) {
	var all []domain.RawMarket

	for offset := 0; ; offset += pageSize {
		pageURL := fmt.Sprintf("%s%s?limit=%d&offset=%d&closed=true",
			c.gammaBase, gammaMarketsPath, pageSize, offset)

		var page gammaMarketsResponse
		if err := c.get(ctx, c.gammaLimiter, pageURL, &page); err != nil {
			if offset == 0 {
				return nil, fmt.Errorf("polymarket.FetchMarkets: first page: %w", err)
			}
			// Página intermedia fallida → resultado vacío para esa página,
			// seguimos con lo que tenemos.
			slog.Warn("markets page failed, truncating fetch", "offset", offset, "err", err)
			break
		}

		all = append(all, mapGammaMarkets(page)...)

		slog.Debug("fetched markets page",
			"offset", offset,
			"count", len(page),
			"total", len(all),
		)

		if len(page) < pageSize {
			break
		}
	}

	slog.Info("markets fetched", "total", len(all))
	return all, nil
}

// EnrichWithGameTime completa GameStartTime desde el CLOB para los mercados
// que no lo trajeron de Gamma. El enriquecimiento es opcional — los fallos
// se loguean y el mercado queda sin kickoff (y caerá del pipeline después).
func (c *Client) EnrichWithGameTime(ctx context.Context, markets []domain.RawMarket) []domain.RawMarket {
	enriched, failed := 0, 0

	for i := range markets {
		if !markets[i].GameStartTime.IsZero() || markets[i].ConditionID == "" {
			continue
		}

		reqURL := c.clobBase + clobMarketPath + url.PathEscape(markets[i].ConditionID)

		var m clobMarket
		if err := c.get(ctx, c.clobLimiter, reqURL, &m); err != nil {
			slog.Debug("game time enrichment failed, skipping",
				"condition_id", markets[i].ConditionID,
				"err", err,
			)
			failed++
			continue
		}

		if t, ok := parseISOTime(m.GameStartTime); ok {
			markets[i].GameStartTime = t
			enriched++
		}
	}

	slog.Info("game times enriched", "enriched", enriched, "failed", failed)
	return markets
}
