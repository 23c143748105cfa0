package polymarket

import (
	"time"

	"github.com/adelossa/pregame/internal/domain"
)

// mapGammaMarkets convierte los DTOs de Gamma a domain.RawMarket.
// Los campos stringificados (outcomes, precios, token ids, volumen) se
// pasan tal cual: el clasificador es el dueño del parseo numérico y de la
// semántica de "record malformado".
func mapGammaMarkets(raw []gammaMarket) []domain.RawMarket {
	markets := make([]domain.RawMarket, 0, len(raw))
	for _, g := range raw {
		m := domain.RawMarket{
			ConditionID:   g.ConditionID,
			QuestionID:    g.QuestionID,
			Question:      g.Question,
			Outcomes:      g.Outcomes,
			OutcomePrices: g.OutcomePrices,
			ClobTokenIDs:  g.ClobTokenIDs,
			Volume:        g.Volume,
			Closed:        g.Closed,
			EndDateISO:    g.EndDateISO,
		}
		if g.QuestionID == "" {
			m.QuestionID = g.ID
		}
		if t, ok := parseISOTime(g.GameStartTime); ok {
			m.GameStartTime = t
		}
		markets = append(markets, m)
	}
	return markets
}

// mapHistory convierte los puntos raw {t, p} a domain.PricePoint.
func mapHistory(raw []historyPoint) []domain.PricePoint {
	series := make([]domain.PricePoint, 0, len(raw))
	for _, pt := range raw {
		series = append(series, domain.PricePoint{
			Timestamp: time.Unix(pt.T, 0).UTC(),
			Price:     pt.P,
		})
	}
	return series
}

// parseISOTime intenta los formatos ISO-8601 que Polymarket usa según el
// endpoint. Devuelve el tiempo normalizado a UTC.
func parseISOTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05-07",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
