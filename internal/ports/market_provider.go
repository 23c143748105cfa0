package ports

import (
	"context"

	"github.com/adelossa/pregame/internal/domain"
)

// MarketProvider obtiene los mercados raw desde la API de mercados.
type MarketProvider interface {
	// FetchMarkets devuelve todos los mercados del tag configurado,
	// paginando automáticamente hasta agotar los resultados. Una página
	// fallida se trata como fin del stream, no como error del batch.
	FetchMarkets(ctx context.Context) ([]domain.RawMarket, error)

	// EnrichWithGameTime completa GameStartTime desde la fuente secundaria
	// para los mercados que no lo traen. El enriquecimiento es opcional:
	// los fallos se loguean y el mercado queda sin kickoff.
	EnrichWithGameTime(ctx context.Context, markets []domain.RawMarket) []domain.RawMarket
}
