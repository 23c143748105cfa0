package ports

import (
	"context"
	"time"

	"github.com/adelossa/pregame/internal/domain"
)

// HistoryProvider obtiene la serie de precios histórica de un token.
type HistoryProvider interface {
	// FetchPriceHistory devuelve los puntos (timestamp, precio) del token
	// en la ventana [from, to], ordenados ascendente por timestamp.
	// Un fetch fallido devuelve serie vacía, no error — el batch continúa.
	FetchPriceHistory(ctx context.Context, tokenID string, from, to time.Time) ([]domain.PricePoint, error)
}
