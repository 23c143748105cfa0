package ports

import (
	"context"
	"time"

	"github.com/adelossa/pregame/internal/domain"
)

// Storage persiste los MatchRecords y cachea respuestas de la API de
// históricos (los mercados cerrados son inmutables → cacheable sin TTL).
type Storage interface {
	// SaveRecords hace upsert de los records por match_id.
	SaveRecords(ctx context.Context, records []domain.MatchRecord) error

	// CachedHistory devuelve la serie cacheada del token si cubre la
	// ventana pedida. ok=false → hay que ir a la API.
	CachedHistory(ctx context.Context, tokenID string, from, to time.Time) ([]domain.PricePoint, bool)

	// PutHistory guarda la serie del token junto a la ventana cubierta.
	PutHistory(ctx context.Context, tokenID string, from, to time.Time, series []domain.PricePoint) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
