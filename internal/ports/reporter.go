package ports

import (
	"context"

	"github.com/adelossa/pregame/internal/domain"
)

// Reporter presenta los resultados del batch al usuario.
type Reporter interface {
	// Report muestra los records collados, el resumen de accuracy y los
	// warnings de auditoría del parser. En la implementación de consola
	// imprime una tabla formateada; también puede exportar CSV.
	Report(ctx context.Context, records []domain.MatchRecord, accuracy domain.AccuracyReport, auditWarnings []string) error
}
