package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adelossa/pregame/internal/domain"
	"github.com/adelossa/pregame/internal/ports"
)

// Config contiene la configuración del pipeline.
type Config struct {
	PreGameOffset time.Duration // cuánto antes del kickoff se muestrea el precio
	Lookback      time.Duration // ventana de histórico a pedir, terminando en el kickoff
	MinVolume     float64       // legs con volumen ≤ MinVolume se descartan
	MarketsOnly   bool          // true → parar tras collar, sin fetch de históricos
}

// DefaultConfig devuelve la configuración de referencia del análisis.
func DefaultConfig() Config {
	return Config{
		PreGameOffset: 5 * time.Minute,
		Lookback:      4 * 7 * 24 * time.Hour,
		MinVolume:     0.01,
	}
}

// Pipeline es el orquestador del batch: fetch → parse → collate → sample →
// report. Todo síncrono y secuencial; los componentes core son funciones
// puras sobre datos ya en memoria.
type Pipeline struct {
	cfg      Config
	parser   *Parser
	markets  ports.MarketProvider
	history  ports.HistoryProvider
	storage  ports.Storage
	reporter ports.Reporter
}

// New crea un Pipeline con todas las dependencias inyectadas.
// storage puede ser nil (sin cache ni persistencia).
func New(
	cfg Config,
	catalog *domain.Catalog,
	markets ports.MarketProvider,
	history ports.HistoryProvider,
	storage ports.Storage,
	reporter ports.Reporter,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		parser:   NewParser(catalog),
		markets:  markets,
		history:  history,
		storage:  storage,
		reporter: reporter,
	}
}

// Run ejecuta el batch completo una vez.
func (p *Pipeline) Run(ctx context.Context) error {
	records, warnings, err := p.CollateMarkets(ctx)
	if err != nil {
		return err
	}

	if !p.cfg.MarketsOnly {
		p.sampleRecords(ctx, records)
	}

	accuracy := domain.Evaluate(records)
	slog.Info("batch complete",
		"records", len(records),
		"evaluated", accuracy.Evaluated,
		"correct", accuracy.Correct,
		"accuracy", fmt.Sprintf("%.3f", accuracy.Accuracy),
	)

	if p.storage != nil {
		if err := p.storage.SaveRecords(ctx, records); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	if err := p.reporter.Report(ctx, records, accuracy, warnings); err != nil {
		slog.Warn("reporter error", "err", err)
	}
	return nil
}

// CollateMarkets ejecuta las tres primeras etapas: fetch de mercados,
// parseo/clasificación de legs y collación en MatchRecords. Devuelve también
// los warnings de auditoría (preguntas que parecen partido pero fallaron el
// parseo estricto).
func (p *Pipeline) CollateMarkets(ctx context.Context) ([]domain.MatchRecord, []string, error) {
	raws, err := p.markets.FetchMarkets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline.CollateMarkets: %w", err)
	}
	raws = p.markets.EnrichWithGameTime(ctx, raws)

	var (
		legs      []domain.MarketLeg
		warnings  []string
		malformed int
		noKickoff int
		lowVolume int
	)

	for _, raw := range raws {
		parsed := p.parser.ExtractMatchDetails(raw.Question)
		if !parsed.IsMatch {
			// Mayoría esperada: preguntas que no son partidos. Las que
			// parecen serlo se listan para revisión manual, nunca se
			// autocorrigen.
			if p.parser.IsLikelyMatchBySimpleRule(raw.Question) {
				warnings = append(warnings, raw.Question)
			}
			continue
		}

		leg, err := BuildLeg(raw, parsed)
		if err != nil {
			slog.Warn("malformed market record, skipping", "condition_id", raw.ConditionID, "err", err)
			malformed++
			continue
		}
		if leg.GameStartTime.IsZero() {
			noKickoff++
			continue // sin kickoff no hay MatchKey posible
		}
		if leg.Volume <= p.cfg.MinVolume {
			lowVolume++
			continue
		}
		legs = append(legs, leg)
	}

	records := Collate(legs)

	slog.Info("markets collated",
		"fetched", len(raws),
		"legs", len(legs),
		"records", len(records),
		"audit_warnings", len(warnings),
		"malformed", malformed,
		"no_kickoff", noKickoff,
		"low_volume", lowVolume,
	)
	return records, warnings, nil
}

// sampleRecords completa los precios pre-partido de los seis legs de cada
// record. Un token sin datos antes del cutoff queda marcado como ausente;
// un fetch fallido se salta y el batch continúa.
func (p *Pipeline) sampleRecords(ctx context.Context, records []domain.MatchRecord) {
	sampled, absent := 0, 0

	for i := range records {
		kickoff := records[i].KickOff
		cutoff := kickoff.Add(-p.cfg.PreGameOffset)
		from := kickoff.Add(-p.cfg.Lookback)

		for _, named := range records[i].Legs() {
			if named.Leg.TokenID == "" {
				continue
			}
			series, err := p.fetchSeries(ctx, named.Leg.TokenID, from, kickoff)
			if err != nil {
				slog.Warn("history fetch failed, skipping token",
					"token_id", named.Leg.TokenID,
					"err", err,
				)
				continue
			}

			price, ok := domain.PriceBefore(series, cutoff)
			if !ok {
				absent++
				continue
			}
			named.Leg.PrePrice = price
			named.Leg.HasPre = true
			sampled++
		}
	}

	slog.Info("pre-game prices sampled", "sampled", sampled, "absent", absent)
}

// fetchSeries devuelve la serie del token, usando la cache de storage si
// cubre la ventana. Las series nuevas se guardan para reruns.
func (p *Pipeline) fetchSeries(ctx context.Context, tokenID string, from, to time.Time) ([]domain.PricePoint, error) {
	if p.storage != nil {
		if series, ok := p.storage.CachedHistory(ctx, tokenID, from, to); ok {
			return series, nil
		}
	}

	series, err := p.history.FetchPriceHistory(ctx, tokenID, from, to)
	if err != nil {
		return nil, err
	}

	if p.storage != nil {
		if err := p.storage.PutHistory(ctx, tokenID, from, to, series); err != nil {
			slog.Warn("history cache write failed", "token_id", tokenID, "err", err)
		}
	}
	return series, nil
}
