package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/adelossa/pregame/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes de los ports ---

type fakeMarkets struct {
	markets []domain.RawMarket
}

func (f *fakeMarkets) FetchMarkets(context.Context) ([]domain.RawMarket, error) {
	return f.markets, nil
}

func (f *fakeMarkets) EnrichWithGameTime(_ context.Context, markets []domain.RawMarket) []domain.RawMarket {
	return markets
}

type fakeHistory struct {
	series map[string][]domain.PricePoint
	calls  map[string]int
}

func newFakeHistory(series map[string][]domain.PricePoint) *fakeHistory {
	return &fakeHistory{series: series, calls: make(map[string]int)}
}

func (f *fakeHistory) FetchPriceHistory(_ context.Context, tokenID string, _, _ time.Time) ([]domain.PricePoint, error) {
	f.calls[tokenID]++
	return f.series[tokenID], nil
}

type fakeReporter struct {
	records  []domain.MatchRecord
	accuracy domain.AccuracyReport
	warnings []string
}

func (f *fakeReporter) Report(_ context.Context, records []domain.MatchRecord, accuracy domain.AccuracyReport, warnings []string) error {
	f.records = records
	f.accuracy = accuracy
	f.warnings = warnings
	return nil
}

type fakeStorage struct {
	saved  []domain.MatchRecord
	series map[string][]domain.PricePoint
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{series: make(map[string][]domain.PricePoint)}
}

func (f *fakeStorage) SaveRecords(_ context.Context, records []domain.MatchRecord) error {
	f.saved = records
	return nil
}

func (f *fakeStorage) CachedHistory(_ context.Context, tokenID string, _, _ time.Time) ([]domain.PricePoint, bool) {
	series, ok := f.series[tokenID]
	return series, ok
}

func (f *fakeStorage) PutHistory(_ context.Context, tokenID string, _, _ time.Time, series []domain.PricePoint) error {
	f.series[tokenID] = series
	return nil
}

func (f *fakeStorage) Close() error { return nil }

// --- fixture: Man City 4-1 Ipswich, 24 ago 2024 14:00 UTC ---

var ipswichKickoff = time.Date(2024, 8, 24, 14, 0, 0, 0, time.UTC)

func rawMarket(question, base, yesClose, noClose, volume string) domain.RawMarket {
	return domain.RawMarket{
		ConditionID:   "0x" + base,
		QuestionID:    "q-" + base,
		Question:      question,
		Outcomes:      `["Yes", "No"]`,
		OutcomePrices: `["` + yesClose + `", "` + noClose + `"]`,
		ClobTokenIDs:  `["` + base + `-yes", "` + base + `-no"]`,
		Volume:        volume,
		Closed:        true,
		GameStartTime: ipswichKickoff,
	}
}

func ipswichMarkets() []domain.RawMarket {
	return []domain.RawMarket{
		rawMarket("Will Manchester City beat Ipswich Town?", "mci", "1", "0", "50000"),
		rawMarket("Will Ipswich Town beat Manchester City?", "ips", "0", "1", "30000"),
		rawMarket("Will Manchester City vs Ipswich Town end in a draw?", "drw", "0", "1", "20000"),
	}
}

// flatSeries es una serie con un único punto bastante antes del kickoff.
func flatSeries(price float64) []domain.PricePoint {
	return []domain.PricePoint{
		{Timestamp: ipswichKickoff.Add(-60 * time.Minute), Price: price},
	}
}

func ipswichHistory() map[string][]domain.PricePoint {
	return map[string][]domain.PricePoint{
		// El favorito: 0.905 diez minutos antes, sube tras el cutoff.
		// El punto a kickoff-2min no debe muestrearse (cutoff = kickoff-5min).
		"mci-yes": {
			{Timestamp: ipswichKickoff.Add(-60 * time.Minute), Price: 0.88},
			{Timestamp: ipswichKickoff.Add(-10 * time.Minute), Price: 0.905},
			{Timestamp: ipswichKickoff.Add(-2 * time.Minute), Price: 0.97},
		},
		"mci-no":  flatSeries(0.095),
		"ips-yes": flatSeries(0.04),
		"ips-no":  flatSeries(0.96),
		"drw-yes": flatSeries(0.06),
		"drw-no":  flatSeries(0.94),
	}
}

func TestPipeline_Run_IpswichRegression(t *testing.T) {
	markets := &fakeMarkets{markets: ipswichMarkets()}
	history := newFakeHistory(ipswichHistory())
	reporter := &fakeReporter{}

	p := New(DefaultConfig(), domain.PremierLeague(), markets, history, nil, reporter)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, reporter.records, 1)

	r := reporter.records[0]
	assert.Equal(t, "Manchester City", r.FirstTeam)
	assert.Equal(t, "Ipswich Town", r.SecondTeam)
	assert.True(t, r.KickOff.Equal(ipswichKickoff))

	// Último precio estrictamente anterior a kickoff-5min
	require.True(t, r.FirstWinYes.HasPre)
	assert.Equal(t, 0.905, r.FirstWinYes.PrePrice)
	assert.Equal(t, 1.0, r.FirstWinYes.ClosePrice)

	require.True(t, r.SecondWinYes.HasPre)
	assert.Equal(t, 0.04, r.SecondWinYes.PrePrice)
	require.True(t, r.DrawYes.HasPre)
	assert.Equal(t, 0.06, r.DrawYes.PrePrice)

	// Las tres predicciones redondeadas aciertan → partido correcto
	assert.Equal(t, 1, reporter.accuracy.Evaluated)
	assert.Equal(t, 1, reporter.accuracy.Correct)
	assert.Equal(t, 1.0, reporter.accuracy.Accuracy)
}

func TestPipeline_Run_MarketsOnlySkipsSampling(t *testing.T) {
	markets := &fakeMarkets{markets: ipswichMarkets()}
	history := newFakeHistory(ipswichHistory())
	reporter := &fakeReporter{}

	cfg := DefaultConfig()
	cfg.MarketsOnly = true
	p := New(cfg, domain.PremierLeague(), markets, history, nil, reporter)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, reporter.records, 1)

	assert.Empty(t, history.calls)
	assert.False(t, reporter.records[0].FirstWinYes.HasPre)
	assert.Equal(t, 1, reporter.accuracy.Skipped)
}

func TestPipeline_Run_UsesHistoryCache(t *testing.T) {
	markets := &fakeMarkets{markets: ipswichMarkets()}
	reporter := &fakeReporter{}
	store := newFakeStorage()

	// Primer run: todo viene de la API y se cachea
	first := newFakeHistory(ipswichHistory())
	p := New(DefaultConfig(), domain.PremierLeague(), markets, first, store, reporter)
	require.NoError(t, p.Run(context.Background()))
	assert.Len(t, first.calls, 6)
	assert.Len(t, store.saved, 1)

	// Segundo run: la cache cubre la ventana, cero fetches
	second := newFakeHistory(ipswichHistory())
	p = New(DefaultConfig(), domain.PremierLeague(), markets, second, store, reporter)
	require.NoError(t, p.Run(context.Background()))
	assert.Empty(t, second.calls)

	require.Len(t, reporter.records, 1)
	assert.Equal(t, 0.905, reporter.records[0].FirstWinYes.PrePrice)
}

func TestPipeline_CollateMarkets_FiltersAndAudits(t *testing.T) {
	raws := ipswichMarkets()

	// Ruido que no es partido
	raws = append(raws, rawMarket("Will Bitcoin reach $100k in 2024?", "btc", "1", "0", "9000"))
	// Parece partido (regla simple) pero falla el parseo estricto → warning
	raws = append(raws, rawMarket("Will Chelsea beat Real Madrid in the final?", "ucl", "0", "1", "9000"))
	// Record malformado → se salta, el batch sigue
	broken := rawMarket("Will Everton beat Fulham?", "brk", "1", "0", "100")
	broken.ClobTokenIDs = `not json`
	raws = append(raws, broken)

	markets := &fakeMarkets{markets: raws}
	p := New(DefaultConfig(), domain.PremierLeague(), markets, newFakeHistory(nil), nil, &fakeReporter{})

	records, warnings, err := p.CollateMarkets(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, []string{"Will Chelsea beat Real Madrid in the final?"}, warnings)
}

func TestPipeline_CollateMarkets_VolumeFilter(t *testing.T) {
	raws := ipswichMarkets()
	raws[1].Volume = "0.005" // por debajo del mínimo → cae el leg y con él el record

	markets := &fakeMarkets{markets: raws}
	p := New(DefaultConfig(), domain.PremierLeague(), markets, newFakeHistory(nil), nil, &fakeReporter{})

	records, _, err := p.CollateMarkets(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPipeline_CollateMarkets_SkipsMissingKickoff(t *testing.T) {
	raws := ipswichMarkets()
	raws[2].GameStartTime = time.Time{} // sin kickoff no hay MatchKey

	markets := &fakeMarkets{markets: raws}
	p := New(DefaultConfig(), domain.PremierLeague(), markets, newFakeHistory(nil), nil, &fakeReporter{})

	records, _, err := p.CollateMarkets(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPipeline_Run_AbsentPriceStaysAbsent(t *testing.T) {
	markets := &fakeMarkets{markets: ipswichMarkets()}
	series := ipswichHistory()
	// El token del empate no tiene ningún punto antes del cutoff
	series["drw-yes"] = []domain.PricePoint{
		{Timestamp: ipswichKickoff.Add(-1 * time.Minute), Price: 0.5},
	}
	reporter := &fakeReporter{}

	p := New(DefaultConfig(), domain.PremierLeague(), markets, newFakeHistory(series), nil, reporter)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, reporter.records, 1)

	r := reporter.records[0]
	assert.False(t, r.DrawYes.HasPre)
	assert.Equal(t, 0.0, r.DrawYes.PrePrice)

	// Sin los tres precios pre-partido el record no se evalúa
	assert.Equal(t, 0, reporter.accuracy.Evaluated)
	assert.Equal(t, 1, reporter.accuracy.Skipped)
}
