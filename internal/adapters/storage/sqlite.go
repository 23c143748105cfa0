package storage

// sqlite.go — persistencia de MatchRecords y cache de series históricas.
//
// Estrategia:
//   - `match_records`: una fila por partido (UPSERT por match_id), con los
//     seis token ids y sus precios de cierre y pre-partido.
//   - `price_histories`: cache de respuestas de /prices-history. Los
//     mercados cerrados son inmutables, así que la cache no expira: un rerun
//     del análisis no repite ningún fetch ya hecho.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adelossa/pregame/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por partido collado, upsert por match_id
CREATE TABLE IF NOT EXISTS match_records (
    match_id                      TEXT PRIMARY KEY,
    first_team                    TEXT NOT NULL,
    second_team                   TEXT NOT NULL,
    kickoff                       DATETIME NOT NULL,
    draw_yes_token_id             TEXT,
    draw_yes_token_price          REAL,
    draw_yes_token_pre_price      REAL,
    draw_no_token_id              TEXT,
    draw_no_token_price           REAL,
    draw_no_token_pre_price       REAL,
    first_win_yes_token_id        TEXT,
    first_win_yes_token_price     REAL,
    first_win_yes_token_pre_price REAL,
    first_win_no_token_id         TEXT,
    first_win_no_token_price      REAL,
    first_win_no_token_pre_price  REAL,
    second_win_yes_token_id       TEXT,
    second_win_yes_token_price    REAL,
    second_win_yes_token_pre_price REAL,
    second_win_no_token_id        TEXT,
    second_win_no_token_price     REAL,
    second_win_no_token_pre_price REAL,
    updated_at                    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_kickoff ON match_records(kickoff);

-- Cache de respuestas de /prices-history, sin expiración
CREATE TABLE IF NOT EXISTS price_histories (
    token_id   TEXT PRIMARY KEY,
    start_ts   INTEGER NOT NULL,
    end_ts     INTEGER NOT NULL,
    fetched_at DATETIME NOT NULL,
    points     TEXT NOT NULL
);
`

// cachedPoint es el formato JSON de un punto en la columna points —
// el mismo shape {t, p} del wire de la API.
type cachedPoint struct {
	T int64   `json:"t"`
	P float64 `json:"p"`
}

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica
// el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// SaveRecords hace upsert de los records por match_id.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []domain.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRecords: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_records
			(match_id, first_team, second_team, kickoff,
			 draw_yes_token_id, draw_yes_token_price, draw_yes_token_pre_price,
			 draw_no_token_id, draw_no_token_price, draw_no_token_pre_price,
			 first_win_yes_token_id, first_win_yes_token_price, first_win_yes_token_pre_price,
			 first_win_no_token_id, first_win_no_token_price, first_win_no_token_pre_price,
			 second_win_yes_token_id, second_win_yes_token_price, second_win_yes_token_pre_price,
			 second_win_no_token_id, second_win_no_token_price, second_win_no_token_pre_price,
			 updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			first_team                     = excluded.first_team,
			second_team                    = excluded.second_team,
			kickoff                        = excluded.kickoff,
			draw_yes_token_id              = excluded.draw_yes_token_id,
			draw_yes_token_price           = excluded.draw_yes_token_price,
			draw_yes_token_pre_price       = excluded.draw_yes_token_pre_price,
			draw_no_token_id               = excluded.draw_no_token_id,
			draw_no_token_price            = excluded.draw_no_token_price,
			draw_no_token_pre_price        = excluded.draw_no_token_pre_price,
			first_win_yes_token_id         = excluded.first_win_yes_token_id,
			first_win_yes_token_price      = excluded.first_win_yes_token_price,
			first_win_yes_token_pre_price  = excluded.first_win_yes_token_pre_price,
			first_win_no_token_id          = excluded.first_win_no_token_id,
			first_win_no_token_price       = excluded.first_win_no_token_price,
			first_win_no_token_pre_price   = excluded.first_win_no_token_pre_price,
			second_win_yes_token_id        = excluded.second_win_yes_token_id,
			second_win_yes_token_price     = excluded.second_win_yes_token_price,
			second_win_yes_token_pre_price = excluded.second_win_yes_token_pre_price,
			second_win_no_token_id         = excluded.second_win_no_token_id,
			second_win_no_token_price      = excluded.second_win_no_token_price,
			second_win_no_token_pre_price  = excluded.second_win_no_token_pre_price,
			updated_at                     = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveRecords: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range records {
		r := &records[i]
		args := []any{r.MatchID, r.FirstTeam, r.SecondTeam, r.KickOff.UTC()}
		for _, named := range r.Legs() {
			args = append(args, named.Leg.TokenID, named.Leg.ClosePrice, prePriceArg(*named.Leg))
		}
		args = append(args, now)

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("storage.SaveRecords: upsert %s: %w", r.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRecords: commit: %w", err)
	}
	return nil
}

// prePriceArg devuelve NULL cuando el precio pre-partido está ausente —
// nunca un cero que se confunda con un precio real.
func prePriceArg(leg domain.RecordLeg) any {
	if !leg.HasPre {
		return nil
	}
	return leg.PrePrice
}

// CachedHistory devuelve la serie cacheada del token si la ventana guardada
// cubre la pedida.
func (s *SQLiteStorage) CachedHistory(ctx context.Context, tokenID string, from, to time.Time) ([]domain.PricePoint, bool) {
	var startTs, endTs int64
	var pointsJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT start_ts, end_ts, points FROM price_histories WHERE token_id = ?`,
		tokenID,
	).Scan(&startTs, &endTs, &pointsJSON)
	if err != nil {
		return nil, false
	}

	if startTs > from.Unix() || endTs < to.Unix() {
		return nil, false // la ventana cacheada no cubre la pedida
	}

	var pts []cachedPoint
	if err := json.Unmarshal([]byte(pointsJSON), &pts); err != nil {
		return nil, false
	}

	series := make([]domain.PricePoint, 0, len(pts))
	for _, pt := range pts {
		series = append(series, domain.PricePoint{
			Timestamp: time.Unix(pt.T, 0).UTC(),
			Price:     pt.P,
		})
	}
	return series, true
}

// PutHistory guarda (o reemplaza) la serie del token con su ventana.
func (s *SQLiteStorage) PutHistory(ctx context.Context, tokenID string, from, to time.Time, series []domain.PricePoint) error {
	pts := make([]cachedPoint, 0, len(series))
	for _, p := range series {
		pts = append(pts, cachedPoint{T: p.Timestamp.Unix(), P: p.Price})
	}

	pointsJSON, err := json.Marshal(pts)
	if err != nil {
		return fmt.Errorf("storage.PutHistory: marshal points: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO price_histories (token_id, start_ts, end_ts, fetched_at, points)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token_id) DO UPDATE SET
			start_ts   = excluded.start_ts,
			end_ts     = excluded.end_ts,
			fetched_at = excluded.fetched_at,
			points     = excluded.points
	`, tokenID, from.Unix(), to.Unix(), time.Now().UTC(), string(pointsJSON))
	if err != nil {
		return fmt.Errorf("storage.PutHistory: upsert %s: %w", tokenID, err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
