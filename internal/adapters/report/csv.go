package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/adelossa/pregame/internal/domain"
)

// WriteCSV exporta el record set tabular: una fila por MatchRecord con los
// seis token ids, sus precios pre-partido y sus precios de cierre. Los
// precios pre-partido ausentes quedan como celda vacía.
func WriteCSV(path string, records []domain.MatchRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.WriteCSV: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"first_team", "second_team", "match_id", "game_start_time"}
	for _, name := range legNames() {
		header = append(header,
			name+"_token_id",
			name+"_token_pre_price",
			name+"_token_price",
		)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("report.WriteCSV: header: %w", err)
	}

	for i := range records {
		r := &records[i]
		row := []string{
			r.FirstTeam,
			r.SecondTeam,
			r.MatchID,
			r.KickOff.UTC().Format("2006-01-02T15:04:05Z"),
		}
		for _, named := range r.Legs() {
			pre := ""
			if named.Leg.HasPre {
				pre = strconv.FormatFloat(named.Leg.PrePrice, 'f', -1, 64)
			}
			row = append(row,
				named.Leg.TokenID,
				pre,
				strconv.FormatFloat(named.Leg.ClosePrice, 'f', -1, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("report.WriteCSV: row %s: %w", r.MatchID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("report.WriteCSV: flush: %w", err)
	}
	return nil
}

// legNames devuelve los nombres de columna en el orden canónico del record.
func legNames() []string {
	return []string{"draw_yes", "draw_no", "first_win_yes", "first_win_no", "second_win_yes", "second_win_no"}
}
