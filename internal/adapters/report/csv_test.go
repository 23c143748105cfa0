package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/adelossa/pregame/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	record := sampleRecord()

	require.NoError(t, WriteCSV(path, []domain.MatchRecord{record}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	// 4 columnas fijas + 3 por cada uno de los seis legs
	require.Len(t, header, 22)
	assert.Equal(t, "first_team", header[0])
	assert.Equal(t, "match_id", header[2])
	assert.Contains(t, header, "draw_yes_token_id")
	assert.Contains(t, header, "first_win_yes_token_pre_price")
	assert.Contains(t, header, "second_win_no_token_price")

	row := rows[1]
	assert.Equal(t, "Manchester City", row[0])
	assert.Equal(t, "Ipswich Town", row[1])
	assert.Equal(t, record.MatchID, row[2])
	assert.Equal(t, "2024-08-24T14:00:00Z", row[3])

	// first_win_yes: id, pre, close
	assert.Equal(t, "mci-yes", row[10])
	assert.Equal(t, "0.905", row[11])
	assert.Equal(t, "1", row[12])

	// second_win_yes no tiene precio pre → celda vacía, nunca "0"
	assert.Equal(t, "ips-yes", row[16])
	assert.Equal(t, "", row[17])
	assert.Equal(t, "0", row[18])
}

func TestWriteCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, WriteCSV(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // solo el header
}

func TestWriteCSV_BadPath(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	assert.Error(t, err)
}
