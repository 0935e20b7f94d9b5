package s0_data

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epaforecast/internal/contracts"
)

var recordHeader = strings.Join(contracts.RecordColumns(), ",") + "\n"

func TestReadFrame_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte(recordHeader), 0o644))

	df, err := ReadFrame(path)
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, contracts.RecordColumns(), df.Names())
	assert.Equal(t, series.Int, df.Col(contracts.ColWeek).Type())
	assert.Equal(t, series.String, df.Col(contracts.ColSeasonType).Type())
	assert.Equal(t, series.Float, df.Col(contracts.ColPassingEPA).Type())

	records, err := FrameRecords(df)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseFrame_EmptyInput(t *testing.T) {
	_, err := ParseFrame(nil)
	assert.Error(t, err)

	df, err := ParseFrame([]byte("player_id,notes\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, series.String, df.Col("notes").Type())
}

func TestWriteFrame_KeepsFullPrecision(t *testing.T) {
	df, err := ParseFrame([]byte(recordHeader +
		"00-1,2023,1,REG,0.123456789012,20,30,250.25,2,1\n" +
		"00-2,2023,2,REG,,18,25,180,1,0\n"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "raw.csv")
	require.NoError(t, WriteFrame(path, df))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "00-1,2023,1,REG,0.123456789012,20,30,250.25,2,1", lines[1])

	back, err := ReadFrame(path)
	require.NoError(t, err)
	assert.Equal(t, series.Float, back.Col(contracts.ColPassingEPA).Type())
	assert.Equal(t, series.Float, back.Col(contracts.ColPassingYards).Type())
	assert.Equal(t, 0.123456789012, back.Col(contracts.ColPassingEPA).Float()[0])
}

func TestWriteFrame_HeaderOnlyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteFrame(path, emptyFrame(contracts.RecordColumns())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, recordHeader, string(data))

	df, err := ReadFrame(path)
	require.NoError(t, err)
	assert.Equal(t, 0, df.Nrow())
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{20, "20.0"},
		{-1.5, "-1.5"},
		{0.123456789012, "0.123456789012"},
		{1e-7, "1e-07"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in))
	}
	assert.Equal(t, "", FormatFloat(math.NaN()))
}
