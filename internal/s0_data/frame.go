package s0_data

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wonny/epaforecast/internal/contracts"
)

// ⭐ SSOT: 스테이지 간 CSV 입출력은 이 파일의 함수로만 수행

// ReadFrame loads a CSV file into a DataFrame (types detected per column)
func ReadFrame(path string) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}

	df, err := parseCSV(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", path, err)
	}
	return df, nil
}

// ParseFrame loads CSV bytes into a DataFrame
func ParseFrame(data []byte) (dataframe.DataFrame, error) {
	df, err := parseCSV(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse csv: %w", err)
	}
	return df, nil
}

// parseCSV 헤더만 있는 입력은 0행 프레임으로 반환 (gota는 에러 처리)
func parseCSV(data []byte) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(bytes.NewReader(data))
	if df.Err == nil {
		return df, nil
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(rows) != 1 {
		return dataframe.DataFrame{}, df.Err
	}
	return emptyFrame(rows[0]), nil
}

// emptyFrame builds a zero-row frame; known columns get their record types
func emptyFrame(names []string) dataframe.DataFrame {
	cols := make([]series.Series, len(names))
	for i, name := range names {
		switch name {
		case contracts.ColSeason, contracts.ColWeek:
			cols[i] = series.New([]int{}, series.Int, name)
		case contracts.ColPlayerID, contracts.ColSeasonType:
			cols[i] = series.New([]string{}, series.String, name)
		default:
			if isNumericColumn(name) {
				cols[i] = series.New([]float64{}, series.Float, name)
			} else {
				cols[i] = series.New([]string{}, series.String, name)
			}
		}
	}
	return dataframe.New(cols...)
}

func isNumericColumn(name string) bool {
	if name == contracts.ColPassingEPA || name == contracts.ColPassingYards {
		return true
	}
	for _, c := range contracts.NonNegativeColumns() {
		if c == name {
			return true
		}
	}
	return false
}

// WriteFrame writes df to path with a header row, creating parent directories.
// float 셀은 최단 표현(정밀도 손실 없음)으로 기록, 정수값은 "20.0" 형태로 타입 유지
func WriteFrame(path string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("write %s: %w", path, df.Err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}

	names := df.Names()
	cells := make([][]string, len(names))
	for j, name := range names {
		col := df.Col(name)
		if col.Type() != series.Float {
			cells[j] = col.Records()
			continue
		}
		vals := col.Float()
		cells[j] = make([]string, len(vals))
		for i, v := range vals {
			cells[j][i] = FormatFloat(v)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Write(names)
	row := make([]string, len(names))
	for i := 0; i < df.Nrow(); i++ {
		for j := range names {
			row[j] = cells[j][i]
		}
		w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// FormatFloat renders v losslessly; NaN is an empty cell, integral values keep ".0"
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eI") {
		s += ".0"
	}
	return s
}

// HasColumn reports whether df carries the named column
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// FrameRecords converts a frame in RecordColumns layout into typed records
// season/week 결측은 에러, 수치 결측은 NaN 유지
func FrameRecords(df dataframe.DataFrame) ([]contracts.WeeklyQBRecord, error) {
	for _, col := range contracts.RecordColumns() {
		if !HasColumn(df, col) {
			return nil, fmt.Errorf("frame records: missing column %q", col)
		}
	}

	n := df.Nrow()
	players := df.Col(contracts.ColPlayerID).Records()
	seasons := df.Col(contracts.ColSeason).Float()
	weeks := df.Col(contracts.ColWeek).Float()
	types := df.Col(contracts.ColSeasonType).Records()
	epa := df.Col(contracts.ColPassingEPA).Float()
	comp := df.Col(contracts.ColCompletions).Float()
	att := df.Col(contracts.ColAttempts).Float()
	yards := df.Col(contracts.ColPassingYards).Float()
	tds := df.Col(contracts.ColPassingTDs).Float()
	ints := df.Col(contracts.ColInterceptions).Float()

	records := make([]contracts.WeeklyQBRecord, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(seasons[i]) || math.IsNaN(weeks[i]) {
			return nil, fmt.Errorf("frame records: row %d has no season/week", i)
		}
		records[i] = contracts.WeeklyQBRecord{
			PlayerID:      players[i],
			Season:        int(seasons[i]),
			Week:          int(weeks[i]),
			SeasonType:    types[i],
			PassingEPA:    epa[i],
			Completions:   comp[i],
			Attempts:      att[i],
			PassingYards:  yards[i],
			PassingTDs:    tds[i],
			Interceptions: ints[i],
		}
	}
	return records, nil
}
