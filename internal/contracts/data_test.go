package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordColumnsOrder(t *testing.T) {
	cols := RecordColumns()
	assert.Len(t, cols, 10)
	assert.Equal(t, ColPlayerID, cols[0])
	assert.Equal(t, ColPassingEPA, cols[4])
	assert.Equal(t, ColInterceptions, cols[9])
}

func TestNonNegativeColumns_ExcludesYards(t *testing.T) {
	assert.NotContains(t, NonNegativeColumns(), ColPassingYards)
	assert.Len(t, NonNegativeColumns(), 4)
}

func TestWeeklyQBRecord_Features(t *testing.T) {
	r := WeeklyQBRecord{PlayerID: "00-1", Season: 2023, Week: 3, Completions: 20, Attempts: 30, PassingYards: 250, PassingTDs: 2, Interceptions: 1}

	assert.Equal(t, []float64{20, 30, 250, 2, 1}, r.Features())
	assert.Equal(t, RecordKey{PlayerID: "00-1", Season: 2023, Week: 3}, r.Key())
	assert.Len(t, r.Features(), len(FeatureColumns()))
}

func TestConfusionMatrix(t *testing.T) {
	cm := ConfusionMatrix{TruePositive: 3, TrueNegative: 4, FalsePositive: 2, FalseNegative: 1}
	assert.Equal(t, 10, cm.Total())
	assert.InDelta(t, 0.7, cm.Accuracy(), 1e-12)
	assert.Equal(t, 0.0, ConfusionMatrix{}.Accuracy())
}

func TestStages(t *testing.T) {
	stages := AllStages()
	assert.Equal(t, []Stage{StageAcquire, StageClean, StageQuality, StageModel}, stages)
	for i, s := range stages {
		assert.Equal(t, "S"+string(rune('0'+i)), s.ShortName())
		assert.True(t, IsValidStage(s.String()))
	}
	assert.False(t, IsValidStage("S4_PORTFOLIO"))
	assert.Equal(t, "UNKNOWN", Stage("x").ShortName())
}
