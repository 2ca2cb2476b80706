package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKPIProgress(t *testing.T) {
	tests := []struct {
		name     string
		achieved float64
		target   float64
		want     float64
	}{
		{"half way", 50, 100, 50},
		{"rounds half up", 1, 8, 13},
		{"capped at 100", 250, 100, 100},
		{"zero target", 40, 0, 0},
		{"negative achieved clamps to zero", -5, 10, 0},
		{"rounds down", 1, 3, 33},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KPIProgress(tc.achieved, tc.target))
		})
	}
}

func TestKPIScore(t *testing.T) {
	qualitative := 60.0
	assert.Equal(t, 80.0, KPIScore(80, 100, nil))
	assert.Equal(t, 100.0, KPIScore(150, 100, nil))
	assert.Equal(t, 70.0, KPIScore(80, 100, &qualitative))
	assert.Equal(t, 30.0, KPIScore(10, 0, &qualitative))
	assert.Equal(t, 33.33, KPIScore(1, 3, nil))
}

func TestFinalScore(t *testing.T) {
	assert.Equal(t, 90.0, FinalScore([]float64{80, 90}, 5))
	assert.Equal(t, 7.5, FinalScore(nil, 7.5))
	assert.Equal(t, 0.0, FinalScore(nil, 0))
	assert.Equal(t, 71.67, FinalScore([]float64{70, 70, 75}, 0))
}

func TestRecalculateKPIOnlyScoresCompleted(t *testing.T) {
	k := KPI{Target: 100, AchievedValue: 40, Status: KPIStatusInProgress, Score: 12}
	recalculateKPI(&k)
	assert.Equal(t, 40.0, k.Progress)
	assert.Zero(t, k.Score)

	k.Status = KPIStatusCompleted
	recalculateKPI(&k)
	assert.Equal(t, 40.0, k.Score)
}

func TestRecalculateKPIDropsScoreWhenReopened(t *testing.T) {
	k := KPI{Target: 100, AchievedValue: 80, Status: KPIStatusCompleted}
	recalculateKPI(&k)
	require.Equal(t, 80.0, k.Score)

	k.Status = KPIStatusInProgress
	k.AchievedValue = 10
	recalculateKPI(&k)
	assert.Equal(t, 10.0, k.Progress)
	assert.Zero(t, k.Score)
	assert.Zero(t, buildKPISummary([]KPI{k}).AverageScore)
}
