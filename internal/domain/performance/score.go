package performance

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// KPIProgress is round(achieved/target*100) bounded to [0, 100]. A zero or
// negative target yields 0.
func KPIProgress(achieved, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := decimal.NewFromFloat(achieved).Div(decimal.NewFromFloat(target)).Mul(hundred).Round(0)
	return clampPercent(pct).InexactFloat64()
}

// KPIScore returns the quantitative attainment, averaged with the
// qualitative score when one is set, rounded to two decimals.
func KPIScore(achieved, target float64, qualitative *float64) float64 {
	quantitative := decimal.Zero
	if target > 0 {
		quantitative = clampPercent(decimal.NewFromFloat(achieved).Div(decimal.NewFromFloat(target)).Mul(hundred))
	}
	score := quantitative
	if qualitative != nil {
		score = quantitative.Add(clampPercent(decimal.NewFromFloat(*qualitative))).Div(decimal.NewFromInt(2))
	}
	return score.Round(2).InexactFloat64()
}

// FinalScore adds reviewerScore to the mean of completed KPI scores. With no
// completed KPIs the mean is omitted.
func FinalScore(completedScores []float64, reviewerScore float64) float64 {
	reviewer := decimal.NewFromFloat(reviewerScore)
	if len(completedScores) == 0 {
		return reviewer.Round(2).InexactFloat64()
	}
	sum := decimal.Zero
	for _, score := range completedScores {
		sum = sum.Add(decimal.NewFromFloat(score))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(completedScores))))
	return avg.Add(reviewer).Round(2).InexactFloat64()
}

// recalculateKPI refreshes the derived fields. Progress is recomputed on
// every save. Only completed KPIs carry a score.
func recalculateKPI(k *KPI) {
	k.Progress = KPIProgress(k.AchievedValue, k.Target)
	k.Score = 0
	if k.Status == KPIStatusCompleted {
		k.Score = KPIScore(k.AchievedValue, k.Target, k.QualitativeScore)
	}
}

func clampPercent(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if v.GreaterThan(hundred) {
		return hundred
	}
	return v
}

func roundTo2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
