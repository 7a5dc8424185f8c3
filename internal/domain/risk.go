package domain

import "fmt"

// scoringDays is how many leading days of a window feed risk and reasoning.
const scoringDays = 3

// Score bands shared by recommendations, confidence, and reasoning.
const (
	goBandMax      = 30 // score < 30
	monitorBandMax = 60 // 30 <= score < 60
)

// RecommendationMonitor is the middle-band label for every activity.
const RecommendationMonitor = "MONITOR CLOSELY"

// ScoreRisk accumulates the activity's per-day penalties over the first
// three days and clamps the total to 0–100.
func ScoreRisk(days []DailyWeather, a Activity) int {
	p := profileFor(a)
	risk := 0
	for _, d := range leading(days) {
		risk += p.dayPenalty(d)
	}
	return clampInt(risk, 0, 100)
}

// Recommend maps a risk score to the activity's recommendation label.
func Recommend(score int, a Activity) string {
	p := profileFor(a)
	switch {
	case score < goBandMax:
		return p.goLabel
	case score < monitorBandMax:
		return RecommendationMonitor
	default:
		return p.stopLabel
	}
}

// ConfidenceFor is HIGH at either extreme of the score range.
func ConfidenceFor(score int) string {
	if score < goBandMax || score > 70 {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// Reason explains a score from the first three days of the window.
func Reason(days []DailyWeather, a Activity, score int) []string {
	window := leading(days)
	var reasons []string

	avgPrecip := mean(window, func(d DailyWeather) float64 { return d.PrecipitationMM })
	avgProb := mean(window, func(d DailyWeather) float64 { return d.PrecipitationProbability })

	if avgPrecip < 5 {
		reasons = append(reasons, fmt.Sprintf("Low precipitation expected (avg %.1fmm over next 3 days)", avgPrecip))
	} else {
		reasons = append(reasons, fmt.Sprintf("Significant rain expected (avg %.1fmm over next 3 days)", avgPrecip))
	}

	if avgProb < 40 {
		reasons = append(reasons, fmt.Sprintf("Low rain probability (%.0f%% average)", avgProb))
	} else {
		reasons = append(reasons, fmt.Sprintf("Moderate to high rain probability (%.0f%% average)", avgProb))
	}

	if a == ActivityHarvest {
		avgSoil := mean(window, func(d DailyWeather) float64 { return d.SoilMoistureIndex })
		if avgSoil < 0.5 {
			reasons = append(reasons, "Soil conditions favorable for equipment operation")
		} else {
			reasons = append(reasons, "Elevated soil moisture may affect machinery access")
		}
	}

	switch {
	case score < goBandMax:
		reasons = append(reasons, fmt.Sprintf("✅ Excellent conditions for %s", a))
	case score < monitorBandMax:
		reasons = append(reasons, "⚠️ Marginal conditions - monitor forecasts closely")
	default:
		reasons = append(reasons, "🚫 Poor conditions - consider delaying")
	}
	return reasons
}

// Assess runs the scorer, recommendation engine, and window finder over a
// forecast and merges their outputs.
func Assess(days []DailyWeather, a Activity) RiskAssessment {
	score := ScoreRisk(days, a)
	return RiskAssessment{
		RiskScore:      score,
		Recommendation: Recommend(score, a),
		Confidence:     ConfidenceFor(score),
		Reasoning:      Reason(days, a, score),
		OptimalWindow:  FindOptimalWindow(days),
	}
}

func leading(days []DailyWeather) []DailyWeather {
	if len(days) > scoringDays {
		return days[:scoringDays]
	}
	return days
}

// mean averages over the scoring window; the divisor is always the full
// window length so short inputs read as dry days.
func mean(days []DailyWeather, f func(DailyWeather) float64) float64 {
	sum := 0.0
	for _, d := range days {
		sum += f(d)
	}
	return sum / scoringDays
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
