package domain

import (
	"fmt"
	"math"
)

// Trend directions.
const (
	TrendIncreasing = "INCREASING"
	TrendDecreasing = "DECREASING"
	TrendStable     = "STABLE"
)

const (
	minTrendYears = 5

	tempSlopeThreshold   = 0.1 // °C per year
	precipSlopeThreshold = 1.0 // mm per year

	tempSummaryChange   = 0.5 // °C over the span
	precipSummaryChange = 5.0 // mm over the span
)

// TrendStat is the fitted trend of one variable.
type TrendStat struct {
	Trend           string  `json:"trend"`
	ChangePerDecade float64 `json:"change_per_decade"`
	TotalChange     float64 `json:"total_change"`
	Description     string  `json:"description"`
}

// ClimateTrends is the trend section of a historical result.
type ClimateTrends struct {
	Temperature   TrendStat `json:"temperature"`
	Precipitation TrendStat `json:"precipitation"`
	Summary       []string  `json:"summary"`
}

// EstimateClimateTrends fits least-squares lines of temperature and
// precipitation against year. Fewer than five years yields nil. Years are
// expected in ascending order; the span is last minus first.
func EstimateClimateTrends(years []HistoricalYear) *ClimateTrends {
	if len(years) < minTrendYears {
		return nil
	}

	xs := make([]float64, len(years))
	temps := make([]float64, len(years))
	precips := make([]float64, len(years))
	for i, y := range years {
		xs[i] = float64(y.Year)
		temps[i] = y.TemperatureC
		precips[i] = y.PrecipitationMM
	}
	span := xs[len(xs)-1] - xs[0]

	tempSlope := Slope(xs, temps)
	precipSlope := Slope(xs, precips)
	tempChange := tempSlope * span
	precipChange := precipSlope * span

	tempTrend := classifyTrend(tempSlope, tempSlopeThreshold)
	precipTrend := classifyTrend(precipSlope, precipSlopeThreshold)

	return &ClimateTrends{
		Temperature: TrendStat{
			Trend:           tempTrend,
			ChangePerDecade: round(tempSlope*10, 2),
			TotalChange:     round(tempChange, 2),
			Description:     temperatureTrendText(tempTrend, tempChange),
		},
		Precipitation: TrendStat{
			Trend:           precipTrend,
			ChangePerDecade: round(precipSlope*10, 1),
			TotalChange:     round(precipChange, 1),
			Description:     precipitationTrendText(precipTrend, precipChange),
		},
		Summary: climateSummary(tempTrend, precipTrend, tempChange, precipChange),
	}
}

// Slope is the ordinary least-squares slope of ys against xs. A degenerate
// x series (all equal) has slope zero.
func Slope(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sx, sy, sxy, sxx float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxy += xs[i] * ys[i]
		sxx += xs[i] * xs[i]
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / denom
}

func classifyTrend(slope, threshold float64) string {
	switch {
	case slope > threshold:
		return TrendIncreasing
	case slope < -threshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func temperatureTrendText(trend string, change float64) string {
	switch trend {
	case TrendIncreasing:
		return fmt.Sprintf("Temperatures have risen by %.1f°C over the past decade - warmer conditions becoming more common", math.Abs(change))
	case TrendDecreasing:
		return fmt.Sprintf("Temperatures have cooled by %.1f°C over the past decade - cooler conditions more frequent", math.Abs(change))
	default:
		return "Temperatures have remained relatively stable over the past decade"
	}
}

func precipitationTrendText(trend string, change float64) string {
	switch trend {
	case TrendIncreasing:
		return fmt.Sprintf("Rainfall has increased by %.1fmm over the past decade - wetter conditions expected", math.Abs(change))
	case TrendDecreasing:
		return fmt.Sprintf("Rainfall has decreased by %.1fmm over the past decade - drier conditions expected", math.Abs(change))
	default:
		return "Rainfall patterns have remained relatively stable over the past decade"
	}
}

func climateSummary(tempTrend, precipTrend string, tempChange, precipChange float64) []string {
	var lines []string

	if math.Abs(tempChange) > tempSummaryChange {
		switch tempTrend {
		case TrendIncreasing:
			lines = append(lines, "🌡️ Climate warming trend detected - consider heat adaptation strategies")
		case TrendDecreasing:
			lines = append(lines, "❄️ Cooling trend observed - adjust cold weather preparations")
		}
	}

	if math.Abs(precipChange) > precipSummaryChange {
		switch precipTrend {
		case TrendIncreasing:
			lines = append(lines, "💧 Increasing precipitation pattern - drainage and wet weather planning important")
		case TrendDecreasing:
			lines = append(lines, "☀️ Decreasing precipitation trend - water conservation and drought preparedness advised")
		}
	}

	if len(lines) == 0 {
		lines = append(lines, "📊 Climate conditions relatively stable - historical patterns remain reliable")
	}
	return lines
}
