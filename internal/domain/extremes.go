package domain

import (
	"fmt"
	"math"
	"time"
)

// Severity tiers for extreme event categories.
const (
	SeverityHigh     = "HIGH"
	SeverityModerate = "MODERATE"
	SeverityLow      = "LOW"
)

const (
	heatwaveChance       = 0.4
	monsoonWindChance    = 0.15
	offSeasonWindChance  = 0.05
	comfortPenaltyFactor = 25
)

// ExtremeEventStat summarizes one extreme category across the record set.
type ExtremeEventStat struct {
	Probability float64 `json:"probability"`
	Threshold   string  `json:"threshold"`
	Occurrences int     `json:"occurrences"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
}

// ComfortIndex is the probability of a year free of extreme events.
type ComfortIndex struct {
	Probability float64 `json:"probability"`
	Description string  `json:"description"`
}

// ExtremeEvents is the extreme-weather section of a historical result.
type ExtremeEvents struct {
	ExtremeHeat     ExtremeEventStat `json:"extreme_heat"`
	ExtremeRainfall ExtremeEventStat `json:"extreme_rainfall"`
	HeatWave        ExtremeEventStat `json:"heat_wave"`
	DangerousWinds  ExtremeEventStat `json:"dangerous_winds"`
	ComfortIndex    ComfortIndex     `json:"comfort_index"`
	Summary         []string         `json:"summary"`
}

// tiers holds the HIGH and MODERATE cutoffs of a category, both exclusive.
type tiers struct{ high, moderate float64 }

func (t tiers) severity(p float64) string {
	switch {
	case p > t.high:
		return SeverityHigh
	case p > t.moderate:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

var (
	heatTiers     = tiers{20, 10}
	rainTiers     = tiers{15, 7}
	heatwaveTiers = tiers{15, 8}
	windTiers     = tiers{20, 10}
)

// AnalyzeExtremeEvents counts heat, heavy rain, heatwave, and wind events
// across the record set. Heatwave and wind flags come from streams reseeded
// per year so that they do not depend on the order of years.
func AnalyzeExtremeEvents(years []HistoricalYear, lat, lon float64, month time.Month) ExtremeEvents {
	th := extremeThresholdsByBand[BandFor(lat)]
	windChance := offSeasonWindChance
	if month >= time.July && month <= time.September {
		windChance = monsoonWindChance
	}

	var heat, rain, heatwave, wind int
	for _, y := range years {
		if y.TemperatureC > th.HeatC {
			heat++
		}
		if y.PrecipitationMM > th.ExtremeRainMM {
			rain++
		}
		if y.TemperatureC > th.HeatwaveC && NewSampler(lat, lon, y.Year, int(month)).Bool(heatwaveChance) {
			heatwave++
		}
		if NewSampler(lat, lon, y.Year, int(month), "wind").Bool(windChance) {
			wind++
		}
	}

	total := len(years)
	pct := func(n int) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}
	heatP, rainP, heatwaveP, windP := pct(heat), pct(rain), pct(heatwave), pct(wind)

	comfort := 100.0
	if total > 0 {
		comfort = math.Max(0, 100-float64(heat+rain+heatwave+wind)/float64(total)*comfortPenaltyFactor)
	}

	return ExtremeEvents{
		ExtremeHeat: ExtremeEventStat{
			Probability: round(heatP, 1),
			Threshold:   fmt.Sprintf("%v°C (%d°F)", th.HeatC, int(th.HeatC*9/5+32)),
			Occurrences: heat,
			Severity:    heatTiers.severity(heatP),
			Description: fmt.Sprintf("Days with dangerously high temperatures above %v°C", th.HeatC),
		},
		ExtremeRainfall: ExtremeEventStat{
			Probability: round(rainP, 1),
			Threshold:   fmt.Sprintf("%vmm", th.ExtremeRainMM),
			Occurrences: rain,
			Severity:    rainTiers.severity(rainP),
			Description: fmt.Sprintf("Days with heavy rainfall exceeding %vmm", th.ExtremeRainMM),
		},
		HeatWave: ExtremeEventStat{
			Probability: round(heatwaveP, 1),
			Threshold:   fmt.Sprintf("3+ days above %v°C", th.HeatwaveC),
			Occurrences: heatwave,
			Severity:    heatwaveTiers.severity(heatwaveP),
			Description: fmt.Sprintf("Multi-day heat waves with temperatures exceeding %v°C", th.HeatwaveC),
		},
		DangerousWinds: ExtremeEventStat{
			Probability: round(windP, 1),
			Threshold:   ">60 km/h (>37 mph)",
			Occurrences: wind,
			Severity:    windTiers.severity(windP),
			Description: "High winds that could impact outdoor activities",
		},
		ComfortIndex: ComfortIndex{
			Probability: round(comfort, 1),
			Description: "Overall probability of comfortable conditions without extreme events",
		},
		Summary: extremeSummary(heatP, rainP, heatwaveP, windP),
	}
}

func extremeSummary(heat, rain, heatwave, wind float64) []string {
	var warnings []string

	switch {
	case heat > 20:
		warnings = append(warnings, "⚠️ High risk of extreme heat - shade and hydration critical")
	case heat > 10:
		warnings = append(warnings, "☀️ Moderate heat risk - plan for warm conditions")
	}

	switch {
	case rain > 15:
		warnings = append(warnings, "⚠️ Significant risk of heavy rainfall - indoor backup essential")
	case rain > 7:
		warnings = append(warnings, "🌧️ Occasional heavy rain possible - have contingency plan")
	}

	if heatwave > 15 {
		warnings = append(warnings, "🔥 Heat wave risk - extended hot period possible")
	}
	if wind > 20 {
		warnings = append(warnings, "💨 High wind risk - secure outdoor equipment")
	}

	if len(warnings) == 0 {
		warnings = append(warnings, "✅ Low risk of extreme weather events - generally favorable")
	}
	return warnings
}
