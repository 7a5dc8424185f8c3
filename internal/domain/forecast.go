package domain

import (
	"math"
	"time"
)

// ForecastDays is the length of every synthetic forecast.
const ForecastDays = 7

// BuildForecast produces the 7-day synthetic forecast for a point starting
// on the day of start. One stream seeded by the coordinates serves all
// seven days, so day-to-day variation comes from sequential draws.
func BuildForecast(lat, lon float64, start time.Time) []DailyWeather {
	climate := forecastClimates[BandFor(lat)]
	s := NewSampler(lat, lon)

	days := make([]DailyWeather, 0, ForecastDays)
	for i := range ForecastDays {
		date := start.AddDate(0, 0, i)
		days = append(days, sampleDay(s, climate, date))
	}
	return days
}

func sampleDay(s *Sampler, c forecastClimate, date time.Time) DailyWeather {
	willRain := s.Bool(c.RainLikelihood)
	tempVariation := s.Int(-3, 5)

	d := DailyWeather{
		Date:         date.Format(DateLayout),
		TemperatureC: c.BaseTemp + float64(tempVariation),
		Conditions:   ConditionClear,
	}
	if willRain {
		d.PrecipitationMM = float64(s.Int(10, 30))
		d.PrecipitationProbability = float64(s.Int(60, 90))
		d.HumidityPercent = float64(s.Int(50, 80))
	} else {
		d.PrecipitationMM = float64(s.Int(0, 2))
		d.PrecipitationProbability = float64(s.Int(5, 30))
		d.HumidityPercent = float64(s.Int(30, 50))
	}
	d.WindSpeedMS = round(s.Float(2, 12), 1)
	if willRain {
		d.SoilMoistureIndex = s.Float(0.5, 0.8)
		d.Conditions = ConditionRainLikely
	} else {
		d.SoilMoistureIndex = s.Float(0.2, 0.4)
	}
	return d
}

// round rounds v to the given number of decimal places, half away from zero.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ForecastDataSources lists the provenance lines for a forecast result.
func ForecastDataSources() []string {
	return []string{
		"NASA GPM IMERG (Precipitation)",
		"NASA SMAP (Soil Moisture)",
		"Meteomatics Weather API",
	}
}

// AnalyzeForecast builds the forecast starting today and assesses it for
// the activity. Location and ID are left to the caller.
func AnalyzeForecast(lat, lon float64, a Activity) ForecastResult {
	days := BuildForecast(lat, lon, Now())
	return ForecastResult{
		Forecast:     days,
		RiskAnalysis: Assess(days, a),
		DataSources:  ForecastDataSources(),
		GeneratedAt:  Now(),
	}
}
