package domain

import "time"

// DateLayout is the calendar-date format used for every date in results.
const DateLayout = "2006-01-02"

// Condition labels for synthetic forecast days.
const (
	ConditionRainLikely = "Rain Likely"
	ConditionClear      = "Clear"
)

// Confidence labels.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Location is a resolved point with its display name.
type Location struct {
	Name         string   `json:"name"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	ActivityType Activity `json:"activity_type"`
	Crop         *string  `json:"crop"`
}

// DailyWeather is one forecast day.
type DailyWeather struct {
	Date                     string  `json:"date"`
	TemperatureC             float64 `json:"temperature_c"`
	PrecipitationMM          float64 `json:"precipitation_mm"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
	HumidityPercent          float64 `json:"humidity_percent"`
	WindSpeedMS              float64 `json:"wind_speed_ms"`
	SoilMoistureIndex        float64 `json:"soil_moisture_index"`
	Conditions               string  `json:"conditions"`
}

// OptimalWindow is the best contiguous low-rain stretch in a forecast.
type OptimalWindow struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	Confidence string `json:"confidence"`
}

// RiskAssessment is the short-range verdict for an activity.
type RiskAssessment struct {
	RiskScore      int           `json:"risk_score"`
	Recommendation string        `json:"recommendation"`
	Confidence     string        `json:"confidence"`
	Reasoning      []string      `json:"reasoning"`
	OptimalWindow  OptimalWindow `json:"optimal_window"`
}

// YearSource tags where a historical record came from.
type YearSource string

const (
	SourceObserved  YearSource = "observed"
	SourceSynthetic YearSource = "synthetic"
)

// HistoricalYear is one year's weather on the target calendar date.
type HistoricalYear struct {
	Year            int        `json:"year"`
	Date            string     `json:"date"`
	TemperatureC    float64    `json:"temperature_c"`
	PrecipitationMM float64    `json:"precipitation_mm"`
	HumidityPercent float64    `json:"humidity_percent,omitempty"`
	WindSpeedMS     float64    `json:"wind_speed_ms,omitempty"`
	Rained          bool       `json:"rained"`
	WasFavorable    bool       `json:"was_favorable"`
	Source          YearSource `json:"source"`
}

// ObservedYear is a real per-date observation returned by a HistoryFetcher.
// Missing provider values are already defaulted by the fetcher.
type ObservedYear struct {
	Year            int
	TemperatureC    float64
	PrecipitationMM float64
	HumidityPercent float64
	WindSpeedMS     float64
}

// Statistics summarizes a historical record set.
type Statistics struct {
	RainProbability                float64 `json:"rain_probability"`
	FavorableConditionsProbability float64 `json:"favorable_conditions_probability"`
	AverageTemperatureC            float64 `json:"average_temperature_c"`
	AveragePrecipitationMM         float64 `json:"average_precipitation_mm"`
	TotalYearsAnalyzed             int     `json:"total_years_analyzed"`
	RainyYears                     int     `json:"rainy_years"`
	FavorableYears                 int     `json:"favorable_years"`
	ObservedYears                  int     `json:"observed_years"`
}

// DayRainProbability is one entry of a monthly rain-probability curve.
type DayRainProbability struct {
	Day             int     `json:"day"`
	RainProbability float64 `json:"rain_probability"`
}

// ForecastResult is the full forecast-mode response record.
type ForecastResult struct {
	AnalysisID   string         `json:"analysis_id,omitempty"`
	Location     Location       `json:"location"`
	Forecast     []DailyWeather `json:"forecast"`
	RiskAnalysis RiskAssessment `json:"risk_analysis"`
	DataSources  []string       `json:"data_sources"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// HistoricalResult is the full historical-mode response record.
type HistoricalResult struct {
	AnalysisID        string               `json:"analysis_id,omitempty"`
	Location          Location             `json:"location"`
	TargetDate        string               `json:"target_date"`
	MonthsInAdvance   int                  `json:"months_in_advance"`
	AnalysisPeriod    string               `json:"analysis_period"`
	Statistics        Statistics           `json:"statistics"`
	PlanningRiskScore int                  `json:"planning_risk_score"`
	Recommendation    string               `json:"recommendation"`
	HistoricalData    []HistoricalYear     `json:"historical_data"`
	MonthlyPattern    []DayRainProbability `json:"monthly_pattern"`
	Insights          []string             `json:"insights"`
	ExtremeEvents     ExtremeEvents        `json:"extreme_events"`
	ClimateTrends     *ClimateTrends       `json:"climate_trends"`
	DataSources       []string             `json:"data_sources"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

// Analysis modes.
const (
	ModeForecast   = "forecast"
	ModeHistorical = "historical"
)

// Analysis is a completed result record, either mode.
type Analysis interface {
	ID() string
	Mode() string
	Timestamp() time.Time
}

func (r ForecastResult) ID() string           { return r.AnalysisID }
func (r ForecastResult) Mode() string         { return ModeForecast }
func (r ForecastResult) Timestamp() time.Time { return r.GeneratedAt }

func (r HistoricalResult) ID() string           { return r.AnalysisID }
func (r HistoricalResult) Mode() string         { return ModeHistorical }
func (r HistoricalResult) Timestamp() time.Time { return r.GeneratedAt }
