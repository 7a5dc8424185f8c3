package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func repeatDay(d DailyWeather, n int) []DailyWeather {
	days := make([]DailyWeather, n)
	for i := range days {
		days[i] = d
	}
	return days
}

func TestScoreRisk(t *testing.T) {
	tests := []struct {
		name     string
		activity Activity
		day      DailyWeather
		want     int
	}{
		{"harvest wet and muddy", ActivityHarvest, DailyWeather{PrecipitationMM: 15, SoilMoistureIndex: 0.7}, 90},
		{"harvest probable rain", ActivityHarvest, DailyWeather{PrecipitationMM: 5, PrecipitationProbability: 60}, 30},
		{"harvest dry", ActivityHarvest, DailyWeather{PrecipitationMM: 1, PrecipitationProbability: 10, SoilMoistureIndex: 0.3}, 0},
		{"planting too dry", ActivityPlanting, DailyWeather{PrecipitationMM: 1}, 45},
		{"planting waterlogged", ActivityPlanting, DailyWeather{PrecipitationMM: 25}, 30},
		{"planting ideal", ActivityPlanting, DailyWeather{PrecipitationMM: 10}, 0},
		{"spraying rain and wind", ActivitySpraying, DailyWeather{PrecipitationProbability: 40, WindSpeedMS: 9}, 90},
		{"spraying calm", ActivitySpraying, DailyWeather{PrecipitationProbability: 30, WindSpeedMS: 8}, 0},
		{"event heavy rain", ActivityEvent, DailyWeather{PrecipitationMM: 11, SoilMoistureIndex: 0.9}, 60},
		{"unknown activity", Activity("hiking"), DailyWeather{PrecipitationMM: 50, PrecipitationProbability: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreRisk(repeatDay(tt.day, ForecastDays), tt.activity))
		})
	}
}

func TestScoreRisk_OnlyFirstThreeDays(t *testing.T) {
	dry := DailyWeather{PrecipitationMM: 0, PrecipitationProbability: 10}
	wet := DailyWeather{PrecipitationMM: 25, PrecipitationProbability: 90}
	days := []DailyWeather{dry, dry, dry, wet, wet, wet, wet}

	assert.Equal(t, 0, ScoreRisk(days, ActivityHarvest))
	assert.Equal(t, 0, ScoreRisk(nil, ActivityHarvest))
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		activity Activity
		score    int
		want     string
	}{
		{ActivityHarvest, 0, "HARVEST NOW"},
		{ActivityHarvest, 29, "HARVEST NOW"},
		{ActivityHarvest, 30, RecommendationMonitor},
		{ActivityHarvest, 59, RecommendationMonitor},
		{ActivityHarvest, 60, "DELAY HARVEST"},
		{ActivityPlanting, 10, "GOOD TIME TO PLANT"},
		{ActivityPlanting, 75, "WAIT FOR BETTER CONDITIONS"},
		{ActivitySpraying, 10, "PROCEED NOW"},
		{ActivityEvent, 10, "PROCEED AS PLANNED"},
		{ActivityEvent, 80, "RESCHEDULE RECOMMENDED"},
		{Activity("hiking"), 45, RecommendationMonitor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommend(tt.score, tt.activity), "%s/%d", tt.activity, tt.score)
	}
}

func TestConfidenceFor(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ConfidenceFor(29))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(30))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(70))
	assert.Equal(t, ConfidenceHigh, ConfidenceFor(71))
}

func TestReason(t *testing.T) {
	t.Run("dry harvest", func(t *testing.T) {
		days := repeatDay(DailyWeather{PrecipitationMM: 1, PrecipitationProbability: 10, SoilMoistureIndex: 0.3}, 7)
		assert.Equal(t, []string{
			"Low precipitation expected (avg 1.0mm over next 3 days)",
			"Low rain probability (10% average)",
			"Soil conditions favorable for equipment operation",
			"✅ Excellent conditions for harvest",
		}, Reason(days, ActivityHarvest, 0))
	})

	t.Run("wet event", func(t *testing.T) {
		days := repeatDay(DailyWeather{PrecipitationMM: 20, PrecipitationProbability: 80, SoilMoistureIndex: 0.7}, 7)
		assert.Equal(t, []string{
			"Significant rain expected (avg 20.0mm over next 3 days)",
			"Moderate to high rain probability (80% average)",
			"🚫 Poor conditions - consider delaying",
		}, Reason(days, ActivityEvent, 60))
	})

	t.Run("marginal harvest with wet soil", func(t *testing.T) {
		days := repeatDay(DailyWeather{PrecipitationMM: 3, PrecipitationProbability: 55, SoilMoistureIndex: 0.6}, 7)
		reasons := Reason(days, ActivityHarvest, 30)
		assert.Contains(t, reasons, "Elevated soil moisture may affect machinery access")
		assert.Equal(t, "⚠️ Marginal conditions - monitor forecasts closely", reasons[len(reasons)-1])
	})

	t.Run("short forecast averages over three days", func(t *testing.T) {
		days := []DailyWeather{{PrecipitationMM: 9, PrecipitationProbability: 30}}
		reasons := Reason(days, ActivitySpraying, 0)
		assert.Equal(t, "Low precipitation expected (avg 3.0mm over next 3 days)", reasons[0])
		assert.Equal(t, "Low rain probability (10% average)", reasons[1])
	})
}

func TestAssess(t *testing.T) {
	days := repeatDay(DailyWeather{Date: "2025-06-01", PrecipitationMM: 15, PrecipitationProbability: 80, SoilMoistureIndex: 0.7}, 7)

	got := Assess(days, ActivityHarvest)

	assert.Equal(t, 90, got.RiskScore)
	assert.Equal(t, "DELAY HARVEST", got.Recommendation)
	assert.Equal(t, ConfidenceHigh, got.Confidence)
	assert.Len(t, got.Reasoning, 4)
	assert.Equal(t, ConfidenceLow, got.OptimalWindow.Confidence)
}
