// Package export renders analysis results as downloadable CSV or JSON files.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/weatherwise-risk/internal/domain"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

const notAvailable = "N/A"

// ErrNoData is returned when a download request carries no result.
var ErrNoData = errors.New("no data provided")

// Request is the body of a download request. Data is a forecast or
// historical result as previously returned by the API.
type Request struct {
	Format string          `json:"format"`
	Data   json.RawMessage `json:"data"`
}

// File is a rendered download.
type File struct {
	Format      string
	ContentType string
	Filename    string
	Body        []byte
}

// Envelope wraps a JSON download.
type Envelope struct {
	Success  bool            `json:"success"`
	Format   string          `json:"format"`
	Content  json.RawMessage `json:"content"`
	Filename string          `json:"filename"`
}

// Document is the subset of a result the CSV report reads. Sections whose
// field is absent are omitted from the report.
type Document struct {
	Location       *domain.Location        `json:"location"`
	Statistics     *domain.Statistics      `json:"statistics"`
	RiskAnalysis   *domain.RiskAssessment  `json:"risk_analysis"`
	ExtremeEvents  *domain.ExtremeEvents   `json:"extreme_events"`
	Forecast       []domain.DailyWeather   `json:"forecast"`
	HistoricalData []domain.HistoricalYear `json:"historical_data"`
	DataSources    []string                `json:"data_sources"`
}

// Render produces the download for req. Any format other than csv renders
// JSON.
func Render(req Request) (File, error) {
	if isEmpty(req.Data) {
		return File{}, ErrNoData
	}

	var doc Document
	if err := json.Unmarshal(req.Data, &doc); err != nil {
		return File{}, fmt.Errorf("decode analysis: %w", err)
	}
	name := "unknown"
	if doc.Location != nil && doc.Location.Name != "" {
		name = doc.Location.Name
	}

	if strings.EqualFold(req.Format, FormatCSV) {
		body, err := CSV(doc)
		if err != nil {
			return File{}, err
		}
		return File{
			Format:      FormatCSV,
			ContentType: "text/csv",
			Filename:    Filename(name, FormatCSV),
			Body:        body,
		}, nil
	}

	filename := Filename(name, FormatJSON)
	body, err := json.Marshal(Envelope{
		Success:  true,
		Format:   FormatJSON,
		Content:  req.Data,
		Filename: filename,
	})
	if err != nil {
		return File{}, fmt.Errorf("encode download: %w", err)
	}
	return File{
		Format:      FormatJSON,
		ContentType: "application/json",
		Filename:    filename,
		Body:        body,
	}, nil
}

// Filename builds weatherwise_analysis_<name>.<ext> with spaces replaced by
// underscores and commas removed.
func Filename(locationName, ext string) string {
	name := strings.ReplaceAll(locationName, " ", "_")
	name = strings.ReplaceAll(name, ",", "")
	return fmt.Sprintf("weatherwise_analysis_%s.%s", name, ext)
}

// CSV writes the report sections in order: header, location, statistics,
// risk analysis, extreme events, forecast (forecast mode only), historical
// data, and data sources.
func CSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	rows := reportRows(doc)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func reportRows(doc Document) [][]string {
	rows := [][]string{
		{"WeatherWise Analysis Report"},
		{"Generated by NASA Space Apps Challenge 2025"},
		{},
		{"Location Information"},
	}

	if loc := doc.Location; loc != nil {
		activity := string(loc.ActivityType)
		if activity == "" {
			activity = notAvailable
		}
		rows = append(rows,
			[]string{"Name", orNA(loc.Name)},
			[]string{"Latitude", formatFloat(loc.Lat)},
			[]string{"Longitude", formatFloat(loc.Lon)},
			[]string{"Activity", activity},
		)
		if loc.Crop != nil && *loc.Crop != "" {
			rows = append(rows, []string{"Crop", *loc.Crop})
		}
	}
	rows = append(rows, []string{})

	if s := doc.Statistics; s != nil {
		rows = append(rows,
			[]string{"Historical Statistics (20 Years)"},
			[]string{"Metric", "Value"},
			[]string{"Rain Probability", formatFloat(s.RainProbability) + "%"},
			[]string{"Favorable Conditions", formatFloat(s.FavorableConditionsProbability) + "%"},
			[]string{"Average Temperature", formatFloat(s.AverageTemperatureC) + "°C"},
			[]string{},
		)
	}

	if r := doc.RiskAnalysis; r != nil {
		rows = append(rows,
			[]string{"Risk Analysis"},
			[]string{"Risk Score", fmt.Sprintf("%d/100", r.RiskScore)},
			[]string{"Recommendation", r.Recommendation},
		)
		if r.Confidence != "" {
			rows = append(rows, []string{"Confidence", r.Confidence})
		}
		rows = append(rows, []string{})
	}

	if ee := doc.ExtremeEvents; ee != nil {
		rows = append(rows,
			[]string{"Extreme Events Analysis"},
			[]string{"Event Type", "Probability", "Severity", "Occurrences"},
			extremeRow("Extreme Heat", ee.ExtremeHeat),
			extremeRow("Extreme Rainfall", ee.ExtremeRainfall),
			extremeRow("Heat Wave", ee.HeatWave),
			extremeRow("Dangerous Winds", ee.DangerousWinds),
			[]string{},
		)
	}

	if doc.Forecast != nil && doc.HistoricalData == nil {
		rows = append(rows,
			[]string{"7-Day Weather Forecast"},
			[]string{"Date", "Temperature (°C)", "Precipitation (mm)", "Humidity (%)", "Wind Speed (m/s)", "Conditions"},
		)
		for _, d := range doc.Forecast {
			rows = append(rows, []string{
				orNA(d.Date),
				formatFloat(d.TemperatureC),
				formatFloat(d.PrecipitationMM),
				formatFloat(d.HumidityPercent),
				formatFloat(d.WindSpeedMS),
				orNA(d.Conditions),
			})
		}
		rows = append(rows, []string{})
	}

	if doc.HistoricalData != nil {
		rows = append(rows,
			[]string{"Historical Data"},
			[]string{"Year", "Date", "Temperature (°C)", "Precipitation (mm)", "Rained", "Favorable"},
		)
		for _, y := range doc.HistoricalData {
			rows = append(rows, []string{
				strconv.Itoa(y.Year),
				y.Date,
				formatFloat(y.TemperatureC),
				formatFloat(y.PrecipitationMM),
				yesNo(y.Rained),
				yesNo(y.WasFavorable),
			})
		}
		rows = append(rows, []string{})
	}

	if doc.DataSources != nil {
		rows = append(rows, []string{"Data Sources"})
		for _, src := range doc.DataSources {
			rows = append(rows, []string{src})
		}
	}

	return rows
}

func extremeRow(label string, s domain.ExtremeEventStat) []string {
	return []string{label, formatFloat(s.Probability) + "%", s.Severity, strconv.Itoa(s.Occurrences)}
}

// formatFloat renders whole numbers with one decimal place ("20.0") and
// everything else in shortest form.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// isEmpty reports whether raw is missing, null, or an empty object.
func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil && len(obj) == 0 {
		return true
	}
	return false
}
