package domain

const (
	windowScanDays      = 5
	windowMaxRainChance = 40
)

// FindOptimalWindow returns the first run of consecutive days (within the
// first five) whose precipitation probability is below 40%. Scanning stops
// at the first wet day after a run has started. With no qualifying day the
// window defaults to days 0–1 at LOW confidence.
func FindOptimalWindow(days []DailyWeather) OptimalWindow {
	var start, end string
	for i, d := range days {
		if i >= windowScanDays {
			break
		}
		if d.PrecipitationProbability < windowMaxRainChance {
			if start == "" {
				start = d.Date
			}
			end = d.Date
		} else if start != "" {
			break
		}
	}

	if start != "" {
		return OptimalWindow{Start: start, End: end, Confidence: ConfidenceHigh}
	}

	w := OptimalWindow{Confidence: ConfidenceLow}
	if len(days) > 0 {
		w.Start = days[0].Date
		w.End = days[0].Date
	}
	if len(days) > 1 {
		w.End = days[1].Date
	}
	return w
}
