package domain

import "strings"

// Activity is the operational context being planned. Unrecognized values
// are kept verbatim for display and scored with the default profile.
type Activity string

const (
	ActivityHarvest  Activity = "harvest"
	ActivityPlanting Activity = "planting"
	ActivitySpraying Activity = "spraying"
	ActivityEvent    Activity = "event"
)

// ParseActivity maps user input to an Activity; blank input means harvest.
// Names match case-sensitively and are kept as given, so "Harvest" is an
// unrecognized activity echoed verbatim.
func ParseActivity(s string) Activity {
	if strings.TrimSpace(s) == "" {
		return ActivityHarvest
	}
	return Activity(s)
}

// ShowsCrop reports whether a crop label is meaningful for the activity.
func (a Activity) ShowsCrop() bool {
	switch a {
	case ActivityHarvest, ActivityPlanting, ActivitySpraying:
		return true
	default:
		return false
	}
}

// activityProfile bundles the activity-specific vocabulary and rules.
type activityProfile struct {
	goLabel   string
	stopLabel string

	// planning recommendations for favorable probability >70, >50, else
	planningHigh   string
	planningMedium string
	planningLow    string

	dayPenalty func(d DailyWeather) int
	favorable  func(precipMM float64, rained bool) bool
}

var defaultProfile = activityProfile{
	goLabel:        "PROCEED NOW",
	stopLabel:      "WAIT FOR BETTER CONDITIONS",
	planningHigh:   "FAVORABLE CONDITIONS EXPECTED",
	planningMedium: "ACCEPTABLE CONDITIONS - MONITOR CLOSER TO DATE",
	planningLow:    "UNFAVORABLE - EXPLORE OTHER TIME WINDOWS",
	dayPenalty:     func(DailyWeather) int { return 0 },
	favorable:      func(p float64, _ bool) bool { return p < 15 },
}

var profiles = map[Activity]activityProfile{
	ActivityHarvest: {
		goLabel:        "HARVEST NOW",
		stopLabel:      "DELAY HARVEST",
		planningHigh:   "EXCELLENT TIME TO PLAN HARVEST",
		planningMedium: "MODERATE RISK - HAVE BACKUP PLAN",
		planningLow:    "HIGH RISK - CONSIDER ALTERNATIVE DATES",
		dayPenalty: func(d DailyWeather) int {
			return rainPenalty(d) + soilPenalty(d)
		},
		favorable: dryFavorable,
	},
	ActivityPlanting: {
		goLabel:        "GOOD TIME TO PLANT",
		stopLabel:      defaultProfile.stopLabel,
		planningHigh:   "HIGHLY FAVORABLE PLANTING WINDOW",
		planningMedium: defaultProfile.planningMedium,
		planningLow:    defaultProfile.planningLow,
		dayPenalty: func(d DailyWeather) int {
			switch {
			case d.PrecipitationMM < 2:
				return 15
			case d.PrecipitationMM > 20:
				return 10
			default:
				return 0
			}
		},
		favorable: func(p float64, _ bool) bool { return p > 2 && p < 30 },
	},
	ActivitySpraying: {
		goLabel:        defaultProfile.goLabel,
		stopLabel:      defaultProfile.stopLabel,
		planningHigh:   defaultProfile.planningHigh,
		planningMedium: defaultProfile.planningMedium,
		planningLow:    defaultProfile.planningLow,
		dayPenalty: func(d DailyWeather) int {
			risk := 0
			if d.PrecipitationProbability > 30 {
				risk += 15
			}
			if d.WindSpeedMS > 8 {
				risk += 15
			}
			return risk
		},
		favorable: defaultProfile.favorable,
	},
	ActivityEvent: {
		goLabel:        "PROCEED AS PLANNED",
		stopLabel:      "RESCHEDULE RECOMMENDED",
		planningHigh:   "LOW RISK - PROCEED WITH OUTDOOR PLANS",
		planningMedium: "MODERATE RISK - HAVE BACKUP PLAN",
		planningLow:    "CONSIDER INDOOR VENUE OR DIFFERENT DATE",
		dayPenalty:     rainPenalty,
		favorable:      dryFavorable,
	},
}

func profileFor(a Activity) activityProfile {
	if p, ok := profiles[a]; ok {
		return p
	}
	return defaultProfile
}

func rainPenalty(d DailyWeather) int {
	switch {
	case d.PrecipitationMM > 10:
		return 20
	case d.PrecipitationProbability > 50:
		return 10
	default:
		return 0
	}
}

func soilPenalty(d DailyWeather) int {
	if d.SoilMoistureIndex > 0.6 {
		return 10
	}
	return 0
}

func dryFavorable(_ float64, rained bool) bool { return !rained }

// IsFavorable applies the activity's favorability rule to one historical
// year. Observed and synthetic years share this rule:
//
//	harvest, event  the date stayed dry (no rain over 5mm)
//	planting        precipitation strictly between 2mm and 30mm
//	anything else   precipitation under 15mm
func IsFavorable(a Activity, precipMM float64, rained bool) bool {
	return profileFor(a).favorable(precipMM, rained)
}
