package domain

import "time"

// LatitudeBand partitions latitudes for every climate lookup.
type LatitudeBand int

const (
	BandSouthern LatitudeBand = iota // lat < 20
	BandCentral                      // 20 <= lat < 25
	BandNorthern                     // lat >= 25
)

// BandFor returns the band containing lat.
func BandFor(lat float64) LatitudeBand {
	switch {
	case lat < 20:
		return BandSouthern
	case lat < 25:
		return BandCentral
	default:
		return BandNorthern
	}
}

func (b LatitudeBand) String() string {
	switch b {
	case BandSouthern:
		return "southern"
	case BandCentral:
		return "central"
	default:
		return "northern"
	}
}

// Season is the planning season of a month.
type Season int

const (
	SeasonOther Season = iota
	SeasonMonsoon
	SeasonWinter
	SeasonSummer
)

// SeasonFor classifies a month: monsoon 6–9, winter 11–2, summer 3–5.
// October falls in none of them.
func SeasonFor(m time.Month) Season {
	switch m {
	case time.June, time.July, time.August, time.September:
		return SeasonMonsoon
	case time.November, time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSummer
	default:
		return SeasonOther
	}
}

// forecastClimate holds the short-range base parameters for a band.
type forecastClimate struct {
	BaseTemp       float64
	RainLikelihood float64
}

var forecastClimates = map[LatitudeBand]forecastClimate{
	BandSouthern: {BaseTemp: 30, RainLikelihood: 0.3},
	BandCentral:  {BaseTemp: 25, RainLikelihood: 0.5},
	BandNorthern: {BaseTemp: 20, RainLikelihood: 0.7},
}

// seasonalClimate holds the historical base parameters for a band and season.
type seasonalClimate struct {
	RainBaseProbability float64
	BaseTemp            float64
}

var seasonalClimates = map[LatitudeBand]map[Season]seasonalClimate{
	BandSouthern: {
		SeasonMonsoon: {0.6, 28},
		SeasonWinter:  {0.2, 25},
		SeasonSummer:  {0.2, 32},
		SeasonOther:   {0.2, 25},
	},
	BandCentral: {
		SeasonMonsoon: {0.7, 26},
		SeasonWinter:  {0.3, 20},
		SeasonSummer:  {0.15, 30},
		SeasonOther:   {0.15, 20},
	},
	BandNorthern: {
		SeasonMonsoon: {0.5, 24},
		SeasonWinter:  {0.4, 15},
		SeasonSummer:  {0.1, 28},
		SeasonOther:   {0.1, 15},
	},
}

// SeasonalClimateFor returns the historical base rain probability and
// temperature for a latitude in a given month.
func SeasonalClimateFor(lat float64, m time.Month) (rainBase, baseTemp float64) {
	c := seasonalClimates[BandFor(lat)][SeasonFor(m)]
	return c.RainBaseProbability, c.BaseTemp
}

// extremeThresholds are the per-band cutoffs for the extreme event analyzer.
type extremeThresholds struct {
	HeatC         float64
	ExtremeRainMM float64
	HeatwaveC     float64
}

var extremeThresholdsByBand = map[LatitudeBand]extremeThresholds{
	BandSouthern: {HeatC: 38, ExtremeRainMM: 80, HeatwaveC: 36},
	BandCentral:  {HeatC: 40, ExtremeRainMM: 70, HeatwaveC: 38},
	BandNorthern: {HeatC: 35, ExtremeRainMM: 60, HeatwaveC: 32},
}
