// Package domain is the statistical analysis and risk-scoring engine behind
// the weather risk service.
//
// # Determinism
//
// Nothing here is a physical weather model. Forecasts and 20-year histories
// are pseudo-random approximations layered over latitude/season heuristics,
// and every draw comes from a [Sampler] seeded by a canonical token list
// (coordinates, month, day, year, ...). The same inputs always produce the
// same outputs, so repeated queries for one location behave as if backed by
// a stable dataset without storing anything. Each logical context (one
// forecast, one historical month, one extreme-event year) builds its own
// stream from scratch; no draw counter leaks between contexts.
//
// # Latitude bands
//
// Three bands drive every climate lookup:
//
//	southern  lat < 20
//	central   20 <= lat < 25
//	northern  lat >= 25
//
// Seasons follow the Indian subcontinent calendar the thresholds were tuned
// for: monsoon June–September, winter November–February, summer March–May.
// The extreme-event analyzer uses its own narrower monsoon window
// (July–September) for wind risk.
//
// # Risk scores
//
// Short-range risk is an integer penalty accumulated over the first three
// forecast days and clamped to 0–100:
//
//	harvest/event  +20 per day >10mm, else +10 if probability >50%
//	               harvest also +10 per day with soil moisture >0.6
//	planting       +15 per day <2mm, +10 per day >20mm
//	spraying       +15 per day probability >30%, +15 per day wind >8 m/s
//
// Bands: <30 go, 30–59 monitor, >=60 stop/delay.
//
// # Historical analysis
//
// The historical record set always covers 2004–2023. Observed years from
// the real-data provider (2014–2023, accepted only when at least five came
// back) replace the synthetic record for the same year. Favorability uses a
// single activity rule for both observed and synthetic years; see
// [IsFavorable].
package domain
