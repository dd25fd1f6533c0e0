package wx

// Classify extracts ceiling and visibility from a raw METAR and derives
// the flight category from them. The readings used are returned alongside
// the category so callers can display them.
func Classify(report string) Classification {
	visibility := extractVisibility(report)
	ceiling := extractCeiling(report)
	return Classification{
		Category:     categorize(ceiling, visibility),
		VisibilitySM: visibility,
		CeilingFt:    ceiling,
	}
}

// categorize maps ceiling and visibility to a flight category using the
// FAA thresholds:
//   - LIFR: ceiling below 500 ft or visibility below 1 SM
//   - IFR: ceiling below 1000 ft or visibility below 3 SM
//   - MVFR: ceiling at or below 3000 ft or visibility at or below 5 SM
//   - VFR: everything else, including reports with neither reading
//
// Rules are checked worst-first and either metric alone can qualify, so a
// favorable reading on one never offsets an unfavorable one on the other.
// MVFR is inclusive at its boundaries (exactly 3000 ft or exactly 5 SM is
// MVFR, not VFR) while LIFR and IFR use strict comparisons.
func categorize(ceilingFt *int, visibilitySM *float64) FlightCategory {
	switch {
	case (ceilingFt != nil && *ceilingFt < 500) || (visibilitySM != nil && *visibilitySM < 1):
		return LIFR
	case (ceilingFt != nil && *ceilingFt < 1000) || (visibilitySM != nil && *visibilitySM < 3):
		return IFR
	case (ceilingFt != nil && *ceilingFt <= 3000) || (visibilitySM != nil && *visibilitySM <= 5):
		return MVFR
	default:
		return VFR
	}
}
