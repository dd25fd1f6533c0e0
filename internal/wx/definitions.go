// Package wx interprets raw METAR and TAF reports. It extracts individual
// coded groups, derives the FAA flight category, and renders plain-English
// translations. All functions are pure: no I/O, no shared state.
package wx

import "regexp"

// FlightCategory is one of the four FAA flight categories, ordered from
// best (VFR) to worst (LIFR) weather.
type FlightCategory string

const (
	VFR  FlightCategory = "VFR"
	MVFR FlightCategory = "MVFR"
	IFR  FlightCategory = "IFR"
	LIFR FlightCategory = "LIFR"
)

// Classification is the result of classifying a METAR: the derived flight
// category plus the readings it was derived from. Nil readings mean the
// group was absent from the report, which is not the same as zero.
type Classification struct {
	Category     FlightCategory `json:"category"`
	VisibilitySM *float64       `json:"visibility_sm"`
	CeilingFt    *int           `json:"ceiling_ft"`
}

// Phenomenon code to phrase mapping (ICAO abbreviations). Codes matched by
// the group regex but missing here render as their lowercase literal.
var phenomena = map[string]string{
	"RA": "rain",
	"SN": "snow",
	"DZ": "drizzle",
	"TS": "thunderstorm",
	"FG": "fog",
	"BR": "mist",
	"HZ": "haze",
	"SQ": "squalls",
	"GR": "hail",
	"GS": "snow pellets",
	"UP": "unknown precipitation",
	"FU": "smoke",
	"SA": "sand",
	"DU": "dust",
}

// Intensity prefix to phrase mapping
var intensities = map[string]string{
	"-":  "light",
	"+":  "heavy",
	"VC": "in the vicinity",
}

// Sky cover code to phrase mapping
var skyCover = map[string]string{
	"FEW": "few clouds",
	"SCT": "scattered clouds",
	"BKN": "broken clouds",
	"OVC": "overcast",
}

// Convective cloud type suffix to phrase mapping
var cloudTypes = map[string]string{
	"CB":  "cumulonimbus",
	"TCU": "towering cumulus",
}

var (
	windRegex        = regexp.MustCompile(`\b(VRB|\d{3})(\d{2,3})(?:G(\d{2,3}))?KT\b`)
	visBelowMinRegex = regexp.MustCompile(`\bM(\d+)/(\d+)SM\b`)
	visMixedRegex    = regexp.MustCompile(`\b(\d+) (\d+)/(\d+)SM\b`)
	visFractionRegex = regexp.MustCompile(`\b(\d+)/(\d+)SM\b`)
	visWholeRegex    = regexp.MustCompile(`\b(\d+)SM\b`)
	skyLayerRegex    = regexp.MustCompile(`\b(FEW|SCT|BKN|OVC)(\d{3})(CB|TCU)?\b`)
	ceilingRegex     = regexp.MustCompile(`\b(?:BKN|OVC)(\d{3})`)
	clearSkyRegex    = regexp.MustCompile(`\b(CLR|SKC|CAVOK)\b`)
	tafClearRegex    = regexp.MustCompile(`\b(SKC|CAVOK)\b`)
	tempRegex        = regexp.MustCompile(`\b(M?)(\d{2})/(M?)(\d{2})\b`)
	altimeterRegex   = regexp.MustCompile(`\bA(\d{4})\b`)
	validityRegex    = regexp.MustCompile(`\b(\d{2})(\d{2})/(\d{2})(\d{2})\b`)
	changeGroupRegex = regexp.MustCompile(`\b(TEMPO|BECMG|FM\d{6})\b`)
	// Weather groups are matched per whitespace token because the leading
	// +/- intensity sign defeats a word-boundary scan over the whole string.
	wxGroupRegex = regexp.MustCompile(`^(\+|-|VC)?(SH|FZ|MI|BC|DR|BL|PR)?((?:RA|SN|DZ|TS|FG|BR|HZ|SQ|GR|GS|UP|FU|SA|DU|PL|IC|PO|DS|SS|VA|FC)+)$`)
)
