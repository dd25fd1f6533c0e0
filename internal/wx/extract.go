package wx

import (
	"strconv"
	"strings"
)

// wind is a decoded wind group. A nil gust means none was reported.
type wind struct {
	direction string // "VRB" or the literal 3-digit heading
	speed     int
	gust      *int
}

// skyLayer is a decoded cloud layer group.
type skyLayer struct {
	cover      string // FEW, SCT, BKN or OVC
	altitudeFt int
	cloudType  string // "", CB or TCU
}

// temperature is a decoded temperature/dewpoint group in whole °C.
type temperature struct {
	tempC     int
	dewpointC int
}

// validity is a decoded TAF validity period. Day and hour are kept as the
// literal 2-digit strings from the report.
type validity struct {
	fromDay  string
	fromHour string
	toDay    string
	toHour   string
}

// wxGroup is a decoded weather phenomena group: an optional intensity
// prefix plus one or more 2-letter phenomenon codes.
type wxGroup struct {
	intensity string
	codes     []string
}

// extractVisibility pulls the prevailing visibility in statute miles out of
// a report. The four surface forms are tried in priority order; the first
// matching form wins. Nil means no form matched, which must never be
// conflated with zero visibility.
func extractVisibility(report string) *float64 {
	// Below-minimum fraction (M1/4SM) reads as zero for classification.
	if visBelowMinRegex.MatchString(report) {
		v := 0.0
		return &v
	}
	if m := visMixedRegex.FindStringSubmatch(report); m != nil {
		whole, _ := strconv.Atoi(m[1])
		num, _ := strconv.Atoi(m[2])
		den, _ := strconv.Atoi(m[3])
		if den != 0 {
			v := float64(whole) + float64(num)/float64(den)
			return &v
		}
	}
	if m := visFractionRegex.FindStringSubmatch(report); m != nil {
		num, _ := strconv.Atoi(m[1])
		den, _ := strconv.Atoi(m[2])
		if den != 0 {
			v := float64(num) / float64(den)
			return &v
		}
	}
	if m := visWholeRegex.FindStringSubmatch(report); m != nil {
		n, _ := strconv.Atoi(m[1])
		v := float64(n)
		return &v
	}
	return nil
}

// extractCeiling returns the lowest BKN or OVC layer in feet AGL, or nil
// when the report has no such layer. FEW and SCT layers never count.
func extractCeiling(report string) *int {
	matches := ceilingRegex.FindAllStringSubmatch(report, -1)
	if len(matches) == 0 {
		return nil
	}
	var lowest int
	for i, m := range matches {
		hundreds, _ := strconv.Atoi(m[1])
		ft := hundreds * 100
		if i == 0 || ft < lowest {
			lowest = ft
		}
	}
	return &lowest
}

// extractWind returns the first wind group in the report, or nil.
func extractWind(report string) *wind {
	m := windRegex.FindStringSubmatch(report)
	if m == nil {
		return nil
	}
	w := &wind{direction: m[1]}
	w.speed, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		g, _ := strconv.Atoi(m[3])
		w.gust = &g
	}
	return w
}

// extractSkyLayers returns all cloud layer groups in report order.
func extractSkyLayers(report string) []skyLayer {
	var layers []skyLayer
	for _, m := range skyLayerRegex.FindAllStringSubmatch(report, -1) {
		hundreds, _ := strconv.Atoi(m[2])
		layers = append(layers, skyLayer{
			cover:      m[1],
			altitudeFt: hundreds * 100,
			cloudType:  m[3],
		})
	}
	return layers
}

// extractTemperature returns the temperature/dewpoint group, or nil. A
// leading M on either value denotes negative Celsius.
func extractTemperature(report string) *temperature {
	m := tempRegex.FindStringSubmatch(report)
	if m == nil {
		return nil
	}
	t := &temperature{}
	t.tempC, _ = strconv.Atoi(m[2])
	if m[1] == "M" {
		t.tempC = -t.tempC
	}
	t.dewpointC, _ = strconv.Atoi(m[4])
	if m[3] == "M" {
		t.dewpointC = -t.dewpointC
	}
	return t
}

// extractAltimeter returns the altimeter setting in inches of mercury, or
// nil. The coded group is hundredths of an inch.
func extractAltimeter(report string) *float64 {
	m := altimeterRegex.FindStringSubmatch(report)
	if m == nil {
		return nil
	}
	hundredths, _ := strconv.Atoi(m[1])
	inHg := float64(hundredths) / 100
	return &inHg
}

// extractValidity returns the first TAF validity period, or nil.
func extractValidity(report string) *validity {
	m := validityRegex.FindStringSubmatch(report)
	if m == nil {
		return nil
	}
	return &validity{fromDay: m[1], fromHour: m[2], toDay: m[3], toHour: m[4]}
}

// extractChangeGroups returns the literal TEMPO/BECMG/FM tokens in order.
func extractChangeGroups(report string) []string {
	return changeGroupRegex.FindAllString(report, -1)
}

// extractWeatherGroups returns all weather phenomena groups in report
// order. The descriptor slot (SH, FZ, ...) is consumed so tokens like
// -SHRA decode, but only intensity and phenomenon codes are kept.
func extractWeatherGroups(report string) []wxGroup {
	var groups []wxGroup
	for _, token := range strings.Fields(report) {
		m := wxGroupRegex.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		g := wxGroup{intensity: m[1]}
		for i := 0; i < len(m[3]); i += 2 {
			g.codes = append(g.codes, m[3][i:i+2])
		}
		groups = append(groups, g)
	}
	return groups
}
