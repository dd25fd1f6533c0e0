package wx

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fixed sentences that callers and the UI depend on byte-for-byte.
const (
	fallbackMETAR = "Unable to translate METAR."
	fallbackTAF   = "Unable to translate TAF."
	noTAF         = "No TAF available."
	windsCalm     = "Winds calm."
)

// numberPrinter renders cloud layer altitudes with thousands separators.
var numberPrinter = message.NewPrinter(language.English)

// TranslateMETAR renders a raw METAR as plain English: one sentence per
// recognized group, in fixed order (wind, visibility, weather phenomena,
// sky, temperature, altimeter), joined with single spaces. Absent groups
// are skipped; a report with no recognizable group at all yields the fixed
// fallback sentence.
func TranslateMETAR(report string) string {
	var sentences []string

	if w := extractWind(report); w != nil {
		sentences = append(sentences, windSentence(w, "Wind"))
	}
	if v := extractVisibility(report); v != nil {
		sentences = append(sentences, visibilitySentence(*v))
	}
	if s := weatherSentence(extractWeatherGroups(report)); s != "" {
		sentences = append(sentences, s)
	}
	if s := metarSkySentence(report); s != "" {
		sentences = append(sentences, s)
	}
	if t := extractTemperature(report); t != nil {
		sentences = append(sentences, fmt.Sprintf("Temperature %d°C, dewpoint %d°C.", t.tempC, t.dewpointC))
	}
	if a := extractAltimeter(report); a != nil {
		sentences = append(sentences, fmt.Sprintf("Altimeter %.2f inHg.", *a))
	}

	if len(sentences) == 0 {
		return fallbackMETAR
	}
	return strings.Join(sentences, " ")
}

// TranslateTAF renders a raw TAF as plain English: validity period,
// initial wind, initial visibility, first sky layer, then a change group
// summary. Blank input means no forecast exists for the station and
// short-circuits before any extraction.
func TranslateTAF(report string) string {
	if strings.TrimSpace(report) == "" {
		return noTAF
	}

	var sentences []string

	if v := extractValidity(report); v != nil {
		sentences = append(sentences, fmt.Sprintf(
			"Forecast valid day %s from %s:00Z to day %s %s:00Z.",
			v.fromDay, v.fromHour, v.toDay, v.toHour))
	}
	if w := extractWind(report); w != nil {
		sentences = append(sentences, windSentence(w, "Initial wind"))
	}
	if v := extractVisibility(report); v != nil {
		sentences = append(sentences, visibilitySentence(*v))
	}
	if s := tafSkySentence(report); s != "" {
		sentences = append(sentences, s)
	}
	if groups := extractChangeGroups(report); len(groups) > 0 {
		noun := "change groups"
		if len(groups) == 1 {
			noun = "change group"
		}
		sentences = append(sentences, fmt.Sprintf(
			"Contains %d %s (%s).", len(groups), noun, strings.Join(groups, ", ")))
	}

	if len(sentences) == 0 {
		return fallbackTAF
	}
	return strings.Join(sentences, " ")
}

// windSentence renders a wind group. Zero speed always reads "Winds calm."
// whatever the direction token said, including VRB00KT.
func windSentence(w *wind, label string) string {
	if w.speed == 0 {
		return windsCalm
	}
	dir := w.direction + "°"
	if w.direction == "VRB" {
		dir = "variable"
	}
	s := fmt.Sprintf("%s %s at %d knots", label, dir, w.speed)
	if w.gust != nil {
		s += fmt.Sprintf(", gusting %d knots", *w.gust)
	}
	return s + "."
}

// visibilitySentence renders a visibility reading: whole values as plain
// integers, fractional values with two decimals, singular unit at exactly
// one mile.
func visibilitySentence(miles float64) string {
	value := fmt.Sprintf("%.2f", miles)
	if miles == math.Trunc(miles) {
		value = fmt.Sprintf("%.0f", miles)
	}
	unit := "miles"
	if miles == 1 {
		unit = "mile"
	}
	return fmt.Sprintf("Visibility %s %s.", value, unit)
}

// weatherSentence renders all weather phenomena groups as one sentence,
// joined with commas, only the first word capitalized. Codes missing from
// the phenomena table render as their lowercase literal.
func weatherSentence(groups []wxGroup) string {
	if len(groups) == 0 {
		return ""
	}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		var words []string
		if g.intensity != "" {
			words = append(words, intensities[g.intensity])
		}
		for _, code := range g.codes {
			phrase, ok := phenomena[code]
			if !ok {
				phrase = strings.ToLower(code)
			}
			words = append(words, phrase)
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return capitalizeFirst(strings.Join(parts, ", ")) + "."
}

// layerPhrase renders one cloud layer, e.g. "broken clouds at 2,500 feet
// with cumulonimbus".
func layerPhrase(l skyLayer) string {
	phrase := fmt.Sprintf("%s at %s feet", skyCover[l.cover], numberPrinter.Sprintf("%d", l.altitudeFt))
	if t, ok := cloudTypes[l.cloudType]; ok {
		phrase += " with " + t
	}
	return phrase
}

// metarSkySentence renders every cloud layer in one sentence. With no
// layer present, CLR, SKC or CAVOK stand in as a sky clear pseudo-layer.
func metarSkySentence(report string) string {
	layers := extractSkyLayers(report)
	if len(layers) == 0 {
		if clearSkyRegex.MatchString(report) {
			return "Sky clear."
		}
		return ""
	}
	phrases := make([]string, 0, len(layers))
	for _, l := range layers {
		phrases = append(phrases, layerPhrase(l))
	}
	return capitalizeFirst(strings.Join(phrases, ", ")) + "."
}

// tafSkySentence renders only the earliest cloud layer. Forecasts report
// clear sky as SKC or CAVOK; CLR is a METAR-only code and is deliberately
// not recognized here.
func tafSkySentence(report string) string {
	layers := extractSkyLayers(report)
	if len(layers) > 0 {
		return capitalizeFirst(layerPhrase(layers[0])) + "."
	}
	if tafClearRegex.MatchString(report) {
		return "Sky clear."
	}
	return ""
}

func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
