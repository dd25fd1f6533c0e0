package briefing

import (
	"bytes"
	"text/template"

	"github.com/jordandelaney/METAR-Vibe/internal/weather"
)

// promptTemplate is the instruction sheet sent to the model. The decoded
// translations do the heavy lifting; the model only has to phrase them for
// a pilot, never to decode raw reports itself.
const promptTemplate = `You are an aviation weather briefer. Using only the decoded conditions below, give a pilot a short plain-language briefing for {{.Station}} in two or three sentences. Lead with the flight category and mention anything operationally significant. Do not invent values that are not listed.

Station: {{.Station}}
Flight category: {{.FlightCategory}}
Current conditions: {{.METARTranslation}}
Forecast: {{.TAFTranslation}}
Raw METAR: {{.RawMETAR}}
{{- if .RawTAF}}
Raw TAF: {{.RawTAF}}
{{- end}}
`

var promptTmpl = template.Must(template.New("briefing").Parse(promptTemplate))

// buildPrompt renders the briefing prompt for one station
func buildPrompt(data *weather.StationWeather) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
