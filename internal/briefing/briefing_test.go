package briefing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordandelaney/METAR-Vibe/internal/weather"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

type fakeProvider struct {
	prompt   string
	response string
	err      error
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func newTestService(t *testing.T, provider Provider) *Service {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return NewService(provider, log)
}

func testWeather() *weather.StationWeather {
	return &weather.StationWeather{
		Station:          "KSEA",
		RawMETAR:         "KSEA 231453Z 36005KT 2SM BR OVC007 12/11 A3010",
		RawTAF:           "TAF KSEA 231730Z 2318/2424 34006KT P6SM SCT250",
		FlightCategory:   "IFR",
		METARTranslation: "Wind 360° at 5 knots. Visibility 2 miles. Mist. Overcast at 700 feet.",
		TAFTranslation:   "Forecast valid day 23 from 18:00Z to day 24 24:00Z.",
	}
}

func TestBriefing_PromptCarriesDecodedWeather(t *testing.T) {
	provider := &fakeProvider{response: "  IFR conditions at KSEA with low clouds and mist.  "}
	svc := newTestService(t, provider)

	text, err := svc.Briefing(context.Background(), testWeather())
	require.NoError(t, err)

	// Provider output is trimmed
	assert.Equal(t, "IFR conditions at KSEA with low clouds and mist.", text)

	assert.Contains(t, provider.prompt, "Station: KSEA")
	assert.Contains(t, provider.prompt, "Flight category: IFR")
	assert.Contains(t, provider.prompt, "Overcast at 700 feet.")
	assert.Contains(t, provider.prompt, "Raw METAR: KSEA 231453Z")
	assert.Contains(t, provider.prompt, "Raw TAF: TAF KSEA")
}

func TestBriefing_OmitsMissingTAF(t *testing.T) {
	provider := &fakeProvider{response: "VFR all day."}
	svc := newTestService(t, provider)

	data := testWeather()
	data.RawTAF = ""
	data.TAFTranslation = "No TAF available."

	_, err := svc.Briefing(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, provider.prompt, "Forecast: No TAF available.")
	assert.NotContains(t, provider.prompt, "Raw TAF:")
}

func TestBriefing_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model unavailable")}
	svc := newTestService(t, provider)

	_, err := svc.Briefing(context.Background(), testWeather())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate briefing for KSEA")
	assert.Contains(t, err.Error(), "model unavailable")
}
