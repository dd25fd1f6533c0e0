package wx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func TestExtractVisibility(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		expected *float64
	}{
		{"whole miles", "KBOS 251654Z 24008KT 10SM CLR 22/14 A3002", ptr.To(10.0)},
		{"single mile", "KBOS 251654Z 24008KT 1SM BR OVC005 12/11 A2992", ptr.To(1.0)},
		{"pure fraction", "KLGA 251651Z 04012KT 3/4SM -RA BKN008 14/13 A2975", ptr.To(0.75)},
		{"mixed number", "KEWR 251651Z 05010KT 2 1/2SM BR OVC010 15/14 A2978", ptr.To(2.5)},
		{"below minimum reads as zero", "KTEB 251651Z 00000KT M1/4SM FG OVC002 16/16 A2980", ptr.To(0.0)},
		{"no visibility group", "KPHX 251651Z 12005KT CLR 35/08 A2990", nil},
		{"metric visibility not recognized", "EGLL 251650Z 24010KT 9999 FEW030 18/12 Q1018", nil},
		{"plus prefixed form not recognized", "KMIA 251653Z 10008KT P6SM SCT025 29/24 A3008", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractVisibility(tt.report))
		})
	}
}

func TestExtractCeiling(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		expected *int
	}{
		{"single overcast layer", "KSEA 251653Z 19006KT 10SM OVC012 13/10 A3020", ptr.To(1200)},
		{"lowest of several layers wins", "KDEN 251653Z 09008KT 10SM SCT015 BKN025 OVC008 12/09 A3005", ptr.To(800)},
		{"few and scattered never count", "KLAX 251653Z 26007KT 10SM FEW008 SCT015 19/13 A2999", nil},
		{"convective suffix still counts", "KMCO 251653Z 14009KT 8SM BKN040CB 31/23 A3001", ptr.To(4000)},
		{"clear sky", "KPHX 251651Z 12005KT 10SM CLR 35/08 A2990", nil},
		{"no sky groups at all", "KJFK 251651Z 18014KT 10SM 22/14 A2992", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCeiling(tt.report))
		})
	}
}

func TestExtractWind(t *testing.T) {
	t.Run("steady wind", func(t *testing.T) {
		w := extractWind("KJFK 251651Z 18014KT 10SM CLR 22/14 A2992")
		require.NotNil(t, w)
		assert.Equal(t, "180", w.direction)
		assert.Equal(t, 14, w.speed)
		assert.Nil(t, w.gust)
	})

	t.Run("gusting wind", func(t *testing.T) {
		w := extractWind("KOKC 251652Z 35022G31KT 10SM SCT050 18/07 A2982")
		require.NotNil(t, w)
		assert.Equal(t, "350", w.direction)
		assert.Equal(t, 22, w.speed)
		require.NotNil(t, w.gust)
		assert.Equal(t, 31, *w.gust)
	})

	t.Run("variable direction", func(t *testing.T) {
		w := extractWind("KSAN 251651Z VRB03KT 10SM FEW020 21/15 A3000")
		require.NotNil(t, w)
		assert.Equal(t, "VRB", w.direction)
		assert.Equal(t, 3, w.speed)
	})

	t.Run("calm wind keeps zero speed", func(t *testing.T) {
		w := extractWind("KPHX 251651Z 00000KT 10SM CLR 35/08 A2990")
		require.NotNil(t, w)
		assert.Equal(t, 0, w.speed)
	})

	t.Run("three digit speed", func(t *testing.T) {
		w := extractWind("PHNL 251653Z 070105G120KT 1SM +RA OVC005 24/23 A2960")
		require.NotNil(t, w)
		assert.Equal(t, 105, w.speed)
		require.NotNil(t, w.gust)
		assert.Equal(t, 120, *w.gust)
	})

	t.Run("no wind group", func(t *testing.T) {
		assert.Nil(t, extractWind("KJFK 251651Z 10SM CLR 22/14 A2992"))
	})
}

func TestExtractSkyLayers(t *testing.T) {
	layers := extractSkyLayers("KMCO 251653Z 14009KT 8SM SCT025 BKN040CB OVC250 31/23 A3001")
	require.Len(t, layers, 3)
	assert.Equal(t, skyLayer{cover: "SCT", altitudeFt: 2500}, layers[0])
	assert.Equal(t, skyLayer{cover: "BKN", altitudeFt: 4000, cloudType: "CB"}, layers[1])
	assert.Equal(t, skyLayer{cover: "OVC", altitudeFt: 25000}, layers[2])

	assert.Empty(t, extractSkyLayers("KPHX 251651Z 12005KT 10SM CLR 35/08 A2990"))
}

func TestExtractTemperature(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		expected *temperature
	}{
		{"positive pair", "KJFK 251651Z 18014KT 10SM CLR 22/14 A2992", &temperature{tempC: 22, dewpointC: 14}},
		{"both below freezing", "KMSP 251653Z 33012KT 10SM BKN035 M03/M08 A3022", &temperature{tempC: -3, dewpointC: -8}},
		{"dewpoint only below freezing", "KDEN 251653Z 09008KT 10SM SCT100 05/M01 A3005", &temperature{tempC: 5, dewpointC: -1}},
		{"missing group", "KJFK 251651Z 18014KT 10SM CLR A2992", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTemperature(tt.report))
		})
	}
}

func TestExtractAltimeter(t *testing.T) {
	assert.Equal(t, ptr.To(29.92), extractAltimeter("KJFK 251651Z 18014KT 10SM CLR 22/14 A2992"))
	assert.Equal(t, ptr.To(30.11), extractAltimeter("KSEA 251653Z 19006KT 10SM OVC012 13/10 A3011"))
	assert.Nil(t, extractAltimeter("EGLL 251650Z 24010KT 9999 FEW030 18/12 Q1018"))
}

func TestExtractValidity(t *testing.T) {
	v := extractValidity("TAF KJFK 251720Z 2518/2618 18012KT P6SM SCT040")
	require.NotNil(t, v)
	assert.Equal(t, &validity{fromDay: "25", fromHour: "18", toDay: "26", toHour: "18"}, v)

	assert.Nil(t, extractValidity("KJFK 251651Z 18014KT 10SM CLR 22/14 A2992"))
}

func TestExtractChangeGroups(t *testing.T) {
	groups := extractChangeGroups("TAF KJFK 251720Z 2518/2618 18012KT P6SM SCT040 FM260000 20008KT BKN030 TEMPO 2606/2610 3SM -RA OVC015 BECMG 2612/2614 24006KT")
	assert.Equal(t, []string{"FM260000", "TEMPO", "BECMG"}, groups)

	assert.Empty(t, extractChangeGroups("TAF KPHX 251720Z 2518/2618 12005KT P6SM SKC"))
}

func TestExtractWeatherGroups(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		expected []wxGroup
	}{
		{
			"light rain",
			"KLGA 251651Z 04012KT 3/4SM -RA BKN008 14/13 A2975",
			[]wxGroup{{intensity: "-", codes: []string{"RA"}}},
		},
		{
			"combined thunderstorm and rain",
			"KMCO 251653Z 14009KT 2SM +TSRA BKN015CB 24/22 A2995",
			[]wxGroup{{intensity: "+", codes: []string{"TS", "RA"}}},
		},
		{
			"vicinity prefix",
			"KTUS 251653Z 27008KT 10SM VCTS SCT080 33/12 A3004",
			[]wxGroup{{intensity: "VC", codes: []string{"TS"}}},
		},
		{
			"descriptor consumed but not kept",
			"KBUF 251654Z 27015KT 1SM -SHSN OVC015 M02/M05 A2988",
			[]wxGroup{{intensity: "-", codes: []string{"SN"}}},
		},
		{
			"multiple separate groups",
			"KSFO 251656Z 28004KT 1/2SM RA BR OVC004 14/12 A3012",
			[]wxGroup{{codes: []string{"RA"}}, {codes: []string{"BR"}}},
		},
		{
			"station and remark tokens never match",
			"KRAT 251651Z 18014KT 10SM CLR 22/14 A2992 RMK AO2 SLP132",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractWeatherGroups(tt.report))
		})
	}
}
