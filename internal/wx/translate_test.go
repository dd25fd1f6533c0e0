package wx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateMETAR(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		expected string
	}{
		{
			"full report with gusts and layered sky",
			"KJFK 251651Z 18014G22KT 10SM -RA BKN018 OVC025 18/12 A2992 RMK AO2 SLP132",
			"Wind 180° at 14 knots, gusting 22 knots. Visibility 10 miles. Light rain. Broken clouds at 1,800 feet, overcast at 2,500 feet. Temperature 18°C, dewpoint 12°C. Altimeter 29.92 inHg.",
		},
		{
			"calm wind from 00000KT",
			"KPHX 251651Z 00000KT 10SM CLR 35/08 A2990",
			"Winds calm. Visibility 10 miles. Sky clear. Temperature 35°C, dewpoint 8°C. Altimeter 29.90 inHg.",
		},
		{
			"calm wind from VRB00KT with mixed visibility",
			"KSAN 251651Z VRB00KT 2 1/2SM BR FEW020 21/15 A3000",
			"Winds calm. Visibility 2.50 miles. Mist. Few clouds at 2,000 feet. Temperature 21°C, dewpoint 15°C. Altimeter 30.00 inHg.",
		},
		{
			"exactly one mile is singular",
			"KBOS 251654Z 24008KT 1SM BR OVC005 12/11 A2992",
			"Wind 240° at 8 knots. Visibility 1 mile. Mist. Overcast at 500 feet. Temperature 12°C, dewpoint 11°C. Altimeter 29.92 inHg.",
		},
		{
			"below minimum visibility renders as zero",
			"KTEB 251651Z 00000KT M1/4SM FG OVC002 16/16 A2980",
			"Winds calm. Visibility 0 miles. Fog. Overcast at 200 feet. Temperature 16°C, dewpoint 16°C. Altimeter 29.80 inHg.",
		},
		{
			"variable wind",
			"KSAN 251651Z VRB03KT 10SM FEW020 21/15 A3000",
			"Wind variable at 3 knots. Visibility 10 miles. Few clouds at 2,000 feet. Temperature 21°C, dewpoint 15°C. Altimeter 30.00 inHg.",
		},
		{
			"convective cloud suffixes",
			"KMCO 251653Z 14009G18KT 8SM SCT025TCU BKN040CB 31/23 A3001",
			"Wind 140° at 9 knots, gusting 18 knots. Visibility 8 miles. Scattered clouds at 2,500 feet with towering cumulus, broken clouds at 4,000 feet with cumulonimbus. Temperature 31°C, dewpoint 23°C. Altimeter 30.01 inHg.",
		},
		{
			"multiple weather groups capitalize only the first",
			"KSFO 251656Z 28004KT 1/2SM RA BR OVC004 14/12 A3012",
			"Wind 280° at 4 knots. Visibility 0.50 miles. Rain, mist. Overcast at 400 feet. Temperature 14°C, dewpoint 12°C. Altimeter 30.12 inHg.",
		},
		{
			"freezing temperatures",
			"KMSP 251653Z 33012KT 10SM BKN035 M03/M08 A3022",
			"Wind 330° at 12 knots. Visibility 10 miles. Broken clouds at 3,500 feet. Temperature -3°C, dewpoint -8°C. Altimeter 30.22 inHg.",
		},
		{
			"missing sky group omits the sky sentence",
			"KJFK 251651Z 18014KT 10SM 22/14 A2992",
			"Wind 180° at 14 knots. Visibility 10 miles. Temperature 22°C, dewpoint 14°C. Altimeter 29.92 inHg.",
		},
		{
			"code outside the phrase table keeps its lowercase literal",
			"KSLC 251653Z 13009KT 6SM -PL SCT080 M01/M04 A3009",
			"Wind 130° at 9 knots. Visibility 6 miles. Light pl. Scattered clouds at 8,000 feet. Temperature -1°C, dewpoint -4°C. Altimeter 30.09 inHg.",
		},
		{
			"nothing recognizable",
			"COMPLETE GIBBERISH",
			"Unable to translate METAR.",
		},
		{
			"empty report",
			"",
			"Unable to translate METAR.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TranslateMETAR(tt.report))
		})
	}
}

func TestTranslateTAF(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		expected string
	}{
		{
			"empty input means no forecast",
			"",
			"No TAF available.",
		},
		{
			"blank input means no forecast",
			"   ",
			"No TAF available.",
		},
		{
			"full forecast renders only the first sky layer",
			"TAF KJFK 251720Z 2518/2618 18012KT P6SM SCT040 FM260000 20008KT BKN030 TEMPO 2606/2610 3SM -RA OVC015",
			"Forecast valid day 25 from 18:00Z to day 26 18:00Z. Initial wind 180° at 12 knots. Visibility 3 miles. Scattered clouds at 4,000 feet. Contains 2 change groups (FM260000, TEMPO).",
		},
		{
			"single change group is singular",
			"TAF KSEA 251720Z 2518/2618 19008KT 4SM -RA OVC020 TEMPO 2518/2522 2SM RA",
			"Forecast valid day 25 from 18:00Z to day 26 18:00Z. Initial wind 190° at 8 knots. Visibility 4 miles. Overcast at 2,000 feet. Contains 1 change group (TEMPO).",
		},
		{
			"SKC reads as sky clear",
			"TAF KPHX 251720Z 2518/2618 12005KT P6SM SKC",
			"Forecast valid day 25 from 18:00Z to day 26 18:00Z. Initial wind 120° at 5 knots. Sky clear.",
		},
		{
			"CAVOK reads as sky clear",
			"TAF EGLL 251700Z 2518/2618 24010KT CAVOK",
			"Forecast valid day 25 from 18:00Z to day 26 18:00Z. Initial wind 240° at 10 knots. Sky clear.",
		},
		{
			"CLR is not a forecast code",
			"TAF KPHX 251720Z 2518/2618 12005KT P6SM CLR",
			"Forecast valid day 25 from 18:00Z to day 26 18:00Z. Initial wind 120° at 5 knots.",
		},
		{
			"calm initial wind",
			"TAF KABQ 251720Z 2518/2618 00000KT P6SM FEW100",
			"Forecast valid day 25 from 18:00Z to day 26 18:00Z. Winds calm. Few clouds at 10,000 feet.",
		},
		{
			"nothing recognizable",
			"NIL",
			"Unable to translate TAF.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TranslateTAF(tt.report))
		})
	}
}
