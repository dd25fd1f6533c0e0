package weather

import (
	"time"
)

// StationWeather is the complete decoded picture for one station: the raw
// reports, the flight category with the readings that produced it, and the
// plain-language translations.
type StationWeather struct {
	Station          string    `json:"station"`
	RawMETAR         string    `json:"raw_metar,omitempty"`
	RawTAF           string    `json:"raw_taf,omitempty"`
	FlightCategory   string    `json:"flight_category"`
	VisibilitySM     *float64  `json:"visibility_sm"`
	CeilingFt        *int      `json:"ceiling_ft"`
	METARTranslation string    `json:"metar_translation"`
	TAFTranslation   string    `json:"taf_translation"`
	FetchedAt        time.Time `json:"fetched_at"`
	Age              string    `json:"age,omitempty"`
}

// SearchRecorder records successful lookups into the search history.
type SearchRecorder interface {
	RecordSearch(stationID, flightCategory string, searchedAt time.Time) error
}

// Broadcaster pushes refreshed station weather to connected clients.
type Broadcaster interface {
	BroadcastWeather(data *StationWeather)
}
