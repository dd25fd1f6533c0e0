package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/jordandelaney/METAR-Vibe/internal/config"
	"github.com/jordandelaney/METAR-Vibe/internal/observability"
	"github.com/jordandelaney/METAR-Vibe/internal/station"
	"github.com/jordandelaney/METAR-Vibe/internal/weather"
	"github.com/jordandelaney/METAR-Vibe/internal/wx"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

// Color definitions using fatih/color
var (
	labelColor   = color.New(color.FgCyan)
	sectionColor = color.New(color.FgMagenta)

	categoryColors = map[wx.FlightCategory]*color.Color{
		wx.VFR:  color.New(color.FgGreen, color.Bold),
		wx.MVFR: color.New(color.FgBlue, color.Bold),
		wx.IFR:  color.New(color.FgRed, color.Bold),
		wx.LIFR: color.New(color.FgMagenta, color.Bold),
	}
)

func main() {
	// Define command-line flags
	rawOnly := flag.Bool("raw", false, "Show only raw reports without decoding")
	noTAF := flag.Bool("no-taf", false, "Skip the TAF forecast")
	flagNoColor := flag.Bool("no-color", false, "Disable color output")
	jsonOut := flag.Bool("json", false, "Emit the decoded weather as JSON")
	timeout := flag.Int("timeout", 10, "Upstream request timeout in seconds")
	flag.Parse()

	if *flagNoColor {
		color.NoColor = true // disables colorized output globally
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: metar [flags] <station>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	stationID, err := station.Normalize(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := fetchStationWeather(stationID, *timeout, *noTAF)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	printWeather(data, *rawOnly, *noTAF)
}

// fetchStationWeather pulls both reports straight from the upstream API and
// decodes them the same way the server does. A failed TAF fetch degrades to
// a METAR-only result.
func fetchStationWeather(stationID string, timeoutSecs int, noTAF bool) (*weather.StationWeather, error) {
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	if err != nil {
		return nil, err
	}

	cfg := config.Default().Weather
	cfg.RequestTimeoutSeconds = timeoutSecs

	client := weather.NewClient(cfg, observability.NewUnregisteredMetrics(), log)
	ctx := context.Background()

	rawMETAR, err := client.FetchMETAR(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch METAR for %s: %w", stationID, err)
	}
	if rawMETAR == "" {
		return nil, fmt.Errorf("no METAR found for %s", stationID)
	}

	var rawTAF string
	if !noTAF {
		rawTAF, err = client.FetchTAF(ctx, stationID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not fetch TAF for %s: %v\n", stationID, err)
			rawTAF = ""
		}
	}

	cls := wx.Classify(rawMETAR)
	now := time.Now().UTC()

	return &weather.StationWeather{
		Station:          stationID,
		RawMETAR:         rawMETAR,
		RawTAF:           rawTAF,
		FlightCategory:   string(cls.Category),
		VisibilitySM:     cls.VisibilitySM,
		CeilingFt:        cls.CeilingFt,
		METARTranslation: wx.TranslateMETAR(rawMETAR),
		TAFTranslation:   wx.TranslateTAF(rawTAF),
		FetchedAt:        now,
		Age:              humanize.RelTime(now, now, "ago", "from now"),
	}, nil
}

// printWeather writes the colored terminal report
func printWeather(data *weather.StationWeather, rawOnly bool, noTAF bool) {
	sectionColor.Println("----- Raw METAR -----")
	fmt.Println(data.RawMETAR)

	if !rawOnly {
		fmt.Println()
		sectionColor.Println("--- Decoded METAR ---")
		fmt.Println(data.METARTranslation)

		fmt.Println()
		labelColor.Print("Flight category: ")
		catColor := categoryColors[wx.FlightCategory(data.FlightCategory)]
		if catColor == nil {
			catColor = color.New(color.FgWhite)
		}
		catColor.Println(data.FlightCategory)
	}

	if noTAF {
		return
	}

	fmt.Println()
	sectionColor.Println("------ Raw TAF ------")
	if data.RawTAF != "" {
		fmt.Println(data.RawTAF)
	} else {
		fmt.Println("No TAF available.")
	}

	if !rawOnly && data.RawTAF != "" {
		fmt.Println()
		sectionColor.Println("---- Decoded TAF ----")
		fmt.Println(data.TAFTranslation)
	}
}
