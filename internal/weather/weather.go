// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package weather resolves a place name to coordinates and reads one hour
// of the Open-Meteo forecast for it.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/api-router/internal/httputil"
	"github.com/pdiddy/api-router/pkg/types"
)

// Base URLs for the Open-Meteo APIs. Declared as vars so tests can
// substitute an httptest server.
var (
	geocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	forecastURL = "https://api.open-meteo.com/v1/forecast"
)

const (
	dateLayout   = "2006-01-02"
	defaultHour  = "12"
	hourlyFields = "temperature_2m,relative_humidity_2m,windspeed_10m,weathercode"
)

// ErrLocationNotFound is returned when geocoding yields no match.
var ErrLocationNotFound = errors.New("location not found")

// Coordinates is a geocoded location.
type Coordinates struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
	Admin1    string  `json:"admin1,omitempty"`
}

// OpenMeteo reads hourly forecasts from Open-Meteo. No API key is needed.
type OpenMeteo struct {
	Client *http.Client
	Config types.WeatherConfig

	// now returns the current time; tests pin it.
	now func() time.Time
}

// NewOpenMeteo returns a client with the given config.
func NewOpenMeteo(client *http.Client, cfg types.WeatherConfig) *OpenMeteo {
	return &OpenMeteo{Client: client, Config: cfg, now: time.Now}
}

// Forecast returns temperature, conditions, humidity and wind speed for
// location at the given date (YYYY-MM-DD, empty for today) and hour (0-23,
// empty for the configured default). Only the part of location before the
// first comma is geocoded, so "Palo Alto, CA" searches for "Palo Alto".
func (o *OpenMeteo) Forecast(ctx context.Context, location, date, hour string) (types.WeatherReport, error) {
	hourIdx, err := o.parseHour(hour)
	if err != nil {
		return types.WeatherReport{}, err
	}
	date, err = o.normalizeDate(date)
	if err != nil {
		return types.WeatherReport{}, err
	}

	coords, err := o.Geocode(ctx, location)
	if err != nil {
		return types.WeatherReport{}, err
	}

	params := url.Values{
		"latitude":   {strconv.FormatFloat(coords.Latitude, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(coords.Longitude, 'f', -1, 64)},
		"hourly":     {hourlyFields},
		"timezone":   {"auto"},
		"start_date": {date},
		"end_date":   {date},
	}

	var fr forecastResponse
	if err := o.getJSON(ctx, forecastURL, params, "forecast", &fr); err != nil {
		return types.WeatherReport{}, err
	}

	h := fr.Hourly
	if hourIdx >= len(h.Temperature) || hourIdx >= len(h.Humidity) ||
		hourIdx >= len(h.WindSpeed) || hourIdx >= len(h.WeatherCode) {
		return types.WeatherReport{}, fmt.Errorf("no forecast data for %s hour %d", date, hourIdx)
	}

	temp, humidity, wind := h.Temperature[hourIdx], h.Humidity[hourIdx], h.WindSpeed[hourIdx]
	if temp == "" || humidity == "" || wind == "" {
		return types.WeatherReport{}, fmt.Errorf("forecast for %s hour %d has missing values", date, hourIdx)
	}

	description := "Unknown"
	if code, err := h.WeatherCode[hourIdx].Int64(); err == nil {
		description = Describe(int(code))
	}

	return types.WeatherReport{
		Temperature:        temp.String(),
		WeatherDescription: description,
		Humidity:           humidity.String(),
		WindSpeed:          wind.String() + " km/h",
	}, nil
}

// Geocode resolves the city part of location to coordinates.
func (o *OpenMeteo) Geocode(ctx context.Context, location string) (Coordinates, error) {
	name := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
	if name == "" {
		return Coordinates{}, fmt.Errorf("empty location")
	}

	params := url.Values{
		"name":     {name},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}

	var gr geocodeResponse
	if err := o.getJSON(ctx, geocodeURL, params, "geocoding", &gr); err != nil {
		return Coordinates{}, err
	}
	if len(gr.Results) == 0 {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrLocationNotFound, name)
	}
	return gr.Results[0], nil
}

func (o *OpenMeteo) getJSON(ctx context.Context, base string, params url.Values, what string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httputil.SetUserAgent(req, o.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, o.Client, req, 0)
	if err != nil {
		return fmt.Errorf("Open-Meteo %s request: %w", what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Open-Meteo %s returned HTTP %d", what, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing Open-Meteo %s response: %w", what, err)
	}
	return nil
}

// parseHour validates an hour string, falling back to the configured or
// built-in default.
func (o *OpenMeteo) parseHour(hour string) (int, error) {
	hour = strings.TrimSpace(hour)
	if hour == "" {
		hour = o.Config.DefaultHour
	}
	if hour == "" {
		hour = defaultHour
	}
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour %q: want 0-23", hour)
	}
	return h, nil
}

func (o *OpenMeteo) normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		now := time.Now
		if o.now != nil {
			now = o.now
		}
		return now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
	}
	return date, nil
}

// Open-Meteo JSON structures.
type geocodeResponse struct {
	Results []Coordinates `json:"results"`
}

type forecastResponse struct {
	Timezone string       `json:"timezone"`
	Hourly   hourlySeries `json:"hourly"`
}

type hourlySeries struct {
	Time        []string      `json:"time"`
	Temperature []json.Number `json:"temperature_2m"`
	Humidity    []json.Number `json:"relative_humidity_2m"`
	WindSpeed   []json.Number `json:"windspeed_10m"`
	WeatherCode []json.Number `json:"weathercode"`
}
