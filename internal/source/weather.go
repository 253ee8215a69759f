package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"personachat/internal/models"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

var weatherKeywords = map[string]struct{}{
	"weather":     {},
	"temperature": {},
	"forecast":    {},
	"climate":     {},
}

// Weather answers weather questions through OpenWeatherMap. It sits at the
// head of the chain and misses for any term that does not name a location
// after a weather keyword, so ordinary questions fall through to the general
// sources.
type Weather struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewWeather builds the source; it requires an API key and accepts an empty
// baseURL for the public API.
func NewWeather(baseURL, apiKey string, client *http.Client) *Weather {
	if baseURL == "" {
		baseURL = defaultWeatherBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Weather{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (w *Weather) Name() string { return "OpenWeatherMap" }

type weatherReport struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

// Fetch extracts the location that follows a weather keyword and queries the
// current-conditions endpoint for it.
func (w *Weather) Fetch(ctx context.Context, term string) (*models.Snippet, error) {
	location := extractLocation(term)
	if location == "" {
		return nil, fmt.Errorf("no location in %q", term)
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")
	endpoint := w.baseURL + "/weather?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PersonaChat/1.0 (reference lookup)")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather status %d", resp.StatusCode)
	}

	var report weatherReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode weather: %w", err)
	}
	if len(report.Weather) == 0 {
		return nil, fmt.Errorf("no conditions for %q", location)
	}

	place := report.Name
	if place == "" {
		place = titleCase(location)
	}
	content := fmt.Sprintf("The weather in %s is %s with a temperature of %.1f°C and humidity of %d%%.",
		place, report.Weather[0].Description, report.Main.Temp, report.Main.Humidity)

	return &models.Snippet{
		Title:       "Weather in " + place,
		Content:     content,
		SourceName:  w.Name(),
		URL:         fmt.Sprintf("https://openweathermap.org/city/%d", report.ID),
		RetrievedAt: time.Now().UTC(),
	}, nil
}

// extractLocation returns the words following the first weather keyword,
// skipping filler prepositions; empty when the term has no weather keyword or
// nothing after it.
func extractLocation(term string) string {
	words := strings.Fields(strings.ToLower(term))
	start := -1
	for i, word := range words {
		if _, ok := weatherKeywords[word]; ok {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(words) {
		return ""
	}

	var parts []string
	for _, word := range words[start:] {
		switch word {
		case "in", "at", "for", "the", "like":
			continue
		}
		parts = append(parts, strings.Trim(word, "?!.,"))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
