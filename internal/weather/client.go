// README: OpenWeather current-conditions client with a short-lived in-process cache.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var ErrNotConfigured = errors.New("weather: api key not configured")

// Conditions is the subset of the current weather used for trip planning.
type Conditions struct {
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Temperature int     `json:"temperature"`
	FeelsLike   int     `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
}

// Summary renders c as one line for the planner context.
func (c Conditions) Summary() string {
	return fmt.Sprintf("%s, %s: %d°C (feels like %d°C), %s, humidity %d%%, wind %.1f m/s",
		c.Location, c.Country, c.Temperature, c.FeelsLike, c.Description, c.Humidity, c.WindSpeed)
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
}

func NewClient(apiKey, baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
	}
}

type owmResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current returns current conditions for location, served from cache when fresh.
func (c *Client) Current(ctx context.Context, location string) (Conditions, error) {
	if c.apiKey == "" {
		return Conditions{}, ErrNotConfigured
	}
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return Conditions{}, errors.New("weather: empty location")
	}
	if v, ok := c.cache.Get(key); ok {
		return v.(Conditions), nil
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Conditions{}, fmt.Errorf("weather: api status %d for %q", resp.StatusCode, location)
	}

	var raw owmResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return Conditions{}, fmt.Errorf("weather: unmarshal response: %w", err)
	}

	out := Conditions{
		Location:    raw.Name,
		Country:     raw.Sys.Country,
		Temperature: int(math.Round(raw.Main.Temp)),
		FeelsLike:   int(math.Round(raw.Main.FeelsLike)),
		Humidity:    raw.Main.Humidity,
		WindSpeed:   math.Round(raw.Wind.Speed*10) / 10,
	}
	if len(raw.Weather) > 0 {
		out.Description = raw.Weather[0].Description
	}
	c.cache.SetDefault(key, out)
	return out, nil
}
