package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"golang.org/x/time/rate"
)

// builtinPortCoords covers major seaports whose names the upstream
// geocoder resolves poorly or not at all.
var builtinPortCoords = map[string]string{
	"Port of Houston":        "-95.297241,29.614658",
	"Port of Seattle-Tacoma": "-122.3375,47.5703",
	"Port of Jebel Ali":      "55.0272904,25.0013084",
	"Mumbai Port":            "72.8321,18.9517",
	"Port of Shanghai":       "121.677966,31.230416",
}

// Geocoder resolves free-form location strings to coordinates and a
// country, with in-memory, persistent-file, and built-in fallback tiers.
// Upstream lookups are serialized through a process-wide 1 req/s gate.
type Geocoder struct {
	baseURL       string
	userAgent     string
	defaultCoords string
	client        *http.Client
	limiter       *rate.Limiter
	fileCache     *FileCache

	mu        sync.Mutex
	coords    map[string]string
	countries map[string]string
}

// Options configures a Geocoder
type Options struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	CachePath     string
	DefaultCoords string
}

// New creates a Geocoder. The persistent cache is optional: a load
// failure logs a warning and the geocoder continues memory-only.
func New(opts Options) *Geocoder {
	g := &Geocoder{
		baseURL:       opts.BaseURL,
		userAgent:     opts.UserAgent,
		defaultCoords: opts.DefaultCoords,
		client:        &http.Client{Timeout: opts.Timeout},
		limiter:       rate.NewLimiter(rate.Every(time.Second), 1),
		coords:        make(map[string]string),
		countries:     make(map[string]string),
	}

	if opts.CachePath != "" {
		g.fileCache = NewFileCache(opts.CachePath)
		entries, err := g.fileCache.Load()
		if err != nil {
			log.Printf("Warning: could not load geocode cache: %v", err)
		} else {
			for name, entry := range entries {
				g.coords[name] = entry.Coords
				g.countries[name] = entry.Country
			}
		}
	}

	return g
}

// Seed pre-populates the in-memory tier from the location database table,
// keyed by code when present and city name otherwise.
func (g *Geocoder) Seed(rows []models.LocationRow) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, row := range rows {
		key := row.Code
		if key == "" {
			key = row.City
		}
		g.coords[key] = fmt.Sprintf("%v,%v", row.Lon, row.Lat)
		g.countries[key] = row.Country
	}
}

// Resolve returns the "lon,lat" coordinates and country for a location.
// found is false when every tier missed; callers treat that as degraded,
// not an error.
func (g *Geocoder) Resolve(ctx context.Context, location string) (coords, country string, found bool) {
	// Inputs that already look like "lon,lat" pass through verbatim
	if isCoordinateLiteral(location) {
		return location, "Unknown", true
	}

	g.mu.Lock()
	if c, ok := g.coords[location]; ok {
		country := g.countries[location]
		g.mu.Unlock()
		if country == "" {
			country = "Unknown"
		}
		return c, country, true
	}
	g.mu.Unlock()

	// Builtin coordinates short-circuit only the position; the country
	// still comes from the upstream tier. A failed country lookup is not
	// cached, so a later call retries it.
	if c, ok := builtinPortCoords[location]; ok {
		_, country, err := g.lookup(ctx, location)
		if err != nil {
			log.Printf("Warning: resolving country for %q failed: %v", location, err)
			return c, "Unknown", true
		}
		g.remember(location, c, country)
		if g.fileCache != nil {
			if err := g.fileCache.Put(location, CacheEntry{Coords: c, Country: country}); err != nil {
				log.Printf("Warning: could not save geocode cache: %v", err)
			}
		}
		return c, country, true
	}

	coords, country, err := g.lookup(ctx, location)
	if err != nil {
		log.Printf("Warning: geocoding %q failed: %v", location, err)
		return "", "", false
	}

	g.remember(location, coords, country)
	if g.fileCache != nil {
		if err := g.fileCache.Put(location, CacheEntry{Coords: coords, Country: country}); err != nil {
			log.Printf("Warning: could not save geocode cache: %v", err)
		}
	}

	return coords, country, true
}

// Coords resolves a location to coordinates, substituting the configured
// default when every tier misses.
func (g *Geocoder) Coords(ctx context.Context, location string) string {
	coords, _, found := g.Resolve(ctx, location)
	if !found {
		log.Printf("Warning: using default coordinates for %q", location)
		return g.defaultCoords
	}
	return coords
}

// Country resolves a location to its country, "Unknown" when unresolvable
func (g *Geocoder) Country(ctx context.Context, location string) string {
	_, country, found := g.Resolve(ctx, location)
	if !found || country == "" {
		return "Unknown"
	}
	return country
}

// remember updates the in-memory tier. Concurrent writers may race on the
// same key; the value written is always equivalent, so last-write-wins is
// acceptable.
func (g *Geocoder) remember(location, coords, country string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.coords[location] = coords
	g.countries[location] = country
}

// nominatimResult mirrors the upstream search payload; lat/lon arrive as
// strings.
type nominatimResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		Country string `json:"country"`
	} `json:"address"`
}

// lookup performs the upstream HTTP request behind the rate gate
func (g *Geocoder) lookup(ctx context.Context, location string) (coords, country string, err error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("rate gate: %w", err)
	}

	reqURL := fmt.Sprintf("%s?q=%s&format=json&limit=1&addressdetails=1",
		g.baseURL, url.QueryEscape(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return "", "", fmt.Errorf("malformed payload: %w", err)
	}
	if len(results) == 0 {
		return "", "", fmt.Errorf("location not found")
	}

	country = results[0].Address.Country
	if country == "" {
		country = "Unknown"
	}

	return fmt.Sprintf("%s,%s", results[0].Lon, results[0].Lat), country, nil
}

// isCoordinateLiteral reports whether the input is already a
// "<number>,<number>" pair.
func isCoordinateLiteral(s string) bool {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err != nil {
			return false
		}
	}
	return true
}

// SplitCoords parses a "lon,lat" pair into floats
func SplitCoords(coords string) (lon, lat float64, err error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed coordinates %q", coords)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in %q: %w", coords, err)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in %q: %w", coords, err)
	}
	return lon, lat, nil
}
