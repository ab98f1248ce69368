package main

import (
	"context"
	"log"

	"github.com/cargoroute/cargoroute_core/internal/config"
	"github.com/cargoroute/cargoroute_core/internal/dataset"
	"github.com/cargoroute/cargoroute_core/internal/geocode"
)

// Pre-resolves every hub named in the schedule tables into the
// persistent geocode cache. The upstream geocoder allows one request per
// second, so warming the cache ahead of time keeps request latency flat.
func main() {
	log.Println("CargoRoute - Geocode Cache Warm Tool")
	log.Println("====================================")

	cfg := config.Load()

	geocoder := geocode.New(geocode.Options{
		BaseURL:       cfg.GeocodeBaseURL,
		UserAgent:     cfg.GeocodeUserAgent,
		Timeout:       cfg.GeocodeTimeout,
		CachePath:     cfg.GeocodeCachePath,
		DefaultCoords: cfg.DefaultCoords,
	})

	if locations, err := dataset.LoadLocations(cfg.LocationDataPath); err != nil {
		log.Printf("Warning: could not load location data: %v", err)
	} else {
		geocoder.Seed(locations)
		log.Printf("Seeded %d locations from %s", len(locations), cfg.LocationDataPath)
	}

	names := make(map[string]bool)

	flights, err := dataset.LoadFlights(cfg.FlightDataPath)
	if err != nil {
		log.Fatalf("Failed to load flight data: %v", err)
	}
	for _, row := range flights {
		names[row.DepartureAirport] = true
		names[row.ArrivalAirport] = true
	}

	shipping, err := dataset.LoadShipping(cfg.ShippingDataPath)
	if err != nil {
		log.Fatalf("Failed to load shipping data: %v", err)
	}
	for _, row := range shipping {
		names[row.DeparturePort] = true
		names[row.ArrivalPort] = true
	}

	log.Printf("Resolving %d hub names...", len(names))

	ctx := context.Background()
	resolved, missed := 0, 0
	for name := range names {
		if _, _, found := geocoder.Resolve(ctx, name); found {
			resolved++
		} else {
			missed++
			log.Printf("Warning: could not resolve %q", name)
		}
	}

	log.Printf("Done: %d resolved, %d missed, cache at %s", resolved, missed, cfg.GeocodeCachePath)
}
