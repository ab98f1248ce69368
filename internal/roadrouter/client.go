package roadrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// RoadRoute is the outcome of one road routing query. Success is false
// when the upstream had no route or the call failed; callers degrade by
// not adding the road edge.
type RoadRoute struct {
	Success    bool
	DistanceKm float64
	TimeHr     float64
	FuelCost   float64
	TollCost   float64
	DriverWage float64
	TotalCost  float64
	Geometry   string // encoded polyline, passed through opaquely
}

// CostModel holds the economic constants the road cost derivation uses
type CostModel struct {
	FuelPricePerLiter  float64
	VehicleMileageKmpl float64
	DriverRatePerHour  float64
	TollRatePerKm      float64
}

// Client queries an OSRM-compatible routing service for road legs
type Client struct {
	baseURL string
	client  *http.Client
	costs   CostModel
}

// NewClient creates a road routing client
func NewClient(baseURL string, timeout time.Duration, costs CostModel) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		costs:   costs,
	}
}

// osrmResponse mirrors the subset of the routing payload we consume
type osrmResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry string  `json:"geometry"` // encoded polyline
	} `json:"routes"`
}

// Route queries the road route between two "lon,lat" coordinate pairs
// and derives the cost breakdown from the configured economics.
func (c *Client) Route(ctx context.Context, fromCoords, toCoords string) RoadRoute {
	reqURL := fmt.Sprintf("%s/%s;%s?overview=full", c.baseURL, fromCoords, toCoords)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Printf("Warning: building road route request failed: %v", err)
		return RoadRoute{}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Warning: road route query failed: %v", err)
		return RoadRoute{}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Warning: reading road route response failed: %v", err)
		return RoadRoute{}
	}

	var payload osrmResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("Warning: malformed road route response: %v", err)
		return RoadRoute{}
	}

	if len(payload.Routes) == 0 {
		log.Printf("No road route found between %s and %s", fromCoords, toCoords)
		return RoadRoute{}
	}

	distanceKm := payload.Routes[0].Distance / 1000
	timeHr := payload.Routes[0].Duration / 3600

	fuelCost := (distanceKm / c.costs.VehicleMileageKmpl) * c.costs.FuelPricePerLiter
	tollCost := distanceKm * c.costs.TollRatePerKm
	driverWage := timeHr * c.costs.DriverRatePerHour

	return RoadRoute{
		Success:    true,
		DistanceKm: distanceKm,
		TimeHr:     timeHr,
		FuelCost:   fuelCost,
		TollCost:   tollCost,
		DriverWage: driverWage,
		TotalCost:  fuelCost + tollCost + driverWage,
		Geometry:   payload.Routes[0].Geometry,
	}
}
