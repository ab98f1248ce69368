package planner

import (
	"context"
	"fmt"
	"log"

	"github.com/cargoroute/cargoroute_core/internal/config"
	"github.com/cargoroute/cargoroute_core/internal/dataset"
	"github.com/cargoroute/cargoroute_core/internal/geocode"
	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
	"github.com/cargoroute/cargoroute_core/internal/roadrouter"
	"github.com/cargoroute/cargoroute_core/internal/routing"
)

// Request is one freight planning query
type Request struct {
	Source        string
	Destination   string
	CargoWeightKg float64
	GoodsType     models.GoodsType
	Priority      models.Priority
}

// Plan is the ranked answer to a Request
type Plan struct {
	Source        string                    `json:"source"`
	Destination   string                    `json:"destination"`
	CargoWeightKg float64                   `json:"cargo_weight_kg"`
	GoodsType     models.GoodsType          `json:"goods_type"`
	Priority      models.Priority           `json:"priority"`
	Options       []models.PlanOption       `json:"options"`
	Containers    []ContainerRecommendation `json:"containers,omitempty"`
}

// ContainerRecommendation pairs a transport mode of the best route with
// its container classification.
type ContainerRecommendation struct {
	Mode models.TransportMode `json:"mode"`
	dataset.ContainerAdvice
}

// Planner owns the datasets and upstream clients and answers planning
// requests. One Planner is safe for concurrent use; each request builds
// its own network graph.
type Planner struct {
	cfg        *config.Config
	geocoder   *geocode.Geocoder
	roads      *roadrouter.Client
	flights    []models.FlightRow
	shipping   []models.ShippingRow
	containers []models.ContainerSpec
}

// New loads the schedule tables and wires the upstream clients. Missing
// flight or shipping tables are fatal; the location and container tables
// degrade with a warning.
func New(cfg *config.Config) (*Planner, error) {
	flights, err := dataset.LoadFlights(cfg.FlightDataPath)
	if err != nil {
		return nil, fmt.Errorf("loading flight data: %w", err)
	}

	shipping, err := dataset.LoadShipping(cfg.ShippingDataPath)
	if err != nil {
		return nil, fmt.Errorf("loading shipping data: %w", err)
	}

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
	}

	var containers []models.ContainerSpec
	if containers, err = dataset.LoadContainers(cfg.ContainerDataPath); err != nil {
		log.Printf("Warning: could not load container data: %v", err)
		containers = nil
	}

	roads := roadrouter.NewClient(cfg.RoadBaseURL, cfg.RoadTimeout, roadrouter.CostModel{
		FuelPricePerLiter:  cfg.FuelPricePerLiter,
		VehicleMileageKmpl: cfg.VehicleMileageKmpl,
		DriverRatePerHour:  cfg.DriverRatePerHour,
		TollRatePerKm:      cfg.TollRatePerKm,
	})

	return &Planner{
		cfg:        cfg,
		geocoder:   geocoder,
		roads:      roads,
		flights:    flights,
		shipping:   shipping,
		containers: containers,
	}, nil
}

// Plan builds the transportation network for the request, enumerates and
// evaluates candidate routes, refines them through the two optimization
// stages, and returns the ranked options with container advice.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	g, err := network.NewBuilder(p.geocoder, p.roads, p.cfg.RoadWorkers, p.cfg.MaxRoadDistanceKm).
		Build(ctx, p.flights, p.shipping, req.Source, req.Destination)
	if err != nil {
		return nil, err
	}

	routes := routing.EnumerateRoutes(g, req.Source, req.Destination, p.cfg.MaxRoutes)
	log.Printf("Generated %d potential routes", len(routes))

	// Evaluate everything once; invalid routes drop out here
	var evaluated []routing.Candidate
	for _, route := range routes {
		eval := routing.EvaluateRoute(g, route, req.CargoWeightKg, req.GoodsType)
		if eval.Valid {
			evaluated = append(evaluated, routing.Candidate{Route: route, Eval: eval})
		}
	}

	// Infeasibility is an empty answer, not a failure
	if len(evaluated) == 0 {
		log.Printf("No viable routes between %s and %s", req.Source, req.Destination)
		return p.emptyPlan(req), nil
	}

	filtered := routing.PreFilter(evaluated, req.Priority)

	optimized := routing.OptimizeRoutes(g, filtered, req.CargoWeightKg, req.GoodsType)

	// Local search refinement on every optimizer survivor
	refined := make([]routing.Candidate, 0, len(optimized))
	for _, c := range optimized {
		route, eval := routing.TabuSearch(g, c.Route, req.CargoWeightKg, req.GoodsType, req.Priority)
		refined = append(refined, routing.Candidate{Route: route, Eval: eval})
	}

	options := routing.BuildResults(g, refined, evaluated, req.Priority)
	if len(options) == 0 {
		return p.emptyPlan(req), nil
	}

	return &Plan{
		Source:        req.Source,
		Destination:   req.Destination,
		CargoWeightKg: req.CargoWeightKg,
		GoodsType:     req.GoodsType,
		Priority:      req.Priority,
		Options:       options,
		Containers:    p.containerAdvice(options[0], req.CargoWeightKg),
	}, nil
}

// emptyPlan is the answer when no viable route exists
func (p *Planner) emptyPlan(req Request) *Plan {
	return &Plan{
		Source:        req.Source,
		Destination:   req.Destination,
		CargoWeightKg: req.CargoWeightKg,
		GoodsType:     req.GoodsType,
		Priority:      req.Priority,
		Options:       []models.PlanOption{},
	}
}

// containerAdvice classifies the cargo against the container table for
// each transport mode the top route uses.
func (p *Planner) containerAdvice(best models.PlanOption, weightKg float64) []ContainerRecommendation {
	if len(p.containers) == 0 {
		return nil
	}

	var recs []ContainerRecommendation
	for _, mode := range best.Data.Modes {
		if advice, ok := dataset.ClassifyContainer(p.containers, mode, weightKg); ok {
			recs = append(recs, ContainerRecommendation{Mode: mode, ContainerAdvice: advice})
		}
	}
	return recs
}

func validate(req Request) error {
	if req.Source == "" || req.Destination == "" {
		return fmt.Errorf("source and destination are required")
	}
	if req.Source == req.Destination {
		return fmt.Errorf("source and destination must differ")
	}
	if req.CargoWeightKg <= 0 {
		return fmt.Errorf("cargo weight must be positive, got %v", req.CargoWeightKg)
	}
	return nil
}
