package routing

import (
	"log"
	"math"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/network"
)

// CO₂ factors in kg CO₂ per kg-km (road: medium truck, air: average
// freighter, sea: container ship)
const (
	co2FactorRoad = 0.1053
	co2FactorAir  = 0.5015
	co2FactorSea  = 0.0251
)

// Fallback cruise speeds used to estimate distance when the schedule
// table omits it (km/h)
const (
	airCruiseSpeedKmh = 800
	seaCruiseSpeedKmh = 40
)

// Customs surcharge rates on air and sea legs
const (
	customsRateDefault   = 0.05
	customsRateSensitive = 0.08 // hazardous and high-value cargo
)

// emissionsTonnes computes leg emissions in tonnes of CO₂
func emissionsTonnes(mode models.TransportMode, distanceKm, weightKg float64) float64 {
	var factor float64
	switch mode {
	case models.ModeRoad:
		factor = co2FactorRoad
	case models.ModeAir:
		factor = co2FactorAir
	case models.ModeSea:
		factor = co2FactorSea
	}
	return distanceKm * weightKg * factor / 1000
}

// EvaluateRoute computes the per-leg cost, time, distance, and emissions
// breakdown for a candidate route, then aggregates route totals.
// TotalDistance accumulates road legs only; air and sea distances feed
// emissions but not the route distance.
//
// A route with a missing edge is returned invalid with infinite cost and
// time so it sorts behind every real candidate.
func EvaluateRoute(g *network.Graph, route models.Route, cargoWeightKg float64, goodsType models.GoodsType) models.RouteEval {
	eval := models.RouteEval{
		Valid:     true,
		GoodsType: goodsType,
	}

	multiplier := goodsType.Multiplier()

	for i := 0; i < len(route)-1; i++ {
		start, end := route[i], route[i+1]

		edge, ok := g.Edge(start, end)
		if !ok {
			log.Printf("Warning: no edge between %s and %s", start, end)
			return models.RouteEval{
				Valid:     false,
				TotalCost: math.Inf(1),
				TotalTime: math.Inf(1),
				GoodsType: goodsType,
			}
		}

		var baseCost, distance float64
		var geometry string

		switch edge.Mode {
		case models.ModeRoad:
			baseCost = edge.TotalCost
			distance = edge.DistanceKm
			geometry = edge.Geometry
		case models.ModeAir:
			baseCost = edge.CostPerKg * cargoWeightKg
			distance = edge.DistanceKm
			if distance == 0 {
				distance = edge.TimeHr * airCruiseSpeedKmh
			}
		case models.ModeSea:
			baseCost = edge.CostPerKg * cargoWeightKg
			distance = edge.DistanceKm
			if distance == 0 {
				distance = edge.TimeHr * seaCruiseSpeedKmh
			}
		}

		adjustedCost := baseCost * multiplier

		var goodsImpact float64
		switch goodsType {
		case models.GoodsPerishable:
			goodsImpact = baseCost * 0.30
		case models.GoodsHazardous:
			goodsImpact = baseCost * 0.20
		case models.GoodsFragile:
			goodsImpact = baseCost * 0.10
		}

		var customsCost float64
		if edge.Mode == models.ModeAir || edge.Mode == models.ModeSea {
			rate := customsRateDefault
			if goodsType == models.GoodsHazardous || goodsType == models.GoodsHighValue {
				rate = customsRateSensitive
			}
			customsCost = baseCost * rate
		}

		emissions := emissionsTonnes(edge.Mode, distance, cargoWeightKg)
		legTotal := adjustedCost + goodsImpact + customsCost

		eval.Legs = append(eval.Legs, models.LegEval{
			Start:        start,
			End:          end,
			Mode:         edge.Mode,
			DistanceKm:   distance,
			TimeHr:       edge.TimeHr,
			BaseCost:     baseCost,
			Multiplier:   multiplier,
			AdjustedCost: adjustedCost,
			GoodsImpact:  goodsImpact,
			CustomsCost:  customsCost,
			TotalCost:    legTotal,
			Emissions:    emissions,
			Geometry:     geometry,
		})

		eval.TotalCost += legTotal
		eval.TotalTime += edge.TimeHr
		eval.TotalEmissions += emissions
		if edge.Mode == models.ModeRoad {
			eval.TotalDistance += distance
		}

		if !containsMode(eval.Modes, edge.Mode) {
			eval.Modes = append(eval.Modes, edge.Mode)
		}
	}

	if goodsType != models.GoodsStandard {
		eval.GoodsTypeScore = multiplier * math.Sqrt(eval.TotalTime) * 10
	}

	return eval
}

func containsMode(modes []models.TransportMode, mode models.TransportMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
