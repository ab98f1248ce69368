package models

import "strings"

// TransportMode is the kind of carriage a leg uses
type TransportMode string

const (
	ModeRoad TransportMode = "road"
	ModeAir  TransportMode = "air"
	ModeSea  TransportMode = "sea"
)

// LocationType classifies a node in the transportation network
type LocationType string

const (
	TypeCity    LocationType = "city"
	TypeAirport LocationType = "airport"
	TypePort    LocationType = "port"
)

// GoodsType is the cargo classification carried through costing
type GoodsType string

const (
	GoodsStandard   GoodsType = "standard"
	GoodsPerishable GoodsType = "perishable"
	GoodsHazardous  GoodsType = "hazardous"
	GoodsFragile    GoodsType = "fragile"
	GoodsOversized  GoodsType = "oversized"
	GoodsHighValue  GoodsType = "high_value"
)

// goodsTypeMultiplier maps cargo classes to their cost multipliers
var goodsTypeMultiplier = map[GoodsType]float64{
	GoodsPerishable: 1.30,
	GoodsHazardous:  1.40,
	GoodsFragile:    1.20,
	GoodsOversized:  1.50,
	GoodsHighValue:  1.15,
	GoodsStandard:   1.00,
}

// Multiplier returns the cost multiplier for the goods type.
// Unknown types behave as standard cargo (multiplier 1.0).
func (g GoodsType) Multiplier() float64 {
	if m, ok := goodsTypeMultiplier[g]; ok {
		return m
	}
	return 1.0
}

// ParseGoodsType maps the numeric goods choice (1..6) to a GoodsType.
// Anything out of range maps to standard.
func ParseGoodsType(choice int) GoodsType {
	switch choice {
	case 2:
		return GoodsPerishable
	case 3:
		return GoodsHazardous
	case 4:
		return GoodsFragile
	case 5:
		return GoodsOversized
	case 6:
		return GoodsHighValue
	default:
		return GoodsStandard
	}
}

// Priority selects the optimization objective for ranking
type Priority string

const (
	PriorityCost     Priority = "cost"
	PriorityTime     Priority = "time"
	PriorityEco      Priority = "eco"
	PriorityBalanced Priority = "balanced"
)

// ParsePriority normalizes a priority string; unknown values fall back to balanced
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityCost:
		return PriorityCost
	case PriorityTime:
		return PriorityTime
	case PriorityEco:
		return PriorityEco
	default:
		return PriorityBalanced
	}
}

// Location is a node in the transportation network.
// Coords holds "lon,lat" (the road router's native ordering).
type Location struct {
	Name    string       `json:"name"`
	Country string       `json:"country"`
	Coords  string       `json:"coords"`
	Type    LocationType `json:"type"`
}

// Edge is a directed connection between two locations.
// TimeHr is always populated. The remaining fields depend on the mode:
// air/sea edges carry CostPerKg and an optional DistanceKm (0 = unknown),
// road edges carry the full cost breakdown and an encoded polyline.
type Edge struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Mode TransportMode `json:"mode"`

	TimeHr     float64 `json:"time_hr"`
	DistanceKm float64 `json:"distance_km,omitempty"`

	// air / sea
	CostPerKg float64 `json:"cost_per_kg,omitempty"`

	// road
	FuelCost   float64 `json:"fuel_cost,omitempty"`
	TollCost   float64 `json:"toll_cost,omitempty"`
	DriverWage float64 `json:"driver_wage,omitempty"`
	TotalCost  float64 `json:"total_cost,omitempty"`
	Geometry   string  `json:"geometry,omitempty"`
}

// Route is an ordered sequence of location names, source first,
// destination last.
type Route []string

// Key returns the canonical identity of a route, used for deduplication
// and tabu bookkeeping.
func (r Route) Key() string {
	return strings.Join(r, "→")
}

// Equal reports whether two routes visit the same nodes in the same order
func (r Route) Equal(other Route) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the route
func (r Route) Clone() Route {
	out := make(Route, len(r))
	copy(out, r)
	return out
}

// LatLon is a (latitude, longitude) pair for presentation.
// Note the ordering flip relative to Location.Coords.
type LatLon [2]float64

// LegEval is the evaluated breakdown of a single leg
type LegEval struct {
	Start        string        `json:"start"`
	End          string        `json:"end"`
	Mode         TransportMode `json:"mode"`
	DistanceKm   float64       `json:"distance_km"`
	TimeHr       float64       `json:"time_hr"`
	BaseCost     float64       `json:"base_cost"`
	Multiplier   float64       `json:"goods_type_multiplier"`
	AdjustedCost float64       `json:"adjusted_cost"`
	GoodsImpact  float64       `json:"goods_impact"`
	CustomsCost  float64       `json:"customs_cost"`
	TotalCost    float64       `json:"total_segment_cost"`
	Emissions    float64       `json:"co2_emissions"`
	Geometry     string        `json:"geometry,omitempty"`
	Coordinates  []LatLon      `json:"coordinates,omitempty"`
}

// RouteEval aggregates leg evaluations into route totals
type RouteEval struct {
	Valid          bool            `json:"valid"`
	TotalCost      float64         `json:"total_cost"`
	TotalTime      float64         `json:"total_time"`
	TotalDistance  float64         `json:"total_distance"`
	TotalEmissions float64         `json:"total_emissions"`
	GoodsType      GoodsType       `json:"goods_type"`
	GoodsTypeScore float64         `json:"goods_type_score"`
	Legs           []LegEval       `json:"segments"`
	Modes          []TransportMode `json:"modes"`
}

// PlanOption is one ranked route returned to the caller
type PlanOption struct {
	Overview Route     `json:"overview"`
	Data     RouteEval `json:"data"`
}

// FlightRow is one row of the flight schedule table.
// DistanceKm is 0 when the source table omits the optional column.
type FlightRow struct {
	DepartureAirport string
	ArrivalAirport   string
	CostPerKg        float64
	TimeHr           float64
	DistanceKm       float64
}

// ShippingRow is one row of the shipping lane table (travel time in days)
type ShippingRow struct {
	DeparturePort string
	ArrivalPort   string
	CostPerKg     float64
	TimeDays      float64
}

// LocationRow is one row of the location database table
type LocationRow struct {
	City    string
	Country string
	Type    string
	Lat     float64
	Lon     float64
	Code    string
}

// ContainerSpec is one row of the container capacity table
type ContainerSpec struct {
	Mode          TransportMode
	ContainerType string
	CapacityKg    float64
}
