package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries every tunable the planning core depends on.
// Defaults match the documented economic constants; any field can be
// overridden through CARGOROUTE_* environment variables
// (e.g. CARGOROUTE_ROAD_FUEL_PRICE_PER_LITER).
type Config struct {
	// Road cost model
	FuelPricePerLiter  float64
	VehicleMileageKmpl float64
	DriverRatePerHour  float64
	TollRatePerKm      float64

	// Upstream services
	GeocodeBaseURL   string
	GeocodeUserAgent string
	GeocodeTimeout   time.Duration
	RoadBaseURL      string
	RoadTimeout      time.Duration

	// Geocoder behavior
	GeocodeCachePath string
	DefaultCoords    string

	// Network construction
	RoadWorkers       int
	MaxRoadDistanceKm float64
	MaxRoutes         int

	// Dataset tables
	FlightDataPath    string
	ShippingDataPath  string
	LocationDataPath  string
	ContainerDataPath string

	// Plan persistence and caching (optional; empty disables)
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	// HTTP server
	ListenAddr string
}

// Load builds a Config from defaults plus environment overrides
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("cargoroute")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("road.fuel_price_per_liter", 100.0)
	v.SetDefault("road.vehicle_mileage_kmpl", 12.0)
	v.SetDefault("road.driver_rate_per_hour", 150.0)
	v.SetDefault("road.toll_rate_per_km", 1.5)

	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.user_agent", "CargoRouteCore/1.0")
	v.SetDefault("geocode.timeout", "10s")
	v.SetDefault("geocode.cache_path", "geocode_cache.json")
	v.SetDefault("geocode.default_coords", "77.1025,28.7041")

	v.SetDefault("roadrouter.base_url", "http://router.project-osrm.org/route/v1/driving")
	v.SetDefault("roadrouter.timeout", "10s")

	v.SetDefault("network.road_workers", 5)
	v.SetDefault("network.max_road_distance_km", 5000.0)
	v.SetDefault("network.max_routes", 20)

	v.SetDefault("data.flights", "data/flight_data.csv")
	v.SetDefault("data.shipping", "data/shipping_data.csv")
	v.SetDefault("data.locations", "data/location_data.csv")
	v.SetDefault("data.containers", "data/container_data.csv")

	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("server.listen_addr", ":8000")

	return &Config{
		FuelPricePerLiter:  v.GetFloat64("road.fuel_price_per_liter"),
		VehicleMileageKmpl: v.GetFloat64("road.vehicle_mileage_kmpl"),
		DriverRatePerHour:  v.GetFloat64("road.driver_rate_per_hour"),
		TollRatePerKm:      v.GetFloat64("road.toll_rate_per_km"),

		GeocodeBaseURL:   v.GetString("geocode.base_url"),
		GeocodeUserAgent: v.GetString("geocode.user_agent"),
		GeocodeTimeout:   v.GetDuration("geocode.timeout"),
		RoadBaseURL:      v.GetString("roadrouter.base_url"),
		RoadTimeout:      v.GetDuration("roadrouter.timeout"),

		GeocodeCachePath: v.GetString("geocode.cache_path"),
		DefaultCoords:    v.GetString("geocode.default_coords"),

		RoadWorkers:       v.GetInt("network.road_workers"),
		MaxRoadDistanceKm: v.GetFloat64("network.max_road_distance_km"),
		MaxRoutes:         v.GetInt("network.max_routes"),

		FlightDataPath:    v.GetString("data.flights"),
		ShippingDataPath:  v.GetString("data.shipping"),
		LocationDataPath:  v.GetString("data.locations"),
		ContainerDataPath: v.GetString("data.containers"),

		DatabaseURL:   v.GetString("database.url"),
		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		CacheTTL:      v.GetDuration("cache.ttl"),

		ListenAddr: v.GetString("server.listen_addr"),
	}
}
