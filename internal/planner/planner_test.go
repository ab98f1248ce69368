package planner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cargoroute/cargoroute_core/internal/config"
	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestTables(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"flight_data.csv": `departure_airport,arrival_airport,cost,travel_time,distance_km
Delhi Airport,Mumbai Airport,5.0,2.0,1150
`,
		"shipping_data.csv": `departure_port,arrival_port,cost,travel_time
Mumbai Port,Chennai Port,2.0,3
`,
		"location_data.csv": `city,country,type,lat,lon,code
Delhi,India,city,28.7041,77.1025,
Mumbai,India,city,19.0760,72.8777,
Delhi Airport,India,airport,28.5562,77.1000,
Mumbai Airport,India,airport,19.0896,72.8679,
Mumbai Port,India,port,18.9517,72.8321,
Chennai Port,India,port,13.1000,80.3000,
`,
		"container_data.csv": `Transport Mode,Container Type,Weight Capacity (kg)
Road,Small Truck,5000
Road,Large Truck,20000
Air,LD3 Container,1588
Sea,20ft Container,28200
`,
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func testConfig(t *testing.T, geocodeURL, osrmURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeTestTables(t, dir)

	return &config.Config{
		FuelPricePerLiter:  100,
		VehicleMileageKmpl: 12,
		DriverRatePerHour:  150,
		TollRatePerKm:      1.5,

		GeocodeBaseURL:   geocodeURL,
		GeocodeUserAgent: "cargoroute-test",
		GeocodeTimeout:   2 * time.Second,
		RoadBaseURL:      osrmURL,
		RoadTimeout:      2 * time.Second,

		GeocodeCachePath: filepath.Join(dir, "geocode_cache.json"),
		DefaultCoords:    "77.1025,28.7041",

		RoadWorkers:       2,
		MaxRoadDistanceKm: 5000,
		MaxRoutes:         20,

		FlightDataPath:    filepath.Join(dir, "flight_data.csv"),
		ShippingDataPath:  filepath.Join(dir, "shipping_data.csv"),
		LocationDataPath:  filepath.Join(dir, "location_data.csv"),
		ContainerDataPath: filepath.Join(dir, "container_data.csv"),
	}
}

// stubServers fakes the geocoding and road routing upstreams. Every
// location resolves through the seeded table, so the geocode stub only
// guards against unexpected calls.
func stubServers(t *testing.T) (geocodeURL, osrmURL string) {
	t.Helper()

	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(geocode.Close)

	// 100 km in 2 hours for every road query
	osrm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"routes":[{"distance":100000,"duration":7200,"geometry":"stub"}]}`)
	}))
	t.Cleanup(osrm.Close)

	return geocode.URL, osrm.URL
}

func TestPlanEndToEnd(t *testing.T) {
	geocodeURL, osrmURL := stubServers(t)
	cfg := testConfig(t, geocodeURL, osrmURL)

	p, err := New(cfg)
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), Request{
		Source:        "Delhi",
		Destination:   "Mumbai",
		CargoWeightKg: 3000,
		GoodsType:     models.GoodsStandard,
		Priority:      models.PriorityBalanced,
	})
	require.NoError(t, err)
	require.Len(t, plan.Options, 3)

	// The direct road is the cheapest and fastest template here
	assert.Equal(t, models.Route{"Delhi", "Mumbai"}, plan.Options[0].Overview)

	for _, option := range plan.Options {
		require.True(t, option.Data.Valid)
		assert.Greater(t, option.Data.TotalCost, 0.0)
		assert.Greater(t, option.Data.TotalTime, 0.0)
		for _, leg := range option.Data.Legs {
			assert.Len(t, leg.Coordinates, 2)
		}
	}

	// 3000 kg on a road-only route fits the small truck
	require.Len(t, plan.Containers, 1)
	assert.Equal(t, models.ModeRoad, plan.Containers[0].Mode)
	assert.Equal(t, "Small Truck", plan.Containers[0].ContainerType)
	assert.False(t, plan.Containers[0].Exceeded)
}

func TestPlanPriorityOrdering(t *testing.T) {
	geocodeURL, osrmURL := stubServers(t)
	cfg := testConfig(t, geocodeURL, osrmURL)

	p, err := New(cfg)
	require.NoError(t, err)

	for _, priority := range []models.Priority{models.PriorityCost, models.PriorityTime, models.PriorityEco} {
		t.Run(string(priority), func(t *testing.T) {
			plan, err := p.Plan(context.Background(), Request{
				Source:        "Delhi",
				Destination:   "Mumbai",
				CargoWeightKg: 3000,
				GoodsType:     models.GoodsStandard,
				Priority:      priority,
			})
			require.NoError(t, err)

			for i := 1; i < len(plan.Options); i++ {
				prev, curr := plan.Options[i-1].Data, plan.Options[i].Data
				switch priority {
				case models.PriorityCost:
					assert.LessOrEqual(t, prev.TotalCost, curr.TotalCost)
				case models.PriorityTime:
					assert.LessOrEqual(t, prev.TotalTime, curr.TotalTime)
				case models.PriorityEco:
					assert.LessOrEqual(t, prev.TotalEmissions, curr.TotalEmissions)
				}
			}
		})
	}
}

func TestPlanValidation(t *testing.T) {
	geocodeURL, osrmURL := stubServers(t)
	cfg := testConfig(t, geocodeURL, osrmURL)

	p, err := New(cfg)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "Missing source", req: Request{Destination: "Mumbai", CargoWeightKg: 100}},
		{name: "Same endpoints", req: Request{Source: "Delhi", Destination: "Delhi", CargoWeightKg: 100}},
		{name: "Zero weight", req: Request{Source: "Delhi", Destination: "Mumbai"}},
		{name: "Negative weight", req: Request{Source: "Delhi", Destination: "Mumbai", CargoWeightKg: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestPlanNoViableRoutes(t *testing.T) {
	geocodeURL, osrmURL := stubServers(t)
	cfg := testConfig(t, geocodeURL, osrmURL)

	p, err := New(cfg)
	require.NoError(t, err)

	// The destination resolves to an unknown country, so no road is
	// feasible and no hub reaches it
	plan, err := p.Plan(context.Background(), Request{
		Source:        "Delhi",
		Destination:   "Ulaanbaatar Depot",
		CargoWeightKg: 3000,
		GoodsType:     models.GoodsStandard,
		Priority:      models.PriorityBalanced,
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Options)
	assert.Empty(t, plan.Containers)
	assert.Equal(t, "Delhi", plan.Source)
}

func TestNewMissingFlightData(t *testing.T) {
	geocodeURL, osrmURL := stubServers(t)
	cfg := testConfig(t, geocodeURL, osrmURL)
	cfg.FlightDataPath = filepath.Join(t.TempDir(), "absent.csv")

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flight data")
}

func TestPlanOverweightCargo(t *testing.T) {
	geocodeURL, osrmURL := stubServers(t)
	cfg := testConfig(t, geocodeURL, osrmURL)

	p, err := New(cfg)
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), Request{
		Source:        "Delhi",
		Destination:   "Mumbai",
		CargoWeightKg: 50000,
		GoodsType:     models.GoodsStandard,
		Priority:      models.PriorityCost,
	})
	require.NoError(t, err)
	require.NotEmpty(t, plan.Containers)

	// Nothing on the road fits 50 t; the largest truck is flagged
	road := plan.Containers[0]
	assert.Equal(t, "Large Truck", road.ContainerType)
	assert.True(t, road.Exceeded)
}
