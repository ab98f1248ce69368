package dataset

import (
	"strings"
	"testing"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlights(t *testing.T) {
	csv := `departure_airport,arrival_airport,cost,travel_time,distance_km
Delhi Airport,Dubai Airport,4.5,3.5,2200
Dubai Airport,JFK Airport,6.0,14.0,
JFK Airport,Delhi Airport,notanumber,12.0,7000
,Dubai Airport,4.0,2.0,1500
`

	flights, err := parseFlightsFromReader(strings.NewReader(csv))
	require.NoError(t, err)

	// The bad-cost and missing-departure rows are skipped
	require.Len(t, flights, 2)

	assert.Equal(t, "Delhi Airport", flights[0].DepartureAirport)
	assert.Equal(t, "Dubai Airport", flights[0].ArrivalAirport)
	assert.Equal(t, 4.5, flights[0].CostPerKg)
	assert.Equal(t, 3.5, flights[0].TimeHr)
	assert.Equal(t, 2200.0, flights[0].DistanceKm)

	// Missing optional distance parses as zero
	assert.Equal(t, 0.0, flights[1].DistanceKm)
}

func TestParseFlightsColumnOrder(t *testing.T) {
	// Columns resolved by name, not position
	csv := `travel_time,cost,arrival_airport,departure_airport
2.0,3.0,B,A
`

	flights, err := parseFlightsFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, flights, 1)

	assert.Equal(t, "A", flights[0].DepartureAirport)
	assert.Equal(t, "B", flights[0].ArrivalAirport)
	assert.Equal(t, 3.0, flights[0].CostPerKg)
	assert.Equal(t, 2.0, flights[0].TimeHr)
}

func TestParseShipping(t *testing.T) {
	csv := `departure_port,arrival_port,cost,travel_time
Mumbai Port,Port of Shanghai,1.2,12
Port of Shanghai,Port of Houston,2.0,notanumber
`

	lanes, err := parseShippingFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lanes, 1)

	assert.Equal(t, "Mumbai Port", lanes[0].DeparturePort)
	assert.Equal(t, "Port of Shanghai", lanes[0].ArrivalPort)
	assert.Equal(t, 1.2, lanes[0].CostPerKg)
	assert.Equal(t, 12.0, lanes[0].TimeDays)
}

func TestParseLocations(t *testing.T) {
	csv := `city,country,type,lat,lon,code
Delhi,India,city,28.7041,77.1025,
Delhi Airport,India,airport,28.5562,77.1000,DEL
Nowhere,India,city,,77.0,
`

	locations, err := parseLocationsFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, locations, 2)

	assert.Equal(t, "Delhi", locations[0].City)
	assert.Equal(t, "India", locations[0].Country)
	assert.Equal(t, 28.7041, locations[0].Lat)
	assert.Equal(t, 77.1025, locations[0].Lon)
	assert.Equal(t, "DEL", locations[1].Code)
}

func TestParseContainers(t *testing.T) {
	csv := `Transport Mode,Container Type,Weight Capacity (kg)
Road,Small Truck,5000
Air,LD3 Container,1588
Sea,20ft Container,28200
`

	specs, err := parseContainersFromReader(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, specs, 3)

	// Mode is normalized to lowercase
	assert.Equal(t, models.ModeRoad, specs[0].Mode)
	assert.Equal(t, "Small Truck", specs[0].ContainerType)
	assert.Equal(t, 5000.0, specs[0].CapacityKg)
	assert.Equal(t, models.ModeSea, specs[2].Mode)
}

func TestLoadFlightsMissingFile(t *testing.T) {
	_, err := LoadFlights("does/not/exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadShippingMissingFile(t *testing.T) {
	_, err := LoadShipping("does/not/exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
