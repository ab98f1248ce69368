package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cargoroute/cargoroute_core/internal/models"
)

// LoadFlights parses the flight schedule table.
// Required columns: departure_airport, arrival_airport, cost, travel_time.
// Optional: distance_km.
func LoadFlights(filePath string) ([]models.FlightRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("flight data file %s not found: %w", filePath, err)
	}
	defer file.Close()

	return parseFlightsFromReader(file)
}

func parseFlightsFromReader(reader io.Reader) ([]models.FlightRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := makeColumnMap(header)
	var flights []models.FlightRow

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed flight row: %v", err)
			continue
		}

		dep := getField(record, colMap, "departure_airport")
		arr := getField(record, colMap, "arrival_airport")
		costStr := getField(record, colMap, "cost")
		timeStr := getField(record, colMap, "travel_time")

		if dep == "" || arr == "" || costStr == "" || timeStr == "" {
			log.Printf("Warning: skipping flight row with missing required fields: %s -> %s", dep, arr)
			continue
		}

		cost, err := strconv.ParseFloat(costStr, 64)
		if err != nil {
			log.Printf("Warning: invalid cost for flight %s -> %s: %v", dep, arr, err)
			continue
		}

		timeHr, err := strconv.ParseFloat(timeStr, 64)
		if err != nil {
			log.Printf("Warning: invalid travel_time for flight %s -> %s: %v", dep, arr, err)
			continue
		}

		// distance_km is optional; 0 means unknown
		var distance float64
		if distStr := getField(record, colMap, "distance_km"); distStr != "" {
			if d, err := strconv.ParseFloat(distStr, 64); err == nil {
				distance = d
			}
		}

		flights = append(flights, models.FlightRow{
			DepartureAirport: dep,
			ArrivalAirport:   arr,
			CostPerKg:        cost,
			TimeHr:           timeHr,
			DistanceKm:       distance,
		})
	}

	return flights, nil
}

// LoadShipping parses the shipping lane table.
// Required columns: departure_port, arrival_port, cost, travel_time (days).
func LoadShipping(filePath string) ([]models.ShippingRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("shipping data file %s not found: %w", filePath, err)
	}
	defer file.Close()

	return parseShippingFromReader(file)
}

func parseShippingFromReader(reader io.Reader) ([]models.ShippingRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := makeColumnMap(header)
	var lanes []models.ShippingRow

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed shipping row: %v", err)
			continue
		}

		dep := getField(record, colMap, "departure_port")
		arr := getField(record, colMap, "arrival_port")
		costStr := getField(record, colMap, "cost")
		timeStr := getField(record, colMap, "travel_time")

		if dep == "" || arr == "" || costStr == "" || timeStr == "" {
			log.Printf("Warning: skipping shipping row with missing required fields: %s -> %s", dep, arr)
			continue
		}

		cost, err := strconv.ParseFloat(costStr, 64)
		if err != nil {
			log.Printf("Warning: invalid cost for lane %s -> %s: %v", dep, arr, err)
			continue
		}

		days, err := strconv.ParseFloat(timeStr, 64)
		if err != nil {
			log.Printf("Warning: invalid travel_time for lane %s -> %s: %v", dep, arr, err)
			continue
		}

		lanes = append(lanes, models.ShippingRow{
			DeparturePort: dep,
			ArrivalPort:   arr,
			CostPerKg:     cost,
			TimeDays:      days,
		})
	}

	return lanes, nil
}

// LoadLocations parses the location database table used to pre-seed the
// geocoder. Rows keyed by code when present, city name otherwise.
func LoadLocations(filePath string) ([]models.LocationRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseLocationsFromReader(file)
}

func parseLocationsFromReader(reader io.Reader) ([]models.LocationRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := makeColumnMap(header)
	var locations []models.LocationRow

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed location row: %v", err)
			continue
		}

		city := getField(record, colMap, "city")
		latStr := getField(record, colMap, "lat")
		lonStr := getField(record, colMap, "lon")

		if city == "" || latStr == "" || lonStr == "" {
			log.Printf("Warning: skipping location with missing required fields: %s", city)
			continue
		}

		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			log.Printf("Warning: invalid latitude for location %s: %v", city, err)
			continue
		}

		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			log.Printf("Warning: invalid longitude for location %s: %v", city, err)
			continue
		}

		locations = append(locations, models.LocationRow{
			City:    city,
			Country: getField(record, colMap, "country"),
			Type:    getField(record, colMap, "type"),
			Lat:     lat,
			Lon:     lon,
			Code:    getField(record, colMap, "code"),
		})
	}

	return locations, nil
}

// LoadContainers parses the container capacity table.
// Columns: Transport Mode, Container Type, Weight Capacity (kg).
func LoadContainers(filePath string) ([]models.ContainerSpec, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseContainersFromReader(file)
}

func parseContainersFromReader(reader io.Reader) ([]models.ContainerSpec, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := makeColumnMap(header)
	var specs []models.ContainerSpec

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed container row: %v", err)
			continue
		}

		mode := strings.ToLower(getField(record, colMap, "Transport Mode"))
		containerType := getField(record, colMap, "Container Type")
		capStr := getField(record, colMap, "Weight Capacity (kg)")

		if mode == "" || containerType == "" || capStr == "" {
			log.Printf("Warning: skipping container row with missing required fields: %s", containerType)
			continue
		}

		capacity, err := strconv.ParseFloat(capStr, 64)
		if err != nil {
			log.Printf("Warning: invalid capacity for container %s: %v", containerType, err)
			continue
		}

		specs = append(specs, models.ContainerSpec{
			Mode:          models.TransportMode(mode),
			ContainerType: containerType,
			CapacityKg:    capacity,
		})
	}

	return specs, nil
}

// Helper functions

func makeColumnMap(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	return colMap
}

func getField(record []string, colMap map[string]int, fieldName string) string {
	if idx, ok := colMap[fieldName]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
