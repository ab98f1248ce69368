package dataset

import (
	"testing"

	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContainerSpecs() []models.ContainerSpec {
	return []models.ContainerSpec{
		{Mode: models.ModeRoad, ContainerType: "Large Truck", CapacityKg: 20000},
		{Mode: models.ModeRoad, ContainerType: "Small Truck", CapacityKg: 5000},
		{Mode: models.ModeAir, ContainerType: "LD3 Container", CapacityKg: 1588},
	}
}

func TestClassifyContainer(t *testing.T) {
	specs := testContainerSpecs()

	tests := []struct {
		name         string
		mode         models.TransportMode
		weightKg     float64
		expectedType string
		exceeded     bool
	}{
		{
			name:         "Smallest fitting container wins",
			mode:         models.ModeRoad,
			weightKg:     3000,
			expectedType: "Small Truck",
		},
		{
			name:         "Next size up when the small one is full",
			mode:         models.ModeRoad,
			weightKg:     5001,
			expectedType: "Large Truck",
		},
		{
			name:         "Exact capacity still fits",
			mode:         models.ModeRoad,
			weightKg:     5000,
			expectedType: "Small Truck",
		},
		{
			name:         "Overweight returns largest with exceeded flag",
			mode:         models.ModeRoad,
			weightKg:     50000,
			expectedType: "Large Truck",
			exceeded:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice, ok := ClassifyContainer(specs, tt.mode, tt.weightKg)
			require.True(t, ok)
			assert.Equal(t, tt.expectedType, advice.ContainerType)
			assert.Equal(t, tt.exceeded, advice.Exceeded)
		})
	}
}

func TestClassifyContainerUnknownMode(t *testing.T) {
	_, ok := ClassifyContainer(testContainerSpecs(), models.ModeSea, 1000)
	assert.False(t, ok)
}
