package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCarbonReward(t *testing.T) {
	tests := []struct {
		name       string
		actionType string
		value      float64
		wantCO2    float64
		wantCoins  int
		wantOK     bool
	}{
		{"transport 10km", "transport", 10, 1.5, 15, true},
		{"energy 2kWh", "energy", 2, 1.0, 10, true},
		{"waste 1kg", "waste", 1, 0.7, 7, true},
		{"water 100L", "water", 1, 0.3, 3, true},
		{"coins plafonnés par entrée", "energy", 100, 50.0, 50, true},
		{"type inconnu", "flying", 10, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			co2, coins, ok := carbonReward(tt.actionType, tt.value)
			require.Equal(t, tt.wantOK, ok)
			require.InDelta(t, tt.wantCO2, co2, 1e-9)
			require.Equal(t, tt.wantCoins, coins)
		})
	}
}

func TestCarbonRewardNeverExceedsEntryCap(t *testing.T) {
	for v := 1.0; v <= 500; v += 7 {
		for actionType := range carbonFactors {
			_, coins, ok := carbonReward(actionType, v)
			require.True(t, ok)
			require.LessOrEqual(t, coins, carbonCoinsMax)
			require.GreaterOrEqual(t, coins, 0)
		}
	}
}
