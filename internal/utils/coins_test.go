package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		maxScore int
		want     int
	}{
		{"perfect score", 100, 100, 100},
		{"half score", 50, 100, 50},
		{"truncates down", 2, 3, 66},
		{"zero score", 0, 100, 0},
		{"zero max score", 50, 0, 0},
		{"negative max score", 50, -10, 0},
		{"negative score clamps to 0", -5, 100, 0},
		{"score above max clamps to 100", 150, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CalculatePercentage(tt.score, tt.maxScore))
		})
	}
}

func TestCalculateCoinsEarned(t *testing.T) {
	tests := []struct {
		name       string
		baseCoins  int
		percentage int
		want       int
	}{
		{"90 percent gets full coins", 100, 90, 100},
		{"95 percent gets full coins", 100, 95, 100},
		{"100 percent gets full coins", 100, 100, 100},
		{"89 percent gets 80", 100, 89, 80},
		{"80 percent gets 80", 100, 80, 80},
		{"79 percent gets 60", 100, 79, 60},
		{"70 percent gets 60", 100, 70, 60},
		{"69 percent gets 40", 100, 69, 40},
		{"60 percent gets 40", 100, 60, 40},
		{"59 percent gets 20", 100, 59, 20},
		{"50 percent gets 20", 100, 50, 20},
		{"49 percent gets nothing", 100, 49, 0},
		{"0 percent gets nothing", 100, 0, 0},
		{"odd base coins truncate", 25, 80, 20},
		{"small base coins can truncate to 0", 1, 50, 0},
		{"zero base coins", 0, 100, 0},
		{"negative base coins", -10, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CalculateCoinsEarned(tt.baseCoins, tt.percentage))
		})
	}
}

// Un meilleur pourcentage ne rapporte jamais moins de coins
func TestCalculateCoinsEarnedMonotonic(t *testing.T) {
	baseCoins := 100
	prev := 0
	for pct := 0; pct <= 100; pct++ {
		coins := CalculateCoinsEarned(baseCoins, pct)
		require.GreaterOrEqual(t, coins, prev, "coins decreased at percentage %d", pct)
		prev = coins
	}
}

func TestApplyDailyCap(t *testing.T) {
	tests := []struct {
		name             string
		earnedToday      int
		limit            int
		coins            int
		wantAccepted     int
		wantLimitReached bool
	}{
		{"well under the cap", 0, 500, 100, 100, false},
		{"exactly fills the cap", 400, 500, 100, 100, true},
		{"partial acceptance at the cap", 450, 500, 100, 50, true},
		{"cap already reached", 500, 500, 100, 0, true},
		{"cap exceeded somehow", 600, 500, 100, 0, true},
		{"one coin under the cap", 499, 500, 100, 1, true},
		{"zero coins requested", 100, 500, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, limitReached := ApplyDailyCap(tt.earnedToday, tt.limit, tt.coins)
			require.Equal(t, tt.wantAccepted, accepted)
			require.Equal(t, tt.wantLimitReached, limitReached)
		})
	}
}

// Le total journalier ne dépasse jamais le plafond, quelle que soit la
// séquence de gains
func TestApplyDailyCapNeverExceedsLimit(t *testing.T) {
	sequences := [][]int{
		{100, 100, 100, 100, 100, 100},
		{499, 499},
		{500, 1},
		{1, 1, 1, 600},
		{250, 250, 250},
	}

	for _, seq := range sequences {
		earned := 0
		for _, coins := range seq {
			accepted, _ := ApplyDailyCap(earned, DailyCoinLimit, coins)
			earned += accepted
			require.LessOrEqual(t, earned, DailyCoinLimit)
		}
	}
}
