package utils

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestInsufficientCoinsMessage(t *testing.T) {
	// Le message exact fait partie du contrat API (réponse 402)
	require.Equal(t, "Insufficient coins", ErrInsufficientCoins.Error())
}

func TestDuplicateWindow(t *testing.T) {
	require.Equal(t, 60*time.Minute, DuplicateWindow)
}

func TestDayKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"milieu de journée",
			time.Date(2026, time.August, 29, 14, 30, 12, 0, time.UTC),
			time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"juste avant minuit",
			time.Date(2026, time.August, 29, 23, 59, 59, 0, time.UTC),
			time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"juste après minuit",
			time.Date(2026, time.August, 30, 0, 0, 1, 0, time.UTC),
			time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			"fuseau non-UTC normalisé",
			time.Date(2026, time.August, 30, 3, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)),
			time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DayKey(tt.in))
		})
	}
}

func TestDailyCapResetsWithDayKey(t *testing.T) {
	// Le compteur journalier est clé par DayKey: la veille à 23h59 et le
	// lendemain à 00h01 tombent sur des clés différentes, donc un compteur
	// neuf. 400 gagnés hier laissent 500 disponibles aujourd'hui.
	yesterday := DayKey(time.Date(2026, time.August, 28, 23, 59, 0, 0, time.UTC))
	today := DayKey(time.Date(2026, time.August, 29, 0, 1, 0, 0, time.UTC))
	require.NotEqual(t, yesterday, today)

	earnedByDay := map[time.Time]int{}

	accepted, limitReached := ApplyDailyCap(earnedByDay[yesterday], DailyCoinLimit, 400)
	require.Equal(t, 400, accepted)
	require.False(t, limitReached)
	earnedByDay[yesterday] += accepted

	// Nouvelle journée: earned repart de zéro, tout le plafond est disponible
	require.Equal(t, 0, earnedByDay[today])
	accepted, limitReached = ApplyDailyCap(earnedByDay[today], DailyCoinLimit, 500)
	require.Equal(t, 500, accepted)
	require.True(t, limitReached)
}

func TestBalanceScanError(t *testing.T) {
	// L'absence de portefeuille vaut solde zéro, donc insuffisant
	require.ErrorIs(t, balanceScanError(sql.ErrNoRows), ErrInsufficientCoins)
	require.ErrorIs(t, balanceScanError(pgx.ErrNoRows), ErrInsufficientCoins)
	require.ErrorIs(t, balanceScanError(fmt.Errorf("scan: %w", sql.ErrNoRows)), ErrInsufficientCoins)

	// Une panne de base n'est pas un solde insuffisant
	outage := errors.New("connection refused")
	err := balanceScanError(outage)
	require.NotErrorIs(t, err, ErrInsufficientCoins)
	require.ErrorIs(t, err, outage)
}

func TestCreditCoinsWithCapIgnoresNonPositiveAmounts(t *testing.T) {
	// Aucune requête SQL n'est émise pour un montant nul ou négatif,
	// le pool n'étant pas initialisé dans ce test
	result, err := CreditCoinsWithCap(nil, "user", 0, "test", "")
	require.NoError(t, err)
	require.Equal(t, 0, result.Accepted)
	require.False(t, result.LimitReached)

	result, err = CreditCoinsWithCap(nil, "user", -10, "test", "")
	require.NoError(t, err)
	require.Equal(t, 0, result.Accepted)
}
