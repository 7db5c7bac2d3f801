package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrInsufficientCoins est retourné quand le solde ne couvre pas un débit
var ErrInsufficientCoins = errors.New("Insufficient coins")

// DuplicateWindow est la fenêtre pendant laquelle une nouvelle complétion
// du même jeu par le même utilisateur ne rapporte pas de coins
const DuplicateWindow = 60 * time.Minute

// Querier couvre *pgxpool.Pool et pgx.Tx: les écritures du portefeuille
// peuvent ainsi rejoindre une transaction ouverte par l'appelant
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DayKey normalise un instant vers sa journée calendaire UTC. Les lignes
// de daily_earnings sont clés par cette valeur: au passage de minuit la
// clé change et le compteur journalier repart de zéro.
func DayKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// balanceScanError distingue l'absence de portefeuille (solde zéro, donc
// insuffisant) d'une vraie panne de base, qui doit remonter telle quelle
func balanceScanError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInsufficientCoins
	}
	return fmt.Errorf("could not load balance: %w", err)
}

// EarnResult est le résultat d'un crédit de HealCoins sous plafond journalier
type EarnResult struct {
	Requested    int   `json:"requested"`
	Accepted     int   `json:"accepted"`
	LimitReached bool  `json:"limitReached"`
	EarnedToday  int   `json:"earnedToday"`
	Remaining    int   `json:"remaining"`
	NewBalance   int64 `json:"newBalance"`
}

// EnsureWallet crée le portefeuille de l'utilisateur s'il n'existe pas
func EnsureWallet(ctx context.Context, userID string) error {
	_, err := database.DB.Exec(ctx, `
		INSERT INTO wallets (user_id, heal_coins, updated_at)
		VALUES ($1, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

// GetWalletBalance retourne le solde de HealCoins d'un utilisateur
func GetWalletBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := database.DB.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT heal_coins FROM wallets WHERE user_id = $1), 0
		)
	`, userID).Scan(&balance)
	return balance, err
}

// CreditCoinsWithCap crédite des HealCoins en appliquant le plafond
// journalier de façon transactionnelle: le portefeuille est verrouillé
// (FOR UPDATE) pour que deux requêtes concurrentes ne puissent pas
// dépasser le plafond ensemble. Un plafond atteint n'est pas une erreur:
// le résultat porte accepted=0 et limitReached=true.
func CreditCoinsWithCap(ctx context.Context, userID string, coins int, source, referenceID string) (*EarnResult, error) {
	if coins <= 0 {
		return &EarnResult{Requested: coins}, nil
	}

	if err := EnsureWallet(ctx, userID); err != nil {
		return nil, fmt.Errorf("could not ensure wallet: %w", err)
	}

	tx, err := database.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var balanceBefore int64
	if err := tx.QueryRow(ctx, `
		SELECT heal_coins FROM wallets WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&balanceBefore); err != nil {
		return nil, err
	}

	// Le plafond est remis à zéro par construction: une ligne par jour calendaire
	day := DayKey(time.Now())
	var earnedToday int64
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT earned FROM daily_earnings WHERE user_id = $1 AND day = $2), 0
		)
	`, userID, day).Scan(&earnedToday); err != nil {
		return nil, err
	}

	accepted, limitReached := ApplyDailyCap(int(earnedToday), DailyCoinLimit, coins)

	result := &EarnResult{
		Requested:    coins,
		Accepted:     accepted,
		LimitReached: limitReached,
		EarnedToday:  int(earnedToday) + accepted,
		NewBalance:   balanceBefore,
	}
	result.Remaining = DailyCoinLimit - result.EarnedToday
	if result.Remaining < 0 {
		result.Remaining = 0
	}

	if accepted == 0 {
		// Rien à créditer, la transaction est abandonnée par le rollback différé
		return result, nil
	}

	balanceAfter := balanceBefore + int64(accepted)
	if _, err := tx.Exec(ctx, `
		UPDATE wallets SET heal_coins = heal_coins + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, accepted); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO daily_earnings (user_id, day, earned)
		VALUES ($1, $3, $2)
		ON CONFLICT (user_id, day) DO UPDATE SET earned = daily_earnings.earned + $2
	`, userID, accepted, day); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO wallet_transactions
			(user_id, type, amount, source, reference_id, balance_before, balance_after)
		VALUES ($1, 'earn', $2, $3, NULLIF($4, ''), $5, $6)
	`, userID, accepted, source, referenceID, balanceBefore, balanceAfter); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result.NewBalance = balanceAfter
	return result, nil
}

// CreditCoins crédite des HealCoins sans plafond journalier. Réservé aux
// crédits non gagnés (bonus d'abonnement payé); tout gain de jeu ou de
// tracker passe par CreditCoinsWithCap.
func CreditCoins(ctx context.Context, userID string, coins int, source, referenceID string) (int64, error) {
	tx, err := database.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	balanceAfter, err := CreditCoinsTx(ctx, tx, userID, coins, source, referenceID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return balanceAfter, nil
}

// CreditCoinsTx est la variante de CreditCoins qui rejoint une transaction
// fournie par l'appelant: le crédit est validé ou annulé avec le reste des
// écritures de cette transaction (traitement d'un paiement par exemple).
func CreditCoinsTx(ctx context.Context, q Querier, userID string, coins int, source, referenceID string) (int64, error) {
	if coins <= 0 {
		return 0, fmt.Errorf("invalid credit amount: %d", coins)
	}

	if _, err := q.Exec(ctx, `
		INSERT INTO wallets (user_id, heal_coins, updated_at)
		VALUES ($1, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return 0, fmt.Errorf("could not ensure wallet: %w", err)
	}

	var balanceBefore int64
	if err := q.QueryRow(ctx, `
		SELECT heal_coins FROM wallets WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&balanceBefore); err != nil {
		return 0, err
	}

	balanceAfter := balanceBefore + int64(coins)
	if _, err := q.Exec(ctx, `
		UPDATE wallets SET heal_coins = heal_coins + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, coins); err != nil {
		return 0, err
	}

	if _, err := q.Exec(ctx, `
		INSERT INTO wallet_transactions
			(user_id, type, amount, source, reference_id, balance_before, balance_after)
		VALUES ($1, 'earn', $2, $3, NULLIF($4, ''), $5, $6)
	`, userID, coins, source, referenceID, balanceBefore, balanceAfter); err != nil {
		return 0, err
	}

	return balanceAfter, nil
}

// DebitCoins débite des HealCoins (rachat de récompense). Retourne
// ErrInsufficientCoins sans rien écrire si le solde est insuffisant.
func DebitCoins(ctx context.Context, userID string, coins int, source, referenceID string) (int64, error) {
	if coins <= 0 {
		return 0, fmt.Errorf("invalid debit amount: %d", coins)
	}

	tx, err := database.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var balanceBefore int64
	if err := tx.QueryRow(ctx, `
		SELECT heal_coins FROM wallets WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&balanceBefore); err != nil {
		return 0, balanceScanError(err)
	}

	if balanceBefore < int64(coins) {
		return balanceBefore, ErrInsufficientCoins
	}

	balanceAfter := balanceBefore - int64(coins)
	if _, err := tx.Exec(ctx, `
		UPDATE wallets SET heal_coins = heal_coins - $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, coins); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO wallet_transactions
			(user_id, type, amount, source, reference_id, balance_before, balance_after)
		VALUES ($1, 'redeem', $2, $3, NULLIF($4, ''), $5, $6)
	`, userID, coins, source, referenceID, balanceBefore, balanceAfter); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return balanceAfter, nil
}

// DailyProgress retourne la progression du jour vers le plafond de gains
func DailyProgress(ctx context.Context, userID string) (earned, limit, remaining int, err error) {
	var earnedToday int64
	err = database.DB.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT earned FROM daily_earnings WHERE user_id = $1 AND day = $2), 0
		)
	`, userID, DayKey(time.Now())).Scan(&earnedToday)
	if err != nil {
		return 0, DailyCoinLimit, 0, err
	}
	earned = int(earnedToday)
	remaining = DailyCoinLimit - earned
	if remaining < 0 {
		remaining = 0
	}
	return earned, DailyCoinLimit, remaining, nil
}

// IsRecentDuplicate indique si l'utilisateur a déjà un score pour ce jeu
// dans la fenêtre de 60 minutes. Fail-open: une erreur de requête est
// logguée et traitée comme "pas un doublon" pour ne pas bloquer une
// partie légitime sur un incident réseau.
func IsRecentDuplicate(ctx context.Context, userID, gameID string) bool {
	var exists bool
	err := database.DB.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM game_scores
			WHERE user_id = $1 AND game_id = $2 AND created_at > NOW() - INTERVAL '60 minutes'
		)
	`, userID, gameID).Scan(&exists)
	if err != nil {
		LogWarning("duplicate check failed for user=%s game=%s: %v", userID, gameID, err)
		return false
	}
	return exists
}
