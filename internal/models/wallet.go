package model

import "time"

// Wallet représente le solde de HealCoins d'un utilisateur.
// Seul le backend mutate ce solde, jamais le client.
type Wallet struct {
	UserID    string    `json:"userId"`
	HealCoins int64     `json:"healCoins"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionType type d'opération sur le portefeuille
type TransactionType string

const (
	TransactionEarn   TransactionType = "earn"
	TransactionRedeem TransactionType = "redeem"
)

// WalletTransaction est une opération immuable sur le portefeuille,
// avec le solde avant/après pour l'audit
type WalletTransaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"`
	Source        string          `json:"source"` // game, tracker_carbon, tracker_mood, tracker_animal, reward, subscription_bonus, manual
	ReferenceID   *string         `json:"referenceId,omitempty"`
	BalanceBefore int64           `json:"balanceBefore"`
	BalanceAfter  int64           `json:"balanceAfter"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// DailyProgress est la progression du jour vers le plafond de gains
type DailyProgress struct {
	Earned    int `json:"earned"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}
