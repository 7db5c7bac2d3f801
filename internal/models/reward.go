package model

import "time"

type Reward struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CoinCost    int      `json:"coinCost"`
	Stock       int      `json:"stock"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      string   `json:"status"` // active, archived, out-of-stock
	DateFields
}

type Redemption struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	RewardID  string    `json:"rewardId"`
	CoinCost  int       `json:"coinCost"`
	Status    string    `json:"status"` // pending, fulfilled, cancelled
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
