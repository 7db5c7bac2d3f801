package model

import "time"

// CarbonLog est une action environnementale enregistrée (transport doux,
// économie d'énergie...) avec le CO2 évité estimé
type CarbonLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ActionType  string    `json:"actionType"` // transport, energy, waste, water
	Value       float64   `json:"value"`
	CO2SavedKg  float64   `json:"co2SavedKg"`
	CoinsEarned int       `json:"coinsEarned"`
	Details     string    `json:"details,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MoodLog est une entrée du tracker de santé mentale
type MoodLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Mood        string    `json:"mood"` // great, good, okay, low, bad
	Score       int       `json:"score"`
	Note        string    `json:"note,omitempty"`
	CoinsEarned int       `json:"coinsEarned"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnimalWelfareLog est une action de bien-être animal enregistrée
type AnimalWelfareLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ActionType  string    `json:"actionType"` // feeding, rescue, adoption, report
	Description string    `json:"description,omitempty"`
	CoinsEarned int       `json:"coinsEarned"`
	CreatedAt   time.Time `json:"createdAt"`
}
