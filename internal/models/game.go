package model

import (
	"encoding/json"
	"time"
)

// GameType type de mini-jeu
type GameType string

const (
	GameTypeQuiz       GameType = "quiz"
	GameTypeMemory     GameType = "memory"
	GameTypeDragDrop   GameType = "dragdrop"
	GameTypeSimulation GameType = "simulation"
)

type Game struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	GameType    GameType `json:"gameType"`
	Category    string   `json:"category"` // environment, mental-health, animal-welfare
	BaseCoins   int      `json:"baseCoins"`
	MaxScore    int      `json:"maxScore"`
	Tags        []string `json:"tags,omitempty"`
	Status      string   `json:"status"` // active, archived
	DateFields
}

// GameScore est une tentative de jeu. Immutable une fois écrite.
type GameScore struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	GameID          string          `json:"gameId"`
	GameType        GameType        `json:"gameType"`
	Score           int             `json:"score"`
	MaxScore        int             `json:"maxScore"`
	Percentage      int             `json:"percentage"`
	CoinsEarned     int             `json:"coinsEarned"`
	AttemptCount    int             `json:"attemptCount"`
	DurationSeconds int             `json:"durationSeconds"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CompleteGameRequest est le payload de fin de partie envoyé par le client
type CompleteGameRequest struct {
	Score           int             `json:"score"`
	MaxScore        int             `json:"maxScore"`
	DurationSeconds int             `json:"durationSeconds,omitempty"`
	AttemptCount    int             `json:"attemptCount,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

// CoinsResponse est le sous-résultat "gain de coins" d'une complétion.
// Success est toujours explicite: la présence de NewBalance ne vaut
// jamais succès à elle seule.
type CoinsResponse struct {
	Success      bool   `json:"success"`
	CoinsEarned  int    `json:"coinsEarned"`
	NewBalance   int64  `json:"newBalance"`
	LimitReached bool   `json:"limitReached"`
	Duplicate    bool   `json:"duplicate"`
	Message      string `json:"message,omitempty"`
}

// LeaderboardUpdate est le sous-résultat best-effort de mise à jour des
// classements; chaque portée a son propre indicateur
type LeaderboardUpdate struct {
	Global   bool `json:"global"`
	Game     bool `json:"game"`
	Category bool `json:"category"`
}

// CompleteGameResult est le résultat combiné retourné au client.
// Les trois champs sont toujours renseignés; l'appelant inspecte les
// sous-résultats plutôt que de compter sur une erreur.
type CompleteGameResult struct {
	GameScore         *GameScore        `json:"gameScore"`
	CoinsResponse     CoinsResponse     `json:"coinsResponse"`
	LeaderboardUpdate LeaderboardUpdate `json:"leaderboardUpdate"`
}
