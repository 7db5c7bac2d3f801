package model

import "time"

// AdminDashboardStats contient toutes les statistiques pour le dashboard admin
type AdminDashboardStats struct {
	// Statistiques générales
	TotalUsers       int   `json:"totalUsers"`
	ActiveUsers      int   `json:"activeUsers"` // Utilisateurs actifs dans les dernières 24h
	TotalGames       int   `json:"totalGames"`
	TotalGameScores  int   `json:"totalGameScores"`
	TotalRewards     int   `json:"totalRewards"`
	TotalRedemptions int   `json:"totalRedemptions"`
	CoinsInWallets   int64 `json:"coinsInWallets"`
	CoinsEarnedToday int64 `json:"coinsEarnedToday"`

	// Croissance
	NewUsersToday     int `json:"newUsersToday"`
	NewUsersThisWeek  int `json:"newUsersThisWeek"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`

	// Engagement trackers
	CarbonLogsToday int     `json:"carbonLogsToday"`
	CO2SavedTotalKg float64 `json:"co2SavedTotalKg"`
	MoodLogsToday   int     `json:"moodLogsToday"`

	// Abonnements
	ActiveSubscriptions int `json:"activeSubscriptions"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// AdminUserListItem pour la gestion des utilisateurs
type AdminUserListItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Avatar     *string    `json:"avatar,omitempty"`
	Ward       *string    `json:"ward,omitempty"`
	IsAdmin    bool       `json:"isAdmin"`
	EcoScore   int        `json:"ecoScore"`
	HealCoins  int64      `json:"healCoins"`
	JoinDate   time.Time  `json:"joinDate"`
	LastActive *time.Time `json:"lastActive,omitempty"`
	Status     string     `json:"status"` // active, deleted
}

// WardStats agrège les indicateurs de durabilité par zone administrative
type WardStats struct {
	Ward           string  `json:"ward"`
	Users          int     `json:"users"`
	CO2SavedKg     float64 `json:"co2SavedKg"`
	CoinsEarned    int64   `json:"coinsEarned"`
	GamesCompleted int     `json:"gamesCompleted"`
	TrackerEntries int     `json:"trackerEntries"`
}
