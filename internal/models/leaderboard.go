package model

import (
	"database/sql"
)

// LeaderboardScope portée d'un classement
type LeaderboardScope string

const (
	ScopeGlobal   LeaderboardScope = "global"
	ScopeGame     LeaderboardScope = "game"
	ScopeCategory LeaderboardScope = "category"
)

type LeaderboardEntry struct {
	UserID   string         `json:"userId"`
	UserName string         `json:"userName"`
	Avatar   sql.NullString `json:"avatar,omitempty"`
	Ward     sql.NullString `json:"ward,omitempty"`
	Rank     int            `json:"rank"`
	Score    int64          `json:"score"` // HealCoins gagnés sur la portée
}

type UserRank struct {
	UserID     string  `json:"userId"`
	Rank       int     `json:"rank"`
	Score      int64   `json:"score"`
	TotalUsers int     `json:"totalUsers"`
	Percentile float64 `json:"percentile"` // Top X%
}
