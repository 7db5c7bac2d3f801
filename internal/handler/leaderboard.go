package handler

import (
	"context"
	"net/http"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/gorilla/mux"
)

// queryLeaderboard calcule un classement (rangs via ROW_NUMBER) pour une
// portée donnée
func queryLeaderboard(ctx context.Context, scope, scopeKey string, limit int) ([]model.LeaderboardEntry, error) {
	sqlQuery := `
		WITH ranked_users AS (
			SELECT
				le.user_id,
				le.score,
				ROW_NUMBER() OVER (ORDER BY le.score DESC, le.updated_at ASC) as rank
			FROM leaderboard_entries le
			WHERE le.scope = $1 AND le.scope_key = $2
		)
		SELECT
			ru.user_id,
			u.name as user_name,
			u.avatar,
			u.ward,
			ru.rank,
			ru.score
		FROM ranked_users ru
		INNER JOIN users u ON ru.user_id = u.id
		WHERE u.deleted_at IS NULL
		ORDER BY ru.rank
		LIMIT $3
	`

	rows, err := database.DB.Query(ctx, sqlQuery, scope, scopeKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(
			&entry.UserID, &entry.UserName, &entry.Avatar, &entry.Ward,
			&entry.Rank, &entry.Score,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetGlobalLeaderboard récupère le classement global (param: limit)
func GetGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", 50)

	entries, err := queryLeaderboard(context.Background(), string(model.ScopeGlobal), "global", limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query leaderboard", err)
		return
	}

	utils.Success(w, entries)
}

// GetGameLeaderboard récupère le classement d'un mini-jeu
func GetGameLeaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["gameId"]
	limit := utils.QueryInt(r, "limit", 50)

	entries, err := queryLeaderboard(context.Background(), string(model.ScopeGame), gameID, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query leaderboard", err)
		return
	}

	utils.Success(w, entries)
}

// GetCategoryLeaderboard récupère le classement d'une catégorie
func GetCategoryLeaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	category := vars["category"]
	limit := utils.QueryInt(r, "limit", 50)

	entries, err := queryLeaderboard(context.Background(), string(model.ScopeCategory), category, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query leaderboard", err)
		return
	}

	utils.Success(w, entries)
}

// GetUserRank récupère le rang global d'un utilisateur avec son percentile
func GetUserRank(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	ctx := context.Background()

	var rank model.UserRank
	err := database.DB.QueryRow(ctx, `
		WITH ranked_users AS (
			SELECT
				le.user_id,
				le.score,
				ROW_NUMBER() OVER (ORDER BY le.score DESC, le.updated_at ASC) as rank,
				COUNT(*) OVER () as total_users
			FROM leaderboard_entries le
			INNER JOIN users u ON le.user_id = u.id
			WHERE le.scope = 'global' AND le.scope_key = 'global'
				AND u.deleted_at IS NULL
		)
		SELECT user_id, rank, score, total_users
		FROM ranked_users
		WHERE user_id = $1
	`, userID).Scan(&rank.UserID, &rank.Rank, &rank.Score, &rank.TotalUsers)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "user not ranked yet")
		return
	}

	if rank.TotalUsers > 0 {
		rank.Percentile = float64(rank.Rank) / float64(rank.TotalUsers) * 100
	}

	utils.Success(w, rank)
}

// GetNearbyUsers récupère les voisins de classement d'un utilisateur
// (param: range, nombre de rangs au-dessus et en dessous, défaut 2)
func GetNearbyUsers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	rankRange := utils.QueryInt(r, "range", 2)

	ctx := context.Background()

	rows, err := database.DB.Query(ctx, `
		WITH ranked_users AS (
			SELECT
				le.user_id,
				le.score,
				ROW_NUMBER() OVER (ORDER BY le.score DESC, le.updated_at ASC) as rank
			FROM leaderboard_entries le
			INNER JOIN users u ON le.user_id = u.id
			WHERE le.scope = 'global' AND le.scope_key = 'global'
				AND u.deleted_at IS NULL
		),
		target AS (
			SELECT rank FROM ranked_users WHERE user_id = $1
		)
		SELECT
			ru.user_id,
			u.name as user_name,
			u.avatar,
			u.ward,
			ru.rank,
			ru.score
		FROM ranked_users ru
		INNER JOIN users u ON ru.user_id = u.id
		CROSS JOIN target t
		WHERE ru.rank BETWEEN t.rank - $2 AND t.rank + $2
		ORDER BY ru.rank
	`, userID, rankRange)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query nearby users", err)
		return
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(
			&entry.UserID, &entry.UserName, &entry.Avatar, &entry.Ward,
			&entry.Rank, &entry.Score,
		); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan entry", err)
			return
		}
		entries = append(entries, entry)
	}

	utils.Success(w, entries)
}
