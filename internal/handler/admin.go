package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
)

// GetAdminDashboard agrège les statistiques du dashboard admin
func GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	ctx := context.Background()
	stats := model.AdminDashboardStats{GeneratedAt: time.Now()}

	// Une seule requête pour tous les compteurs globaux
	err := database.DB.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL),
			(SELECT COUNT(DISTINCT user_id) FROM sessions
				WHERE created_at > NOW() - INTERVAL '24 hours'),
			(SELECT COUNT(*) FROM games WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM game_scores),
			(SELECT COUNT(*) FROM rewards WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM redemptions),
			(SELECT COALESCE(SUM(heal_coins), 0) FROM wallets),
			(SELECT COALESCE(SUM(earned), 0) FROM daily_earnings WHERE day = CURRENT_DATE),
			(SELECT COUNT(*) FROM users WHERE created_at >= CURRENT_DATE AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM users WHERE created_at > NOW() - INTERVAL '7 days' AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM users WHERE created_at > NOW() - INTERVAL '30 days' AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM carbon_logs WHERE created_at >= CURRENT_DATE),
			(SELECT COALESCE(SUM(co2_saved_kg), 0) FROM carbon_logs),
			(SELECT COUNT(*) FROM mood_logs WHERE created_at >= CURRENT_DATE),
			(SELECT COUNT(*) FROM subscriptions WHERE status = 'active')
	`).Scan(
		&stats.TotalUsers, &stats.ActiveUsers, &stats.TotalGames, &stats.TotalGameScores,
		&stats.TotalRewards, &stats.TotalRedemptions, &stats.CoinsInWallets, &stats.CoinsEarnedToday,
		&stats.NewUsersToday, &stats.NewUsersThisWeek, &stats.NewUsersThisMonth,
		&stats.CarbonLogsToday, &stats.CO2SavedTotalKg, &stats.MoodLogsToday,
		&stats.ActiveSubscriptions,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load dashboard stats", err)
		return
	}

	utils.Success(w, stats)
}

// GetAdminUsers liste les utilisateurs avec leur solde pour la gestion (paginé)
func GetAdminUsers(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM users`,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count users", err)
		return
	}

	rows, err := database.DB.Query(ctx, `
		SELECT
			u.id, u.name, u.email, u.avatar, u.ward, u.is_admin, u.eco_score,
			COALESCE(w.heal_coins, 0),
			u.join_date,
			(SELECT MAX(s.created_at) FROM sessions s WHERE s.user_id = u.id),
			CASE WHEN u.deleted_at IS NULL THEN 'active' ELSE 'deleted' END
		FROM users u
		LEFT JOIN wallets w ON w.user_id = u.id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query users", err)
		return
	}
	defer rows.Close()

	users := []model.AdminUserListItem{}
	for rows.Next() {
		var item model.AdminUserListItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Email, &item.Avatar, &item.Ward,
			&item.IsAdmin, &item.EcoScore, &item.HealCoins, &item.JoinDate,
			&item.LastActive, &item.Status,
		); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan user", err)
			return
		}
		users = append(users, item)
	}

	utils.SuccessPaginated(w, users, utils.NewPagination(page, limit, total))
}

// GetWardStats agrège les indicateurs de durabilité par zone administrative
func GetWardStats(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	ctx := context.Background()

	rows, err := database.DB.Query(ctx, `
		WITH ward_users AS (
			SELECT id, ward FROM users
			WHERE ward IS NOT NULL AND deleted_at IS NULL
		),
		members AS (
			SELECT ward, COUNT(*) AS users FROM ward_users GROUP BY ward
		),
		carbon AS (
			SELECT wu.ward, SUM(cl.co2_saved_kg) AS co2, COUNT(*) AS entries
			FROM carbon_logs cl
			JOIN ward_users wu ON wu.id = cl.user_id
			GROUP BY wu.ward
		),
		coins AS (
			SELECT wu.ward, SUM(wt.amount) AS earned
			FROM wallet_transactions wt
			JOIN ward_users wu ON wu.id = wt.user_id
			WHERE wt.type = 'earn'
			GROUP BY wu.ward
		),
		games AS (
			SELECT wu.ward, COUNT(*) AS completed
			FROM game_scores gs
			JOIN ward_users wu ON wu.id = gs.user_id
			GROUP BY wu.ward
		)
		SELECT
			m.ward,
			m.users,
			COALESCE(c.co2, 0),
			COALESCE(co.earned, 0),
			COALESCE(g.completed, 0),
			COALESCE(c.entries, 0)
		FROM members m
		LEFT JOIN carbon c ON c.ward = m.ward
		LEFT JOIN coins co ON co.ward = m.ward
		LEFT JOIN games g ON g.ward = m.ward
		ORDER BY m.ward
	`)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query ward stats", err)
		return
	}
	defer rows.Close()

	stats := []model.WardStats{}
	for rows.Next() {
		var ws model.WardStats
		if err := rows.Scan(
			&ws.Ward, &ws.Users, &ws.CO2SavedKg, &ws.CoinsEarned,
			&ws.GamesCompleted, &ws.TrackerEntries,
		); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan ward stats", err)
			return
		}
		stats = append(stats, ws)
	}

	utils.Success(w, stats)
}

// GetAuditLogs journal d'audit (admin, paginé, filtre: entityType)
func GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	entityType := r.URL.Query().Get("entityType")
	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	where := ``
	args := []interface{}{}
	if entityType != "" {
		where = `WHERE entity_type=$1`
		args = append(args, entityType)
	}

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_logs `+where, args...,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count audit logs", err)
		return
	}

	offset := (page - 1) * limit
	var query string
	if entityType != "" {
		query = `SELECT id, actor_id, action, entity_type, entity_id, before_state, after_state, created_at
			 FROM audit_logs WHERE entity_type=$1
			 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = []interface{}{entityType, limit, offset}
	} else {
		query = `SELECT id, actor_id, action, entity_type, entity_id, before_state, after_state, created_at
			 FROM audit_logs
			 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = []interface{}{limit, offset}
	}

	rows, err := database.DB.Query(ctx, query, args...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query audit logs", err)
		return
	}
	defer rows.Close()

	logs := []*model.AuditLog{}
	for rows.Next() {
		log, err := scanner.ScanAuditLog(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan audit log", err)
			return
		}
		logs = append(logs, log)
	}

	utils.SuccessPaginated(w, logs, utils.NewPagination(page, limit, total))
}

// GetActivityLogs journal d'activité (admin, paginé, filtre: userId)
func GetActivityLogs(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	userID := r.URL.Query().Get("userId")
	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	var err error
	if userID != "" {
		err = database.DB.QueryRow(ctx,
			`SELECT COUNT(*) FROM activity_logs WHERE user_id=$1`, userID,
		).Scan(&total)
	} else {
		err = database.DB.QueryRow(ctx,
			`SELECT COUNT(*) FROM activity_logs`,
		).Scan(&total)
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count activity logs", err)
		return
	}

	offset := (page - 1) * limit
	var query string
	var args []interface{}
	if userID != "" {
		query = `SELECT id, user_id, action, details, created_at
			 FROM activity_logs WHERE user_id=$1
			 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = []interface{}{userID, limit, offset}
	} else {
		query = `SELECT id, user_id, action, details, created_at
			 FROM activity_logs
			 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = []interface{}{limit, offset}
	}

	rows, err := database.DB.Query(ctx, query, args...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query activity logs", err)
		return
	}
	defer rows.Close()

	logs := []*model.ActivityLog{}
	for rows.Next() {
		log, err := scanner.ScanActivityLog(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan activity log", err)
			return
		}
		logs = append(logs, log)
	}

	utils.SuccessPaginated(w, logs, utils.NewPagination(page, limit, total))
}
