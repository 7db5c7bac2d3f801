package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/gorilla/mux"
)

// ExportCSV exporte une entité en CSV (admin).
// Entités supportées: users, transactions, redemptions, carbon, scores
func ExportCSV(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)
	entity := vars["entity"]

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	var csv string
	var err error

	switch entity {
	case "users":
		csv, err = exportUsers(ctx)
	case "transactions":
		csv, err = exportTransactions(ctx)
	case "redemptions":
		csv, err = exportRedemptions(ctx)
	case "carbon":
		csv, err = exportCarbonLogs(ctx)
	case "scores":
		csv, err = exportGameScores(ctx)
	default:
		utils.ErrorSimple(w, http.StatusBadRequest, "unknown export entity: "+entity)
		return
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not export "+entity, err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "admin.export", "export", entity, nil,
		map[string]string{"entity": entity})

	filename := entity + "_" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}

func exportUsers(ctx context.Context) (string, error) {
	rows, err := database.DB.Query(ctx, `
		SELECT u.id, u.name, u.email, COALESCE(u.ward, ''), u.eco_score,
		       COALESCE(w.heal_coins, 0), u.join_date
		FROM users u
		LEFT JOIN wallets w ON w.user_id = u.id
		WHERE u.deleted_at IS NULL
		ORDER BY u.created_at
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	headers := []string{"id", "name", "email", "ward", "eco_score", "heal_coins", "join_date"}
	records := []map[string]interface{}{}
	for rows.Next() {
		var id, name, email, ward string
		var ecoScore int
		var healCoins int64
		var joinDate time.Time
		if err := rows.Scan(&id, &name, &email, &ward, &ecoScore, &healCoins, &joinDate); err != nil {
			return "", err
		}
		records = append(records, map[string]interface{}{
			"id": id, "name": name, "email": email, "ward": ward,
			"eco_score": ecoScore, "heal_coins": healCoins,
			"join_date": joinDate.Format(time.RFC3339),
		})
	}

	return utils.ConvertToCSV(records, headers), nil
}

func exportTransactions(ctx context.Context) (string, error) {
	rows, err := database.DB.Query(ctx, `
		SELECT id, user_id, type, amount, source, COALESCE(reference_id, ''),
		       balance_before, balance_after, created_at
		FROM wallet_transactions
		ORDER BY created_at
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	headers := []string{"id", "user_id", "type", "amount", "source", "reference_id",
		"balance_before", "balance_after", "created_at"}
	records := []map[string]interface{}{}
	for rows.Next() {
		var id, userID, txType, source, referenceID string
		var amount, balanceBefore, balanceAfter int64
		var createdAt time.Time
		if err := rows.Scan(&id, &userID, &txType, &amount, &source, &referenceID,
			&balanceBefore, &balanceAfter, &createdAt); err != nil {
			return "", err
		}
		records = append(records, map[string]interface{}{
			"id": id, "user_id": userID, "type": txType, "amount": amount,
			"source": source, "reference_id": referenceID,
			"balance_before": balanceBefore, "balance_after": balanceAfter,
			"created_at": createdAt.Format(time.RFC3339),
		})
	}

	return utils.ConvertToCSV(records, headers), nil
}

func exportRedemptions(ctx context.Context) (string, error) {
	rows, err := database.DB.Query(ctx, `
		SELECT r.id, r.user_id, r.reward_id, rw.title, r.coin_cost, r.status, r.created_at
		FROM redemptions r
		JOIN rewards rw ON rw.id = r.reward_id
		ORDER BY r.created_at
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	headers := []string{"id", "user_id", "reward_id", "reward_title", "coin_cost", "status", "created_at"}
	records := []map[string]interface{}{}
	for rows.Next() {
		var id, userID, rewardID, title, status string
		var coinCost int
		var createdAt time.Time
		if err := rows.Scan(&id, &userID, &rewardID, &title, &coinCost, &status, &createdAt); err != nil {
			return "", err
		}
		records = append(records, map[string]interface{}{
			"id": id, "user_id": userID, "reward_id": rewardID, "reward_title": title,
			"coin_cost": coinCost, "status": status,
			"created_at": createdAt.Format(time.RFC3339),
		})
	}

	return utils.ConvertToCSV(records, headers), nil
}

func exportGameScores(ctx context.Context) (string, error) {
	rows, err := database.DB.Query(ctx, `
		SELECT s.id, s.user_id, s.game_id, g.title, s.score, s.max_score,
		       s.percentage, s.coins_earned, s.created_at
		FROM game_scores s
		JOIN games g ON g.id = s.game_id
		ORDER BY s.created_at
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	headers := []string{"id", "user_id", "game_id", "game_title", "score", "max_score",
		"percentage", "coins_earned", "created_at"}
	records := []map[string]interface{}{}
	for rows.Next() {
		var id, userID, gameID, title string
		var score, maxScore, percentage, coinsEarned int
		var createdAt time.Time
		if err := rows.Scan(&id, &userID, &gameID, &title, &score, &maxScore,
			&percentage, &coinsEarned, &createdAt); err != nil {
			return "", err
		}
		records = append(records, map[string]interface{}{
			"id": id, "user_id": userID, "game_id": gameID, "game_title": title,
			"score": score, "max_score": maxScore, "percentage": percentage,
			"coins_earned": coinsEarned,
			"created_at":   createdAt.Format(time.RFC3339),
		})
	}

	return utils.ConvertToCSV(records, headers), nil
}

func exportCarbonLogs(ctx context.Context) (string, error) {
	rows, err := database.DB.Query(ctx, `
		SELECT id, user_id, action_type, value, co2_saved_kg, coins_earned, created_at
		FROM carbon_logs
		ORDER BY created_at
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	headers := []string{"id", "user_id", "action_type", "value", "co2_saved_kg", "coins_earned", "created_at"}
	records := []map[string]interface{}{}
	for rows.Next() {
		var id, userID, actionType string
		var value, co2Saved float64
		var coinsEarned int
		var createdAt time.Time
		if err := rows.Scan(&id, &userID, &actionType, &value, &co2Saved, &coinsEarned, &createdAt); err != nil {
			return "", err
		}
		records = append(records, map[string]interface{}{
			"id": id, "user_id": userID, "action_type": actionType,
			"value": value, "co2_saved_kg": co2Saved, "coins_earned": coinsEarned,
			"created_at": createdAt.Format(time.RFC3339),
		})
	}

	return utils.ConvertToCSV(records, headers), nil
}
