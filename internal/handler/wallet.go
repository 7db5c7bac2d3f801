package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
)

// GetWallet retourne le solde HealCoins de l'utilisateur connecté
func GetWallet(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx := context.Background()
	if err := utils.EnsureWallet(ctx, user.ID); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not ensure wallet", err)
		return
	}

	var wallet model.Wallet
	err = database.DB.QueryRow(ctx,
		`SELECT user_id, heal_coins, updated_at FROM wallets WHERE user_id=$1`,
		user.ID,
	).Scan(&wallet.UserID, &wallet.HealCoins, &wallet.UpdatedAt)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load wallet", err)
		return
	}

	utils.Success(w, wallet)
}

// GetWalletTransactions retourne l'historique paginé des transactions
func GetWalletTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM wallet_transactions WHERE user_id=$1`,
		user.ID,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count transactions", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, user_id, type, amount, source, reference_id, balance_before, balance_after, created_at
		 FROM wallet_transactions
		 WHERE user_id=$1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		user.ID, limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query transactions", err)
		return
	}
	defer rows.Close()

	transactions := []*model.WalletTransaction{}
	for rows.Next() {
		tx, err := scanner.ScanWalletTransaction(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan transaction", err)
			return
		}
		transactions = append(transactions, tx)
	}

	utils.SuccessPaginated(w, transactions, utils.NewPagination(page, limit, total))
}

// GetDailyProgress retourne la progression du jour vers le plafond de gains
func GetDailyProgress(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	earned, limit, remaining, err := utils.DailyProgress(context.Background(), user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load daily progress", err)
		return
	}

	utils.Success(w, model.DailyProgress{Earned: earned, Limit: limit, Remaining: remaining})
}

type EarnCoinsRequest struct {
	UserID      string `json:"userId"`
	Coins       int    `json:"coins"`
	Source      string `json:"source,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
}

// EarnCoins crédite manuellement des HealCoins (admin). Le plafond
// journalier s'applique comme pour tout autre gain.
func EarnCoins(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	var req EarnCoinsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.Coins <= 0 {
		utils.ValidationError(w, "userId and a positive coins amount are required")
		return
	}
	if req.Source == "" {
		req.Source = "manual"
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	result, err := utils.CreditCoinsWithCap(ctx, req.UserID, req.Coins, req.Source, req.ReferenceID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not credit coins", err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "wallet.earn", "wallet", req.UserID,
		map[string]interface{}{"balance": result.NewBalance - int64(result.Accepted)},
		map[string]interface{}{"balance": result.NewBalance, "accepted": result.Accepted},
	)

	utils.Success(w, result)
}

type RedeemCoinsRequest struct {
	Coins       int    `json:"coins"`
	Source      string `json:"source,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
}

// RedeemCoins débite des HealCoins du portefeuille de l'utilisateur connecté.
// Refuse avec "Insufficient coins" avant toute mutation si le solde est trop bas.
func RedeemCoins(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req RedeemCoinsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Coins <= 0 {
		utils.ValidationError(w, "a positive coins amount is required")
		return
	}
	if req.Source == "" {
		req.Source = "redeem"
	}

	ctx := context.Background()
	newBalance, err := utils.DebitCoins(ctx, user.ID, req.Coins, req.Source, req.ReferenceID)
	if err != nil {
		if errors.Is(err, utils.ErrInsufficientCoins) {
			utils.ErrorSimple(w, http.StatusPaymentRequired, utils.ErrInsufficientCoins.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not debit coins", err)
		return
	}

	utils.LogActivity(ctx, user.ID, "wallet_redeem", "")
	utils.Success(w, map[string]interface{}{
		"debited":    req.Coins,
		"newBalance": newBalance,
	})
}
