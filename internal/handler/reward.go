package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

// GetRewards récupère le catalogue des récompenses actives (paginé)
func GetRewards(w http.ResponseWriter, r *http.Request) {
	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM rewards WHERE deleted_at IS NULL AND status='active'`,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count rewards", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, title, description, coin_cost, stock, image_url, tags, status,
		        created_at, updated_at, created_by, updated_by
		 FROM rewards WHERE deleted_at IS NULL AND status='active'
		 ORDER BY coin_cost ASC
		 LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query rewards", err)
		return
	}
	defer rows.Close()

	rewards := []*model.Reward{}
	for rows.Next() {
		reward, err := scanner.ScanReward(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan reward", err)
			return
		}
		rewards = append(rewards, reward)
	}

	utils.SuccessPaginated(w, rewards, utils.NewPagination(page, limit, total))
}

// GetRewardById récupère une récompense par ID
func GetRewardById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rewardID := vars["id"]

	reward, err := fetchRewardByID(context.Background(), rewardID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "reward not found")
		return
	}

	utils.Success(w, reward)
}

type RewardRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CoinCost    int      `json:"coinCost"`
	Stock       int      `json:"stock"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// CreateReward crée une récompense (admin)
func CreateReward(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	var req RewardRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		utils.ValidationError(w, "title is required")
		return
	}
	if req.CoinCost <= 0 {
		utils.ValidationError(w, "coinCost must be positive")
		return
	}
	if req.Stock < 0 {
		utils.ValidationError(w, "stock cannot be negative")
		return
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	var rewardID string
	err := database.DB.QueryRow(ctx,
		`INSERT INTO rewards (title, description, coin_cost, stock, image_url, tags, created_by)
		 VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7)
		 RETURNING id`,
		req.Title, req.Description, req.CoinCost, req.Stock, req.ImageURL,
		pq.Array(req.Tags), actor.ID,
	).Scan(&rewardID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create reward", err)
		return
	}

	reward, err := fetchRewardByID(ctx, rewardID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not reload reward", err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "reward.create", "reward", rewardID, nil, reward)
	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: reward})
}

// UpdateReward met à jour une récompense (admin)
func UpdateReward(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)
	rewardID := vars["id"]

	var req RewardRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	before, err := fetchRewardByID(ctx, rewardID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "reward not found")
		return
	}

	res, err := database.DB.Exec(ctx,
		`UPDATE rewards
		 SET title=$1, description=NULLIF($2, ''), coin_cost=$3, stock=$4,
		     image_url=NULLIF($5, ''), tags=$6, updated_at=NOW(), updated_by=$7
		 WHERE id=$8 AND deleted_at IS NULL`,
		req.Title, req.Description, req.CoinCost, req.Stock, req.ImageURL,
		pq.Array(req.Tags), actor.ID, rewardID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update reward", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "reward not found")
		return
	}

	after, err := fetchRewardByID(ctx, rewardID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not reload reward", err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "reward.update", "reward", rewardID, before, after)
	utils.Success(w, after)
}

// DeleteReward archive une récompense (admin, soft delete)
func DeleteReward(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)
	rewardID := vars["id"]

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	before, err := fetchRewardByID(ctx, rewardID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "reward not found")
		return
	}

	res, err := database.DB.Exec(ctx,
		`UPDATE rewards SET status='archived', deleted_at=NOW(), deleted_by=$2
		 WHERE id=$1 AND deleted_at IS NULL`,
		rewardID, actor.ID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete reward", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "reward not found")
		return
	}

	utils.LogAudit(ctx, actor.ID, "reward.delete", "reward", rewardID, before, nil)
	utils.Success(w, map[string]bool{"success": true})
}

// UploadRewardImage téléverse l'image de catalogue d'une récompense (admin)
func UploadRewardImage(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAdmin(r) {
		utils.ErrorSimple(w, http.StatusForbidden, "admin access required")
		return
	}

	vars := mux.Vars(r)
	rewardID := vars["id"]

	// Limiter la taille du fichier à 10MB
	r.ParseMultipartForm(10 << 20)

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/jpg" {
		utils.ErrorSimple(w, http.StatusBadRequest, "only JPEG and PNG images are allowed")
		return
	}

	if cloudinarySvc == nil {
		utils.ErrorSimple(w, http.StatusServiceUnavailable, "image upload is not configured")
		return
	}

	ctx := context.Background()
	actor, _ := middleware.GetUserFromContext(r)

	before, err := fetchRewardByID(ctx, rewardID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "reward not found")
		return
	}

	imageURL, err := cloudinarySvc.UploadRewardImage(ctx, file, rewardID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not upload image", err)
		return
	}

	if _, err := database.DB.Exec(ctx,
		`UPDATE rewards SET image_url=$1, updated_at=NOW(), updated_by=$2
		 WHERE id=$3 AND deleted_at IS NULL`,
		imageURL, actor.ID, rewardID,
	); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save image", err)
		return
	}

	utils.LogAudit(ctx, actor.ID, "reward.image", "reward", rewardID,
		map[string]string{"imageUrl": before.ImageURL},
		map[string]string{"imageUrl": imageURL},
	)
	utils.Success(w, map[string]string{"imageUrl": imageURL})
}

// RedeemReward rachète une récompense: le stock est réservé avant le débit
// pour qu'un solde insuffisant ne consomme jamais de stock définitivement
func RedeemReward(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	vars := mux.Vars(r)
	rewardID := vars["id"]

	ctx := context.Background()

	reward, err := fetchRewardByID(ctx, rewardID)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "reward not found")
		return
	}
	if reward.Status != "active" {
		utils.ErrorSimple(w, http.StatusConflict, "reward is not available")
		return
	}

	// Réservation atomique du stock
	res, err := database.DB.Exec(ctx,
		`UPDATE rewards SET stock = stock - 1, updated_at=NOW()
		 WHERE id=$1 AND stock > 0 AND deleted_at IS NULL AND status='active'`,
		rewardID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not reserve stock", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusConflict, "reward is out of stock")
		return
	}

	newBalance, err := utils.DebitCoins(ctx, user.ID, reward.CoinCost, "reward", rewardID)
	if err != nil {
		// Le stock réservé est rendu
		if _, restoreErr := database.DB.Exec(ctx,
			`UPDATE rewards SET stock = stock + 1, updated_at=NOW() WHERE id=$1`,
			rewardID,
		); restoreErr != nil {
			utils.LogError("could not restore stock for reward=%s: %v", rewardID, restoreErr)
		}

		if errors.Is(err, utils.ErrInsufficientCoins) {
			utils.ErrorSimple(w, http.StatusPaymentRequired, "Insufficient coins")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not debit coins", err)
		return
	}

	var redemption model.Redemption
	err = database.DB.QueryRow(ctx,
		`INSERT INTO redemptions (user_id, reward_id, coin_cost, status)
		 VALUES ($1, $2, $3, 'pending')
		 RETURNING id, created_at, updated_at`,
		user.ID, rewardID, reward.CoinCost,
	).Scan(&redemption.ID, &redemption.CreatedAt, &redemption.UpdatedAt)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create redemption", err)
		return
	}

	redemption.UserID = user.ID
	redemption.RewardID = rewardID
	redemption.CoinCost = reward.CoinCost
	redemption.Status = "pending"

	utils.LogAudit(ctx, user.ID, "reward.redeem", "redemption", redemption.ID,
		map[string]interface{}{"stock": reward.Stock, "balance": newBalance + int64(reward.CoinCost)},
		map[string]interface{}{"stock": reward.Stock - 1, "balance": newBalance},
	)
	utils.LogActivity(ctx, user.ID, "reward.redeem", "reward="+reward.Title)

	utils.JSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"redemption": redemption,
			"newBalance": newBalance,
		},
	})
}

// GetRedemptions rachats de l'utilisateur connecté (paginé)
func GetRedemptions(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page, limit := utils.ParsePagination(r)
	ctx := context.Background()

	var total int
	if err := database.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM redemptions WHERE user_id=$1`, user.ID,
	).Scan(&total); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count redemptions", err)
		return
	}

	rows, err := database.DB.Query(ctx,
		`SELECT id, user_id, reward_id, coin_cost, status, created_at, updated_at
		 FROM redemptions WHERE user_id=$1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		user.ID, limit, (page-1)*limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query redemptions", err)
		return
	}
	defer rows.Close()

	redemptions := []*model.Redemption{}
	for rows.Next() {
		redemption, err := scanner.ScanRedemption(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan redemption", err)
			return
		}
		redemptions = append(redemptions, redemption)
	}

	utils.SuccessPaginated(w, redemptions, utils.NewPagination(page, limit, total))
}

// fetchRewardByID charge une récompense par ID
func fetchRewardByID(ctx context.Context, rewardID string) (*model.Reward, error) {
	row := database.DB.QueryRow(ctx,
		`SELECT id, title, description, coin_cost, stock, image_url, tags, status,
		        created_at, updated_at, created_by, updated_by
		 FROM rewards WHERE id=$1 AND deleted_at IS NULL`,
		rewardID,
	)
	return scanner.ScanReward(row)
}
