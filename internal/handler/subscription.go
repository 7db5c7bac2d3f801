package handler

import (
	"context"
	"net/http"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/scanner"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
	"github.com/gorilla/mux"
)

// GetPlans récupère les plans d'abonnement actifs
func GetPlans(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()

	rows, err := database.DB.Query(ctx,
		`SELECT id, name, price_paise, billing_interval, coin_bonus, status, created_at
		 FROM plans WHERE status='active'
		 ORDER BY price_paise ASC`,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query plans", err)
		return
	}
	defer rows.Close()

	plans := []*model.Plan{}
	for rows.Next() {
		plan, err := scanner.ScanPlan(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan plan", err)
			return
		}
		plans = append(plans, plan)
	}

	utils.Success(w, plans)
}

type CreateSubscriptionRequest struct {
	PlanID string `json:"planId"`
}

// CreateSubscription crée un abonnement en statut 'created'. Il sera
// activé par le webhook Razorpay à la capture du paiement.
func CreateSubscription(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateSubscriptionRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.PlanID == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "planId is required")
		return
	}

	ctx := context.Background()

	var planExists bool
	if err := database.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM plans WHERE id=$1 AND status='active')`,
		req.PlanID,
	).Scan(&planExists); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not check plan", err)
		return
	}
	if !planExists {
		utils.ErrorSimple(w, http.StatusNotFound, "plan not found")
		return
	}

	// Un seul abonnement actif ou en attente par utilisateur
	var hasCurrent bool
	if err := database.DB.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM subscriptions
			WHERE user_id=$1 AND status IN ('created', 'active')
		)`,
		user.ID,
	).Scan(&hasCurrent); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not check subscriptions", err)
		return
	}
	if hasCurrent {
		utils.ErrorSimple(w, http.StatusConflict, "user already has a subscription")
		return
	}

	var sub model.Subscription
	err = database.DB.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, plan_id, status)
		 VALUES ($1, $2, 'created')
		 RETURNING id, created_at, updated_at`,
		user.ID, req.PlanID,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create subscription", err)
		return
	}

	sub.UserID = user.ID
	sub.PlanID = req.PlanID
	sub.Status = "created"

	utils.LogActivity(ctx, user.ID, "subscription.create", "plan="+req.PlanID)
	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: sub})
}

// GetMySubscription récupère l'abonnement courant de l'utilisateur
func GetMySubscription(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	row := database.DB.QueryRow(context.Background(),
		`SELECT id, user_id, plan_id, status, razorpay_subscription_id, current_period_end,
		        created_at, updated_at
		 FROM subscriptions
		 WHERE user_id=$1 AND status IN ('created', 'active')
		 ORDER BY created_at DESC
		 LIMIT 1`,
		user.ID,
	)

	sub, err := scanner.ScanSubscription(row)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "no subscription found")
		return
	}

	utils.Success(w, sub)
}

// CancelSubscription annule un abonnement (propriétaire ou admin)
func CancelSubscription(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subID := vars["id"]

	ctx := context.Background()
	actor, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	row := database.DB.QueryRow(ctx,
		`SELECT id, user_id, plan_id, status, razorpay_subscription_id, current_period_end,
		        created_at, updated_at
		 FROM subscriptions WHERE id=$1`,
		subID,
	)
	before, err := scanner.ScanSubscription(row)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "subscription not found")
		return
	}

	if !middleware.IsOwnerOrAdmin(r, before.UserID) {
		utils.ErrorSimple(w, http.StatusForbidden, "not allowed to cancel this subscription")
		return
	}
	if before.Status == "cancelled" || before.Status == "expired" {
		utils.ErrorSimple(w, http.StatusConflict, "subscription is already "+before.Status)
		return
	}

	// L'accès reste ouvert jusqu'à la fin de la période déjà payée
	res, err := database.DB.Exec(ctx,
		`UPDATE subscriptions SET status='cancelled', updated_at=NOW()
		 WHERE id=$1 AND status IN ('created', 'active')`,
		subID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not cancel subscription", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusConflict, "subscription could not be cancelled")
		return
	}

	after := *before
	after.Status = "cancelled"

	utils.LogAudit(ctx, actor.ID, "subscription.cancel", "subscription", subID, before, after)
	utils.LogActivity(ctx, before.UserID, "subscription.cancel", "")

	utils.Success(w, after)
}
