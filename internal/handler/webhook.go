package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/Zero-Print/zeroprint-sub006/internal/utils"
)

// RazorpayWebhook consomme les webhooks Razorpay. La signature HMAC du
// corps brut est vérifiée avant tout décodage, et l'event ID est inséré
// avec une contrainte UNIQUE: une relivraison du même événement répond
// 200 sans rien recréditer.
func RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	if razorpaySvc == nil || !razorpaySvc.IsConfigured() {
		utils.ErrorSimple(w, http.StatusServiceUnavailable, "webhooks are not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "could not read body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if err := razorpaySvc.VerifyWebhookSignature(body, signature); err != nil {
		utils.Error(w, http.StatusUnauthorized, "invalid webhook signature", err)
		return
	}

	var event model.RazorpayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	eventID := r.Header.Get("X-Razorpay-Event-Id")
	if eventID == "" {
		// Fallback déterministe quand le header est absent
		eventID = event.Event + ":" + event.Payload.Payment.Entity.ID
	}

	ctx := context.Background()

	switch event.Event {
	case "payment.captured":
		handlePaymentCaptured(ctx, w, eventID, &event)
	case "payment.failed":
		handlePaymentFailed(ctx, w, eventID, &event)
	default:
		// Événement non géré: accusé de réception pour éviter les retries
		utils.LogInfo("ignoring razorpay event %s (%s)", event.Event, eventID)
		utils.Message(w, "event ignored")
	}
}

// errEventAlreadyProcessed signale une relivraison d'un event déjà traité
var errEventAlreadyProcessed = errors.New("event already processed")

func handlePaymentCaptured(ctx context.Context, w http.ResponseWriter, eventID string, event *model.RazorpayWebhookEvent) {
	// Enregistrement du paiement, activation et bonus dans une seule
	// transaction: si une étape échoue, rien n'est écrit et l'insertion
	// idempotente ne consomme pas l'event ID — la relivraison Razorpay
	// rejoue tout le traitement.
	tx, err := database.DB.Begin(ctx)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not start transaction", err)
		return
	}
	defer tx.Rollback(ctx)

	if err := processPaymentCaptured(ctx, tx, eventID, event); err != nil {
		if errors.Is(err, errEventAlreadyProcessed) {
			utils.LogInfo("razorpay event %s already processed", eventID)
			utils.Message(w, "event already processed")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not process payment", err)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not commit payment", err)
		return
	}

	if subscriptionID := event.Payload.Payment.Entity.Notes.SubscriptionID; subscriptionID != "" {
		utils.LogActivity(ctx, event.Payload.Payment.Entity.Notes.UserID,
			"subscription.activate", "subscription="+subscriptionID)
	}
	utils.Message(w, "payment processed")
}

// processPaymentCaptured exécute les écritures d'un payment.captured sur la
// transaction fournie. Retourne errEventAlreadyProcessed si l'event ID est
// déjà en base; toute autre erreur laisse l'event rejouable.
func processPaymentCaptured(ctx context.Context, q utils.Querier, eventID string, event *model.RazorpayWebhookEvent) error {
	entity := event.Payload.Payment.Entity
	userID := entity.Notes.UserID
	subscriptionID := entity.Notes.SubscriptionID

	// Insertion idempotente: un event déjà vu ne fait rien
	var paymentID string
	err := q.QueryRow(ctx,
		`INSERT INTO payments (user_id, razorpay_event_id, razorpay_payment_id, amount_paise, status)
		 VALUES (NULLIF($1, '')::uuid, $2, NULLIF($3, ''), $4, 'captured')
		 ON CONFLICT (razorpay_event_id) DO NOTHING
		 RETURNING id`,
		userID, eventID, entity.ID, entity.Amount,
	).Scan(&paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errEventAlreadyProcessed
		}
		return fmt.Errorf("could not record payment: %w", err)
	}

	if subscriptionID == "" {
		return nil
	}

	// Activer l'abonnement et avancer la fin de période selon le plan
	var planID, billingInterval string
	var coinBonus int
	err = q.QueryRow(ctx,
		`SELECT p.id, p.billing_interval, p.coin_bonus
		 FROM subscriptions s
		 JOIN plans p ON s.plan_id = p.id
		 WHERE s.id = $1`,
		subscriptionID,
	).Scan(&planID, &billingInterval, &coinBonus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogWarning("payment %s references unknown subscription %s", eventID, subscriptionID)
			return nil
		}
		return fmt.Errorf("could not load subscription plan: %w", err)
	}

	if _, err := q.Exec(ctx,
		`UPDATE subscriptions
		 SET status='active', razorpay_subscription_id=COALESCE(razorpay_subscription_id, $2),
		     current_period_end=$3, updated_at=NOW()
		 WHERE id=$1`,
		subscriptionID, entity.ID, subscriptionPeriodEnd(billingInterval, time.Now()),
	); err != nil {
		return fmt.Errorf("could not activate subscription: %w", err)
	}

	// Bonus de coins payé: hors plafond journalier, dans la même transaction
	if coinBonus > 0 && userID != "" {
		if _, err := utils.CreditCoinsTx(ctx, q, userID, coinBonus, "subscription_bonus", subscriptionID); err != nil {
			return fmt.Errorf("could not credit subscription bonus: %w", err)
		}
	}

	return nil
}

// subscriptionPeriodEnd avance la fin de période selon l'intervalle du plan
func subscriptionPeriodEnd(billingInterval string, from time.Time) time.Time {
	if billingInterval == "yearly" {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

func handlePaymentFailed(ctx context.Context, w http.ResponseWriter, eventID string, event *model.RazorpayWebhookEvent) {
	entity := event.Payload.Payment.Entity

	_, err := database.DB.Exec(ctx,
		`INSERT INTO payments (user_id, razorpay_event_id, razorpay_payment_id, amount_paise, status)
		 VALUES (NULLIF($1, '')::uuid, $2, NULLIF($3, ''), $4, 'failed')
		 ON CONFLICT (razorpay_event_id) DO NOTHING`,
		entity.Notes.UserID, eventID, entity.ID, entity.Amount,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record failed payment", err)
		return
	}

	utils.LogWarning("razorpay payment failed: event=%s payment=%s", eventID, entity.ID)
	utils.Message(w, "failure recorded")
}
