package handler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	model "github.com/Zero-Print/zeroprint-sub006/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	return r.err
}

// fakeTx enregistre les requêtes reçues et rejoue les résultats préparés
type fakeTx struct {
	stmts    []string
	rows     []fakeRow
	execErrs []error
}

func (q *fakeTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	q.stmts = append(q.stmts, strings.Fields(strings.TrimSpace(sql))[0])
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

func (q *fakeTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	q.stmts = append(q.stmts, strings.Fields(strings.TrimSpace(sql))[0])
	var err error
	if len(q.execErrs) > 0 {
		err, q.execErrs = q.execErrs[0], q.execErrs[1:]
	}
	return pgconn.NewCommandTag(""), err
}

func capturedEvent(userID, subscriptionID string) *model.RazorpayWebhookEvent {
	var event model.RazorpayWebhookEvent
	event.Event = "payment.captured"
	event.Payload.Payment.Entity.ID = "pay_123"
	event.Payload.Payment.Entity.Amount = 19900
	event.Payload.Payment.Entity.Notes.UserID = userID
	event.Payload.Payment.Entity.Notes.SubscriptionID = subscriptionID
	return &event
}

func TestProcessPaymentCapturedRedelivery(t *testing.T) {
	// Un event ID déjà en base n'écrit rien de plus
	tx := &fakeTx{rows: []fakeRow{{err: pgx.ErrNoRows}}}

	err := processPaymentCaptured(context.Background(), tx, "evt_1", capturedEvent("user", "sub"))
	require.ErrorIs(t, err, errEventAlreadyProcessed)
	require.Equal(t, []string{"INSERT"}, tx.stmts)
}

func TestProcessPaymentCapturedActivationFailureIsReplayable(t *testing.T) {
	// L'échec de l'activation remonte en erreur: la transaction de
	// l'appelant est annulée, l'event ID reste libre et la relivraison
	// rejoue tout le traitement au lieu de tomber sur "already processed"
	tx := &fakeTx{
		rows:     []fakeRow{{err: nil}, {err: nil}},
		execErrs: []error{errors.New("connection reset")},
	}

	err := processPaymentCaptured(context.Background(), tx, "evt_2", capturedEvent("user", "sub"))
	require.Error(t, err)
	require.NotErrorIs(t, err, errEventAlreadyProcessed)
	require.Equal(t, []string{"INSERT", "SELECT", "UPDATE"}, tx.stmts)
}

func TestProcessPaymentCapturedWithoutSubscription(t *testing.T) {
	// Paiement sans abonnement associé: seul le paiement est enregistré
	tx := &fakeTx{rows: []fakeRow{{err: nil}}}

	err := processPaymentCaptured(context.Background(), tx, "evt_3", capturedEvent("user", ""))
	require.NoError(t, err)
	require.Equal(t, []string{"INSERT"}, tx.stmts)
}

func TestSubscriptionPeriodEnd(t *testing.T) {
	from := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	require.Equal(t, time.Date(2026, time.April, 15, 12, 0, 0, 0, time.UTC),
		subscriptionPeriodEnd("monthly", from))
	require.Equal(t, time.Date(2027, time.March, 15, 12, 0, 0, 0, time.UTC),
		subscriptionPeriodEnd("yearly", from))
	// Intervalle inconnu: mensuel par défaut
	require.Equal(t, time.Date(2026, time.April, 15, 12, 0, 0, 0, time.UTC),
		subscriptionPeriodEnd("", from))
}
