package utils

import (
	"context"
	"encoding/json"

	"github.com/Zero-Print/zeroprint-sub006/internal/database"
)

// LogActivity ajoute une entrée lisible au journal d'activité.
// Best-effort: une erreur d'insertion est logguée puis avalée.
func LogActivity(ctx context.Context, userID, action, details string) {
	_, err := database.DB.Exec(ctx, `
		INSERT INTO activity_logs (user_id, action, details)
		VALUES (NULLIF($1, '')::uuid, $2, $3)
	`, userID, action, details)
	if err != nil {
		LogWarning("could not write activity log (action=%s): %v", action, err)
	}
}

// LogAudit ajoute une entrée structurée au journal d'audit avec un
// instantané avant/après. Best-effort, comme LogActivity.
func LogAudit(ctx context.Context, actorID, action, entityType, entityID string, before, after interface{}) {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		LogWarning("could not marshal audit before state: %v", err)
		beforeJSON = []byte("null")
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		LogWarning("could not marshal audit after state: %v", err)
		afterJSON = []byte("null")
	}

	_, err = database.DB.Exec(ctx, `
		INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, before_state, after_state)
		VALUES (NULLIF($1, '')::uuid, $2, $3, NULLIF($4, ''), $5, $6)
	`, actorID, action, entityType, entityID, beforeJSON, afterJSON)
	if err != nil {
		LogWarning("could not write audit log (action=%s): %v", action, err)
	}
}
