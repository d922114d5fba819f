package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"oneclick/rdx"
)

const channel = "plan-events"

// SyncEvent describes a non-fatal store failure on a best-effort sync
// path. The session-side mutation already succeeded when one of these
// is emitted; the event exists so the failure is visible in telemetry
// without blocking the response.
type SyncEvent struct {
	Op        string `json:"op"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error"`
	At        string `json:"at"`
}

// EmitSyncWarning publishes the event to Redis; failures to publish are
// themselves only logged.
func EmitSyncWarning(ctx context.Context, op, userID, sessionID string, cause error) {
	event := SyncEvent{
		Op:        op,
		UserID:    userID,
		SessionID: sessionID,
		Error:     cause.Error(),
		At:        time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal sync event: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish sync event: %v", err)
	}
}

// StartSyncEventWorker consumes the warning channel and keeps per-op
// failure counters in Redis for operational dashboards.
func StartSyncEventWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[SyncWorker] Listening for plan sync events...")

	for msg := range ch {
		var event SyncEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[SyncWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[SyncWorker] op=%s user=%s err=%s", event.Op, event.UserID, event.Error)

		if err := rdx.Conn.Incr(ctx, "plan:syncfail:"+event.Op).Err(); err != nil {
			log.Printf("[SyncWorker] Counter update failed: %v", err)
		}
	}
}
