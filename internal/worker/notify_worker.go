package worker

// notify_worker.go
// Sends shipped-order notifications from QueueNotify. Best-effort: a failed
// send is logged, never retried into the order flow.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/naskek/FlowStock-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotifyPayload is the job envelope sent to QueueNotify.
type NotifyPayload struct {
	ToEmail  string `json:"to_email"`
	OrderRef string `json:"order_ref"`
}

type NotifyWorker struct {
	mailer *infra.Mailer
}

func NewNotifyWorker(mailer *infra.Mailer) *NotifyWorker {
	return &NotifyWorker{mailer: mailer}
}

func (w *NotifyWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload NotifyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Str("order_ref", payload.OrderRef).Msg("notify_worker: empty to_email, skipping")
		return
	}

	subject := fmt.Sprintf("Order %s shipped", payload.OrderRef)
	body := fmt.Sprintf("All lines of order %s have been shipped in full.", payload.OrderRef)
	if err := w.mailer.Send(payload.ToEmail, subject, body, ""); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("notify_worker: send failed")
		return
	}
	log.Info().Str("order_ref", payload.OrderRef).Str("to", payload.ToEmail).Msg("notify_worker: notification sent")
}
