package models

import (
	"time"

	"github.com/google/uuid"
)

// Quote — ценовое предложение администратора по конкретной заявке.
// По одной заявке может существовать несколько предложений: это история торга.
type Quote struct {
	ID                  uuid.UUID `db:"id" json:"quote_id"`
	RequestID           uuid.UUID `db:"request_id" json:"request_id"`
	AdjustedPrice       float64   `db:"adjusted_price" json:"adjusted_price"`
	ScheduledTimeWindow string    `db:"scheduled_time_window" json:"scheduled_time_window"`
	Note                *string   `db:"note" json:"note,omitempty"`
	Status              string    `db:"status" json:"status"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// NegotiationMessage — сообщение в переписке по заявке. Только добавляется,
// никогда не изменяется.
type NegotiationMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RequestID uuid.UUID `db:"request_id" json:"request_id"`
	Sender    string    `db:"sender" json:"sender"`
	Text      string    `db:"text" json:"text"`
	SentAt    time.Time `db:"sent_at" json:"timestamp"`
}
