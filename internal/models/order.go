package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceOrder создаётся ровно один раз — при принятии предложения.
// Цена и окно времени копируются из принятого предложения, поэтому
// последующие изменения предложений на заказ не влияют.
type ServiceOrder struct {
	ID                  uuid.UUID  `db:"id" json:"order_id"`
	RequestID           uuid.UUID  `db:"request_id" json:"request_id"`
	QuoteID             uuid.UUID  `db:"quote_id" json:"quote_id"`
	ClientID            uuid.UUID  `db:"client_id" json:"client_id"`
	Price               float64    `db:"price" json:"price"`
	ScheduledTimeWindow string     `db:"scheduled_time_window" json:"scheduled_time_window"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	CompletedAt         *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// ClientOrder — заказ вместе с данными исходной заявки для списка клиента.
type ClientOrder struct {
	ServiceOrder
	ServiceAddress string `db:"service_address" json:"service_address"`
	CleaningType   string `db:"cleaning_type" json:"cleaning_type"`
}

// AdminOrder — заказ вместе с именем клиента для админского списка.
type AdminOrder struct {
	ServiceOrder
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
