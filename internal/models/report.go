package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientActivityRow — строка отчётов по активности клиентов
// (частые, неопределившиеся, "плохие" и "хорошие" клиенты).
type ClientActivityRow struct {
	ClientID        uuid.UUID `db:"client_id" json:"client_id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	CompletedOrders *int      `db:"completed_orders" json:"completed_orders,omitempty"`
	TotalRequests   *int      `db:"total_requests" json:"total_requests,omitempty"`
}

// ProspectiveClientRow — зарегистрированный клиент без единой заявки.
type ProspectiveClientRow struct {
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
}

// AcceptedQuoteRow — принятое предложение за выбранный месяц.
type AcceptedQuoteRow struct {
	QuoteID             uuid.UUID `db:"quote_id" json:"quote_id"`
	AdjustedPrice       float64   `db:"adjusted_price" json:"adjusted_price"`
	ScheduledTimeWindow string    `db:"scheduled_time_window" json:"scheduled_time_window"`
	RequestID           uuid.UUID `db:"request_id" json:"request_id"`
	ClientID            uuid.UUID `db:"client_id" json:"client_id"`
	FirstName           string    `db:"first_name" json:"first_name"`
	LastName            string    `db:"last_name" json:"last_name"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// LargestJobRow — завершённый заказ с наибольшим числом комнат.
type LargestJobRow struct {
	RequestID uuid.UUID `db:"request_id" json:"request_id"`
	NumRooms  int       `db:"num_rooms" json:"num_rooms"`
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
}

// OverdueBillRow — неоплаченный счёт старше недели.
type OverdueBillRow struct {
	BillID      uuid.UUID `db:"bill_id" json:"bill_id"`
	OrderID     uuid.UUID `db:"order_id" json:"order_id"`
	Amount      float64   `db:"amount" json:"amount"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
	ClientID    uuid.UUID `db:"client_id" json:"client_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
}
