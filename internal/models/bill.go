package models

import (
	"time"

	"github.com/google/uuid"
)

// Bill — счёт по заказу. На один заказ приходится ровно один счёт
// (уникальный индекс по order_id).
type Bill struct {
	ID          uuid.UUID  `db:"id" json:"bill_id"`
	OrderID     uuid.UUID  `db:"order_id" json:"order_id"`
	Amount      float64    `db:"amount" json:"amount"`
	Status      string     `db:"status" json:"status"`
	GeneratedAt time.Time  `db:"generated_at" json:"generated_at"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

// ClientBill — счёт с идентификатором владельца заказа для проверок доступа.
type ClientBill struct {
	Bill
	ClientID uuid.UUID `db:"client_id" json:"client_id"`
}

// AdminBill — счёт вместе с именем клиента для админского списка.
type AdminBill struct {
	Bill
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// BillResponse — реплика в споре по счёту. Только добавляется.
type BillResponse struct {
	ID     uuid.UUID `db:"id" json:"response_id"`
	BillID uuid.UUID `db:"bill_id" json:"bill_id"`
	Sender string    `db:"sender" json:"sender"`
	Note   string    `db:"note" json:"note"`
	SentAt time.Time `db:"sent_at" json:"timestamp"`
}
