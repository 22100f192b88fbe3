package dto

import "time"

// RegisterRequest — тело POST /auth/register.
type RegisterRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Password  string  `json:"password" binding:"required"`
}

// LoginRequest — тело POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateRequestRequest — тело POST /requests.
type CreateRequestRequest struct {
	ServiceAddress    string    `json:"service_address" binding:"required"`
	CleaningType      string    `json:"cleaning_type" binding:"required"`
	NumRooms          int       `json:"num_rooms" binding:"required"`
	PreferredDatetime time.Time `json:"preferred_datetime" binding:"required"`
	ProposedBudget    *float64  `json:"proposed_budget"`
	Notes             *string   `json:"notes"`
}

// RejectRequestRequest — тело POST /requests/:id/reject.
type RejectRequestRequest struct {
	Note string `json:"note" binding:"required"`
}

// IssueQuoteRequest — тело POST /requests/:id/quote.
type IssueQuoteRequest struct {
	AdjustedPrice       float64 `json:"adjusted_price" binding:"required"`
	ScheduledTimeWindow string  `json:"scheduled_time_window" binding:"required"`
	Note                *string `json:"note"`
}

// CounterQuoteRequest — тело POST /requests/quote/:id/counter.
type CounterQuoteRequest struct {
	Message string `json:"message" binding:"required"`
}

// MessageRequest — тело POST /requests/admin/request/:id/message.
type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateBillRequest — тело POST /bills/create/:order_id.
type CreateBillRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// DisputeBillRequest — тело POST /bills/:id/dispute.
type DisputeBillRequest struct {
	Note string `json:"note" binding:"required"`
}

// RespondBillRequest — тело POST /bills/:id/respond.
type RespondBillRequest struct {
	Note string `json:"note" binding:"required"`
}

// ReviseBillRequest — тело POST /bills/:id/revise.
type ReviseBillRequest struct {
	NewAmount float64 `json:"new_amount" binding:"required"`
	Note      string  `json:"note"`
}
