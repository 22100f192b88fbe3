package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRequest описывает заявку клиента на уборку.
type ServiceRequest struct {
	ID                uuid.UUID `db:"id" json:"request_id"`
	ClientID          uuid.UUID `db:"client_id" json:"client_id"`
	ServiceAddress    string    `db:"service_address" json:"service_address"`
	CleaningType      string    `db:"cleaning_type" json:"cleaning_type"`
	NumRooms          int       `db:"num_rooms" json:"num_rooms"`
	PreferredDatetime time.Time `db:"preferred_datetime" json:"preferred_datetime"`
	ProposedBudget    *float64  `db:"proposed_budget" json:"proposed_budget,omitempty"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// PendingRequest — заявка вместе с данными клиента для админского списка.
type PendingRequest struct {
	ServiceRequest
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

// RequestPhoto — ссылка на загруженную фотографию помещения.
type RequestPhoto struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RequestID  uuid.UUID `db:"request_id" json:"request_id"`
	FilePath   string    `db:"file_path" json:"file_path"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}
