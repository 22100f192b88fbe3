package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// RequestRepository отвечает за таблицы service_requests и request_photos.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository создаёт экземпляр репозитория.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create сохраняет новую заявку со статусом submitted.
func (r *RequestRepository) Create(ctx context.Context, req *models.ServiceRequest) error {
	query := `
		INSERT INTO service_requests
			(client_id, service_address, cleaning_type, num_rooms, preferred_datetime, proposed_budget, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	req.Status = models.RequestStatusSubmitted
	if err := r.db.QueryRowxContext(
		ctx, query,
		req.ClientID, req.ServiceAddress, req.CleaningType, req.NumRooms,
		req.PreferredDatetime, req.ProposedBudget, req.Notes, req.Status,
	).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("request repository: create %w", err)
	}

	return nil
}

// GetByID возвращает заявку по идентификатору.
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	query := `
		SELECT id, client_id, service_address, cleaning_type, num_rooms,
		       preferred_datetime, proposed_budget, notes, status, created_at
		FROM service_requests
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrRequestNotFound
		}
		return nil, fmt.Errorf("request repository: get by id %w", err)
	}

	return &req, nil
}

// ListByClient возвращает все заявки клиента, новые сверху.
func (r *RequestRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ServiceRequest, error) {
	query := `
		SELECT id, client_id, service_address, cleaning_type, num_rooms,
		       preferred_datetime, proposed_budget, notes, status, created_at
		FROM service_requests
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	requests := []models.ServiceRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, clientID); err != nil {
		return nil, fmt.Errorf("request repository: list by client %w", err)
	}

	return requests, nil
}

// ListPending возвращает все заявки в статусах submitted/in_negotiation
// вместе с данными клиента для админского списка.
func (r *RequestRepository) ListPending(ctx context.Context) ([]models.PendingRequest, error) {
	query := `
		SELECT r.id, r.client_id, r.service_address, r.cleaning_type, r.num_rooms,
		       r.preferred_datetime, r.proposed_budget, r.notes, r.status, r.created_at,
		       c.first_name, c.last_name, c.email
		FROM service_requests r
		JOIN clients c ON r.client_id = c.id
		WHERE r.status IN ($1, $2)
		ORDER BY r.preferred_datetime ASC
	`

	requests := []models.PendingRequest{}
	if err := r.db.SelectContext(ctx, &requests, query,
		models.RequestStatusSubmitted, models.RequestStatusInNegotiation); err != nil {
		return nil, fmt.Errorf("request repository: list pending %w", err)
	}

	return requests, nil
}

// Reject переводит заявку в терминальный статус rejected и дописывает
// примечание администратора в поле notes.
func (r *RequestRepository) Reject(ctx context.Context, id uuid.UUID, note string) error {
	query := `
		UPDATE service_requests
		SET status = $1,
		    notes = COALESCE(notes, '') || $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, models.RequestStatusRejected,
		"\n[ADMIN REJECTED]: "+note, id)
	if err != nil {
		return fmt.Errorf("request repository: reject %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("request repository: reject rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrRequestNotFound
	}

	return nil
}

// AddPhotos сохраняет пути загруженных фотографий одним батчем.
func (r *RequestRepository) AddPhotos(ctx context.Context, requestID uuid.UUID, filePaths []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("request repository: add photos begin %w", err)
	}
	defer tx.Rollback()

	for _, path := range filePaths {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO request_photos (request_id, file_path) VALUES ($1, $2)`,
			requestID, path); err != nil {
			return fmt.Errorf("request repository: add photo %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("request repository: add photos commit %w", err)
	}

	return nil
}

// ListPhotos возвращает фотографии заявки.
func (r *RequestRepository) ListPhotos(ctx context.Context, requestID uuid.UUID) ([]models.RequestPhoto, error) {
	query := `
		SELECT id, request_id, file_path, uploaded_at
		FROM request_photos
		WHERE request_id = $1
		ORDER BY uploaded_at ASC
	`

	photos := []models.RequestPhoto{}
	if err := r.db.SelectContext(ctx, &photos, query, requestID); err != nil {
		return nil, fmt.Errorf("request repository: list photos %w", err)
	}

	return photos, nil
}
