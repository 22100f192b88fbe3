package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolation = "23505"

// ClientRepository отвечает за работу с таблицей clients.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository создаёт экземпляр репозитория.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create создаёт нового клиента.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (first_name, last_name, email, phone, address, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		client.FirstName, client.LastName, client.Email,
		client.Phone, client.Address, client.PasswordHash, client.IsAdmin,
	).Scan(&client.ID, &client.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperror.ErrEmailTaken
		}
		return fmt.Errorf("client repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает клиента по email.
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	query := `
		SELECT id, first_name, last_name, email, phone, address, password_hash, is_admin, created_at
		FROM clients
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &client, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrClientNotFound
		}
		return nil, fmt.Errorf("client repository: get by email %w", err)
	}

	return &client, nil
}

// GetByID возвращает клиента по идентификатору.
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	query := `
		SELECT id, first_name, last_name, email, phone, address, password_hash, is_admin, created_at
		FROM clients
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrClientNotFound
		}
		return nil, fmt.Errorf("client repository: get by id %w", err)
	}

	return &client, nil
}
