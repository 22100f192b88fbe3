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

// OrderRepository отвечает за таблицу service_orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository создаёт экземпляр репозитория.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	query := `
		SELECT id, request_id, quote_id, client_id, price,
		       scheduled_time_window, created_at, completed_at
		FROM service_orders
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}

	return &order, nil
}

// ListByClient возвращает заказы клиента вместе с данными исходной заявки.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientOrder, error) {
	query := `
		SELECT o.id, o.request_id, o.quote_id, o.client_id, o.price,
		       o.scheduled_time_window, o.created_at, o.completed_at,
		       r.service_address, r.cleaning_type
		FROM service_orders o
		JOIN service_requests r ON o.request_id = r.id
		WHERE o.client_id = $1
		ORDER BY o.created_at DESC
	`

	orders := []models.ClientOrder{}
	if err := r.db.SelectContext(ctx, &orders, query, clientID); err != nil {
		return nil, fmt.Errorf("order repository: list by client %w", err)
	}

	return orders, nil
}

// ListAll возвращает все заказы вместе с именем клиента для админского списка.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.AdminOrder, error) {
	query := `
		SELECT o.id, o.request_id, o.quote_id, o.client_id, o.price,
		       o.scheduled_time_window, o.created_at, o.completed_at,
		       c.first_name, c.last_name
		FROM service_orders o
		JOIN clients c ON o.client_id = c.id
		ORDER BY o.created_at DESC
	`

	orders := []models.AdminOrder{}
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("order repository: list all %w", err)
	}

	return orders, nil
}

// Complete отмечает заказ завершённым. Повторный вызов переписывает
// отметку времени: операция идемпотентна по статусу, но не по времени.
func (r *OrderRepository) Complete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE service_orders SET completed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("order repository: complete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: complete rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrOrderNotFound
	}

	return nil
}
