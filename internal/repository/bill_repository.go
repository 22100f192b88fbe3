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

// BillRepository отвечает за таблицы bills и bill_responses.
type BillRepository struct {
	db *sqlx.DB
}

// NewBillRepository создаёт экземпляр репозитория.
func NewBillRepository(db *sqlx.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Create выставляет счёт по заказу со сроком оплаты через 7 дней.
// Уникальный индекс по order_id гарантирует один счёт на заказ.
func (r *BillRepository) Create(ctx context.Context, bill *models.Bill) error {
	var orderExists bool
	if err := r.db.GetContext(ctx, &orderExists,
		`SELECT EXISTS (SELECT 1 FROM service_orders WHERE id = $1)`, bill.OrderID); err != nil {
		return fmt.Errorf("bill repository: create check order %w", err)
	}
	if !orderExists {
		return apperror.ErrOrderNotFound
	}

	bill.Status = models.BillStatusUnpaid
	if err := r.db.QueryRowxContext(ctx, `
		INSERT INTO bills (order_id, amount, status, due_date)
		VALUES ($1, $2, $3, NOW() + INTERVAL '7 days')
		RETURNING id, generated_at, due_date
	`, bill.OrderID, bill.Amount, bill.Status,
	).Scan(&bill.ID, &bill.GeneratedAt, &bill.DueDate); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperror.ErrBillExists
		}
		return fmt.Errorf("bill repository: create %w", err)
	}

	return nil
}

// GetByID возвращает счёт вместе с владельцем заказа для проверок доступа.
func (r *BillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientBill, error) {
	var bill models.ClientBill
	query := `
		SELECT b.id, b.order_id, b.amount, b.status, b.generated_at, b.due_date, b.paid_at,
		       o.client_id
		FROM bills b
		JOIN service_orders o ON b.order_id = o.id
		WHERE b.id = $1
	`
	if err := r.db.GetContext(ctx, &bill, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBillNotFound
		}
		return nil, fmt.Errorf("bill repository: get by id %w", err)
	}

	return &bill, nil
}

// GetByOrderID возвращает счёт по идентификатору заказа.
func (r *BillRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.ClientBill, error) {
	var bill models.ClientBill
	query := `
		SELECT b.id, b.order_id, b.amount, b.status, b.generated_at, b.due_date, b.paid_at,
		       o.client_id
		FROM bills b
		JOIN service_orders o ON b.order_id = o.id
		WHERE b.order_id = $1
	`
	if err := r.db.GetContext(ctx, &bill, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBillNotFound
		}
		return nil, fmt.Errorf("bill repository: get by order id %w", err)
	}

	return &bill, nil
}

// ListByClient возвращает счета клиента, новые сверху.
func (r *BillRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientBill, error) {
	query := `
		SELECT b.id, b.order_id, b.amount, b.status, b.generated_at, b.due_date, b.paid_at,
		       o.client_id
		FROM bills b
		JOIN service_orders o ON b.order_id = o.id
		WHERE o.client_id = $1
		ORDER BY b.generated_at DESC
	`

	bills := []models.ClientBill{}
	if err := r.db.SelectContext(ctx, &bills, query, clientID); err != nil {
		return nil, fmt.Errorf("bill repository: list by client %w", err)
	}

	return bills, nil
}

// ListAll возвращает все счета для админского списка: сначала спорные и
// неоплаченные, внутри статуса — новые сверху.
func (r *BillRepository) ListAll(ctx context.Context) ([]models.AdminBill, error) {
	query := `
		SELECT b.id, b.order_id, b.amount, b.status, b.generated_at, b.due_date, b.paid_at,
		       c.first_name, c.last_name
		FROM bills b
		JOIN service_orders o ON b.order_id = o.id
		JOIN clients c ON o.client_id = c.id
		ORDER BY b.status ASC, b.generated_at DESC
	`

	bills := []models.AdminBill{}
	if err := r.db.SelectContext(ctx, &bills, query); err != nil {
		return nil, fmt.Errorf("bill repository: list all %w", err)
	}

	return bills, nil
}

// Pay отмечает счёт оплаченным. Оплатить можно только неоплаченный счёт:
// спорный счёт сначала должен вернуться в unpaid.
func (r *BillRepository) Pay(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bills SET status = $1, paid_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.BillStatusPaid, id, models.BillStatusUnpaid)
	if err != nil {
		return fmt.Errorf("bill repository: pay %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("bill repository: pay rows affected %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "счёт нельзя оплатить в текущем статусе")
	}

	return nil
}

// Dispute переводит счёт в спор и записывает первую реплику клиента.
func (r *BillRepository) Dispute(ctx context.Context, id uuid.UUID, note string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bill repository: dispute begin %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE bills SET status = $1
		WHERE id = $2 AND status = $3
	`, models.BillStatusDisputed, id, models.BillStatusUnpaid)
	if err != nil {
		return fmt.Errorf("bill repository: dispute %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("bill repository: dispute rows affected %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "оспорить можно только неоплаченный счёт")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bill_responses (bill_id, sender, note) VALUES ($1, $2, $3)`,
		id, models.SenderClient, note); err != nil {
		return fmt.Errorf("bill repository: dispute note %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bill repository: dispute commit %w", err)
	}

	return nil
}

// CancelDispute снимает спор: счёт возвращается в unpaid, в историю
// добавляется служебная реплика клиента.
func (r *BillRepository) CancelDispute(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bill repository: cancel dispute begin %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE bills SET status = $1
		WHERE id = $2 AND status = $3
	`, models.BillStatusUnpaid, id, models.BillStatusDisputed)
	if err != nil {
		return fmt.Errorf("bill repository: cancel dispute %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("bill repository: cancel dispute rows affected %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "счёт не находится в споре")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bill_responses (bill_id, sender, note) VALUES ($1, $2, $3)`,
		id, models.SenderClient, "Client canceled the dispute."); err != nil {
		return fmt.Errorf("bill repository: cancel dispute note %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bill repository: cancel dispute commit %w", err)
	}

	return nil
}

// Respond добавляет реплику администратора в историю спора.
func (r *BillRepository) Respond(ctx context.Context, response *models.BillResponse) error {
	if err := models.ValidateSender(response.Sender); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	var billExists bool
	if err := r.db.GetContext(ctx, &billExists,
		`SELECT EXISTS (SELECT 1 FROM bills WHERE id = $1)`, response.BillID); err != nil {
		return fmt.Errorf("bill repository: respond check bill %w", err)
	}
	if !billExists {
		return apperror.ErrBillNotFound
	}

	if err := r.db.QueryRowxContext(ctx,
		`INSERT INTO bill_responses (bill_id, sender, note) VALUES ($1, $2, $3) RETURNING id, sent_at`,
		response.BillID, response.Sender, response.Note,
	).Scan(&response.ID, &response.SentAt); err != nil {
		return fmt.Errorf("bill repository: respond %w", err)
	}

	return nil
}

// Revise устанавливает новую сумму спорного счёта и возвращает его в unpaid.
// Необязательная реплика администратора записывается в ту же транзакцию.
func (r *BillRepository) Revise(ctx context.Context, id uuid.UUID, newAmount float64, note string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bill repository: revise begin %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE bills SET amount = $1, status = $2
		WHERE id = $3 AND status = $4
	`, newAmount, models.BillStatusUnpaid, id, models.BillStatusDisputed)
	if err != nil {
		return fmt.Errorf("bill repository: revise %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("bill repository: revise rows affected %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "пересмотреть можно только спорный счёт")
	}

	if note != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bill_responses (bill_id, sender, note) VALUES ($1, $2, $3)`,
			id, models.SenderAnna, note); err != nil {
			return fmt.Errorf("bill repository: revise note %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bill repository: revise commit %w", err)
	}

	return nil
}

// ListResponses возвращает историю спора по счёту в хронологическом порядке.
func (r *BillRepository) ListResponses(ctx context.Context, billID uuid.UUID) ([]models.BillResponse, error) {
	query := `
		SELECT id, bill_id, sender, note, sent_at
		FROM bill_responses
		WHERE bill_id = $1
		ORDER BY sent_at ASC
	`

	responses := []models.BillResponse{}
	if err := r.db.SelectContext(ctx, &responses, query, billID); err != nil {
		return nil, fmt.Errorf("bill repository: list responses %w", err)
	}

	return responses, nil
}
