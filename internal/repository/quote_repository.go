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

// QuoteRepository отвечает за таблицы quotes и negotiation_messages.
type QuoteRepository struct {
	db *sqlx.DB
}

// NewQuoteRepository создаёт экземпляр репозитория.
func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// quoteWithOwner — предложение вместе с владельцем и статусом заявки.
type quoteWithOwner struct {
	models.Quote
	ClientID      uuid.UUID `db:"client_id"`
	RequestStatus string    `db:"request_status"`
}

// Create сохраняет новое предложение и переводит заявку в in_negotiation.
// Две записи выполняются в одной транзакции: предложение без смены статуса
// заявки (и наоборот) оставило бы журнал в полусостоянии.
func (r *QuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("quote repository: create begin %w", err)
	}
	defer tx.Rollback()

	var requestExists bool
	if err := tx.GetContext(ctx, &requestExists,
		`SELECT EXISTS (SELECT 1 FROM service_requests WHERE id = $1)`, quote.RequestID); err != nil {
		return fmt.Errorf("quote repository: create check request %w", err)
	}
	if !requestExists {
		return apperror.ErrRequestNotFound
	}

	quote.Status = models.QuoteStatusPending
	if err := tx.QueryRowxContext(ctx, `
		INSERT INTO quotes (request_id, adjusted_price, scheduled_time_window, note, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, quote.RequestID, quote.AdjustedPrice, quote.ScheduledTimeWindow, quote.Note, quote.Status,
	).Scan(&quote.ID, &quote.CreatedAt); err != nil {
		return fmt.Errorf("quote repository: create insert %w", err)
	}

	// Повторный вход в in_negotiation допустим: заявка в торге может
	// получать новые предложения.
	if _, err := tx.ExecContext(ctx, `
		UPDATE service_requests SET status = $1
		WHERE id = $2 AND status IN ($3, $1)
	`, models.RequestStatusInNegotiation, quote.RequestID, models.RequestStatusSubmitted); err != nil {
		return fmt.Errorf("quote repository: create update request %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("quote repository: create commit %w", err)
	}

	return nil
}

// GetWithOwner возвращает предложение вместе с владельцем заявки.
func (r *QuoteRepository) GetWithOwner(ctx context.Context, quoteID uuid.UUID) (*models.Quote, uuid.UUID, error) {
	var row quoteWithOwner
	query := `
		SELECT q.id, q.request_id, q.adjusted_price, q.scheduled_time_window,
		       q.note, q.status, q.created_at,
		       r.client_id, r.status AS request_status
		FROM quotes q
		JOIN service_requests r ON q.request_id = r.id
		WHERE q.id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, quoteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, uuid.Nil, apperror.ErrQuoteNotFound
		}
		return nil, uuid.Nil, fmt.Errorf("quote repository: get with owner %w", err)
	}

	return &row.Quote, row.ClientID, nil
}

// ListByRequest возвращает историю предложений по заявке, новые сверху.
func (r *QuoteRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Quote, error) {
	query := `
		SELECT id, request_id, adjusted_price, scheduled_time_window, note, status, created_at
		FROM quotes
		WHERE request_id = $1
		ORDER BY created_at DESC
	`

	quotes := []models.Quote{}
	if err := r.db.SelectContext(ctx, &quotes, query, requestID); err != nil {
		return nil, fmt.Errorf("quote repository: list by request %w", err)
	}

	return quotes, nil
}

// Accept атомарно принимает предложение: предложение → accepted, остальные
// предложения заявки → rejected, заявка → accepted, создаётся заказ со
// снимком цены и окна времени. Если заявка уже закрыта (принята или
// отклонена), операция отклоняется целиком.
func (r *QuoteRepository) Accept(ctx context.Context, quoteID uuid.UUID) (*models.ServiceOrder, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("quote repository: accept begin %w", err)
	}
	defer tx.Rollback()

	// Блокируем заявку и предложение до конца транзакции, чтобы
	// конкурирующие accept не прошли оба.
	var row quoteWithOwner
	if err := tx.GetContext(ctx, &row, `
		SELECT q.id, q.request_id, q.adjusted_price, q.scheduled_time_window,
		       q.note, q.status, q.created_at,
		       r.client_id, r.status AS request_status
		FROM quotes q
		JOIN service_requests r ON q.request_id = r.id
		WHERE q.id = $1
		FOR UPDATE
	`, quoteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("quote repository: accept lock %w", err)
	}

	if row.RequestStatus == models.RequestStatusAccepted {
		return nil, apperror.ErrRequestClosed
	}
	// Отклонение заявки терминально: предложения, оставшиеся pending,
	// принять уже нельзя, иначе accept воскресит отклонённую заявку.
	if row.RequestStatus == models.RequestStatusRejected {
		return nil, apperror.New(apperror.ErrCodeConflict, "заявка уже отклонена")
	}
	if row.Quote.Status == models.QuoteStatusRejected {
		return nil, apperror.New(apperror.ErrCodeConflict, "предложение уже отклонено")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE quotes SET status = $1 WHERE id = $2`,
		models.QuoteStatusAccepted, quoteID); err != nil {
		return nil, fmt.Errorf("quote repository: accept quote %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE quotes SET status = $1 WHERE request_id = $2 AND id <> $3`,
		models.QuoteStatusRejected, row.RequestID, quoteID); err != nil {
		return nil, fmt.Errorf("quote repository: reject siblings %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE service_requests SET status = $1 WHERE id = $2`,
		models.RequestStatusAccepted, row.RequestID); err != nil {
		return nil, fmt.Errorf("quote repository: accept request %w", err)
	}

	order := &models.ServiceOrder{
		RequestID:           row.RequestID,
		QuoteID:             quoteID,
		ClientID:            row.ClientID,
		Price:               row.AdjustedPrice,
		ScheduledTimeWindow: row.ScheduledTimeWindow,
	}
	if err := tx.QueryRowxContext(ctx, `
		INSERT INTO service_orders (request_id, quote_id, client_id, price, scheduled_time_window)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, order.RequestID, order.QuoteID, order.ClientID, order.Price, order.ScheduledTimeWindow,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, fmt.Errorf("quote repository: create order %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("quote repository: accept commit %w", err)
	}

	return order, nil
}

// SetStatus переводит предложение в новый статус при условии, что текущий
// статус допускает переход (compare-and-swap по prior статусам).
func (r *QuoteRepository) SetStatus(ctx context.Context, quoteID uuid.UUID, newStatus string, allowedPrior ...string) error {
	if err := models.ValidateQuoteStatus(newStatus); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	query, args, err := sqlx.In(
		`UPDATE quotes SET status = ? WHERE id = ? AND status IN (?)`,
		newStatus, quoteID, allowedPrior)
	if err != nil {
		return fmt.Errorf("quote repository: set status build %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("quote repository: set status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("quote repository: set status rows affected %w", err)
	}
	if affected == 0 {
		return apperror.New(apperror.ErrCodeConflict, "статус предложения уже изменился")
	}

	return nil
}

// AddMessage добавляет сообщение в переписку по заявке.
func (r *QuoteRepository) AddMessage(ctx context.Context, msg *models.NegotiationMessage) error {
	if err := models.ValidateSender(msg.Sender); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if err := r.db.QueryRowxContext(ctx, `
		INSERT INTO negotiation_messages (request_id, sender, text)
		VALUES ($1, $2, $3)
		RETURNING id, sent_at
	`, msg.RequestID, msg.Sender, msg.Text).Scan(&msg.ID, &msg.SentAt); err != nil {
		return fmt.Errorf("quote repository: add message %w", err)
	}

	return nil
}

// ListMessages возвращает историю переписки по заявке в хронологическом порядке.
func (r *QuoteRepository) ListMessages(ctx context.Context, requestID uuid.UUID) ([]models.NegotiationMessage, error) {
	query := `
		SELECT id, request_id, sender, text, sent_at
		FROM negotiation_messages
		WHERE request_id = $1
		ORDER BY sent_at ASC
	`

	messages := []models.NegotiationMessage{}
	if err := r.db.SelectContext(ctx, &messages, query, requestID); err != nil {
		return nil, fmt.Errorf("quote repository: list messages %w", err)
	}

	return messages, nil
}
