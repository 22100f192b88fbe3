package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// newMockDB создаёт sqlx-обёртку над sqlmock с regexp-сопоставлением запросов.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("не удалось создать mock базы: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mock
}

// acceptLockRows — строка, которую Accept читает под блокировкой.
func acceptLockRows(quoteID, requestID, clientID uuid.UUID, quoteStatus, requestStatus string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "request_id", "adjusted_price", "scheduled_time_window",
		"note", "status", "created_at", "client_id", "request_status",
	}).AddRow(
		quoteID.String(), requestID.String(), 120.0, "сб 10:00-14:00",
		nil, quoteStatus, time.Now(), clientID.String(), requestStatus,
	)
}

func TestQuoteRepository_Accept(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	quoteID := uuid.New()
	requestID := uuid.New()
	clientID := uuid.New()
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT q\.id`).
		WithArgs(quoteID).
		WillReturnRows(acceptLockRows(quoteID, requestID, clientID,
			models.QuoteStatusPending, models.RequestStatusInNegotiation))
	mock.ExpectExec(`UPDATE quotes SET status = \$1 WHERE id = \$2`).
		WithArgs(models.QuoteStatusAccepted, quoteID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE quotes SET status = \$1 WHERE request_id = \$2`).
		WithArgs(models.QuoteStatusRejected, requestID, quoteID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE service_requests SET status`).
		WithArgs(models.RequestStatusAccepted, requestID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO service_orders`).
		WithArgs(requestID, quoteID, clientID, 120.0, "сб 10:00-14:00").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(orderID.String(), time.Now()))
	mock.ExpectCommit()

	order, err := repo.Accept(context.Background(), quoteID)
	if err != nil {
		t.Fatalf("ожидали успешное принятие, получили: %v", err)
	}
	if order.ID != orderID {
		t.Fatalf("ожидали заказ %s, получили %s", orderID, order.ID)
	}
	if order.Price != 120.0 {
		t.Fatalf("цена заказа должна копировать предложение, получили %v", order.Price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("не все ожидания выполнены: %v", err)
	}
}

func TestQuoteRepository_Accept_RequestAlreadyAccepted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	quoteID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT q\.id`).
		WithArgs(quoteID).
		WillReturnRows(acceptLockRows(quoteID, uuid.New(), uuid.New(),
			models.QuoteStatusPending, models.RequestStatusAccepted))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), quoteID)
	if !errors.Is(err, apperror.ErrRequestClosed) {
		t.Fatalf("повторное принятие по закрытой заявке должно давать конфликт, получили: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("не все ожидания выполнены: %v", err)
	}
}

func TestQuoteRepository_Accept_RequestRejected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	quoteID := uuid.New()

	// Заявка отклонена администратором, предложение осталось pending:
	// принять его нельзя, заказ не создаётся.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT q\.id`).
		WithArgs(quoteID).
		WillReturnRows(acceptLockRows(quoteID, uuid.New(), uuid.New(),
			models.QuoteStatusPending, models.RequestStatusRejected))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), quoteID)
	if !apperror.IsConflict(err) {
		t.Fatalf("принятие предложения по отклонённой заявке должно давать конфликт, получили: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("не все ожидания выполнены: %v", err)
	}
}

func TestQuoteRepository_Accept_QuoteRejected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	quoteID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT q\.id`).
		WithArgs(quoteID).
		WillReturnRows(acceptLockRows(quoteID, uuid.New(), uuid.New(),
			models.QuoteStatusRejected, models.RequestStatusInNegotiation))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), quoteID)
	if !apperror.IsConflict(err) {
		t.Fatalf("принятие отклонённого предложения должно давать конфликт, получили: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("не все ожидания выполнены: %v", err)
	}
}

func TestQuoteRepository_Accept_QuoteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuoteRepository(db)

	quoteID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT q\.id`).
		WithArgs(quoteID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), quoteID)
	if !errors.Is(err, apperror.ErrQuoteNotFound) {
		t.Fatalf("ожидали ErrQuoteNotFound, получили: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("не все ожидания выполнены: %v", err)
	}
}
