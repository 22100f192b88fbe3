package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/annaclean/cleanmarket-backend/internal/logger"
	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
	"github.com/annaclean/cleanmarket-backend/internal/validation"
	"github.com/annaclean/cleanmarket-backend/internal/ws"
)

// BillRepository описывает зависимости BillingService от слоя хранилища.
type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClientBill, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.ClientBill, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientBill, error)
	ListAll(ctx context.Context) ([]models.AdminBill, error)
	Pay(ctx context.Context, id uuid.UUID) error
	Dispute(ctx context.Context, id uuid.UUID, note string) error
	CancelDispute(ctx context.Context, id uuid.UUID) error
	Respond(ctx context.Context, response *models.BillResponse) error
	Revise(ctx context.Context, id uuid.UUID, newAmount float64, note string) error
	ListResponses(ctx context.Context, billID uuid.UUID) ([]models.BillResponse, error)
}

// BillingService инкапсулирует выставление и оплату счетов вместе со спорами.
type BillingService struct {
	repo     BillRepository
	notifier Notifier
}

// NewBillingService создаёт сервис счетов.
func NewBillingService(repo BillRepository, notifier Notifier) *BillingService {
	return &BillingService{
		repo:     repo,
		notifier: notifier,
	}
}

// Issue выставляет счёт по заказу и уведомляет клиента.
func (s *BillingService) Issue(ctx context.Context, orderID uuid.UUID, amount float64) (*models.Bill, error) {
	if err := validation.ValidateAmount("сумма счёта", amount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	bill := &models.Bill{
		OrderID: orderID,
		Amount:  amount,
	}
	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.notifyBillOwner(ctx, bill.ID, ws.EventBillUpdated, bill)

	return bill, nil
}

// Get возвращает счёт с проверкой доступа.
func (s *BillingService) Get(ctx context.Context, billID, clientID uuid.UUID, isAdmin bool) (*models.ClientBill, error) {
	bill, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && bill.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return bill, nil
}

// GetForOrder возвращает счёт по заказу с проверкой доступа.
func (s *BillingService) GetForOrder(ctx context.Context, orderID, clientID uuid.UUID, isAdmin bool) (*models.ClientBill, error) {
	bill, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && bill.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return bill, nil
}

// ListForClient возвращает счета клиента.
func (s *BillingService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientBill, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListAll возвращает все счета для админского списка.
func (s *BillingService) ListAll(ctx context.Context) ([]models.AdminBill, error) {
	return s.repo.ListAll(ctx)
}

// Pay отмечает счёт оплаченным от имени владельца.
func (s *BillingService) Pay(ctx context.Context, billID, clientID uuid.UUID) error {
	bill, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return err
	}
	if bill.ClientID != clientID {
		return apperror.ErrForbidden
	}

	return s.repo.Pay(ctx, billID)
}

// Dispute оспаривает счёт: статус переходит в disputed, причина клиента
// попадает в историю спора, администратор получает событие.
func (s *BillingService) Dispute(ctx context.Context, billID, clientID uuid.UUID, note string) error {
	if err := validation.ValidateMessageContent(note); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	bill, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return err
	}
	if bill.ClientID != clientID {
		return apperror.ErrForbidden
	}

	if err := s.repo.Dispute(ctx, billID, strings.TrimSpace(note)); err != nil {
		return err
	}

	s.notify(func() error {
		return s.notifier.NotifyAdmins(ws.EventBillDisputed, bill)
	})

	return nil
}

// CancelDispute снимает спор, счёт возвращается в unpaid.
func (s *BillingService) CancelDispute(ctx context.Context, billID, clientID uuid.UUID) error {
	bill, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return err
	}
	if bill.ClientID != clientID {
		return apperror.ErrForbidden
	}

	return s.repo.CancelDispute(ctx, billID)
}

// Respond добавляет ответ администратора в историю спора и уведомляет клиента.
func (s *BillingService) Respond(ctx context.Context, billID uuid.UUID, note string) (*models.BillResponse, error) {
	if err := validation.ValidateMessageContent(note); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	response := &models.BillResponse{
		BillID: billID,
		Sender: models.SenderAnna,
		Note:   strings.TrimSpace(note),
	}
	if err := s.repo.Respond(ctx, response); err != nil {
		return nil, err
	}

	s.notifyBillOwner(ctx, billID, ws.EventBillUpdated, response)

	return response, nil
}

// Revise пересматривает сумму спорного счёта. Счёт возвращается в unpaid,
// клиент получает событие.
func (s *BillingService) Revise(ctx context.Context, billID uuid.UUID, newAmount float64, note string) error {
	if err := validation.ValidateAmount("сумма счёта", newAmount); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if err := s.repo.Revise(ctx, billID, newAmount, strings.TrimSpace(note)); err != nil {
		return err
	}

	s.notifyBillOwner(ctx, billID, ws.EventBillUpdated, map[string]any{
		"bill_id": billID,
		"amount":  newAmount,
		"status":  models.BillStatusUnpaid,
	})

	return nil
}

// Responses возвращает историю спора по счёту с проверкой доступа.
func (s *BillingService) Responses(ctx context.Context, billID, clientID uuid.UUID, isAdmin bool) ([]models.BillResponse, error) {
	bill, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && bill.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return s.repo.ListResponses(ctx, billID)
}

// notifyBillOwner отправляет событие владельцу счёта.
func (s *BillingService) notifyBillOwner(ctx context.Context, billID uuid.UUID, event string, data any) {
	if s.notifier == nil {
		return
	}

	bill, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		logger.WithComponent("billing_service").WithError(err).Warn("не удалось найти владельца счёта")
		return
	}

	s.notify(func() error {
		return s.notifier.NotifyClient(bill.ClientID, event, data)
	})
}

func (s *BillingService) notify(fn func() error) {
	if s.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		logger.WithComponent("billing_service").WithError(err).Warn("не удалось отправить событие")
	}
}
