package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// OrderRepository описывает зависимости OrderService от слоя хранилища.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientOrder, error)
	ListAll(ctx context.Context) ([]models.AdminOrder, error)
	Complete(ctx context.Context, id uuid.UUID) error
}

// OrderService инкапсулирует работу с заказами. Заказы создаются только
// при принятии предложения, поэтому здесь нет операции создания.
type OrderService struct {
	repo OrderRepository
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Get возвращает заказ с проверкой доступа.
func (s *OrderService) Get(ctx context.Context, orderID, clientID uuid.UUID, isAdmin bool) (*models.ServiceOrder, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return order, nil
}

// ListForClient возвращает заказы клиента.
func (s *OrderService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientOrder, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListAll возвращает все заказы для админского списка.
func (s *OrderService) ListAll(ctx context.Context) ([]models.AdminOrder, error) {
	return s.repo.ListAll(ctx)
}

// Complete отмечает заказ выполненным.
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) error {
	return s.repo.Complete(ctx, orderID)
}
