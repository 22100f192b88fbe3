package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

type mockBillRepo struct {
	mock.Mock
}

func (m *mockBillRepo) Create(ctx context.Context, bill *models.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *mockBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientBill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientBill), args.Error(1)
}

func (m *mockBillRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.ClientBill, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientBill), args.Error(1)
}

func (m *mockBillRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ClientBill, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.ClientBill), args.Error(1)
}

func (m *mockBillRepo) ListAll(ctx context.Context) ([]models.AdminBill, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AdminBill), args.Error(1)
}

func (m *mockBillRepo) Pay(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBillRepo) Dispute(ctx context.Context, id uuid.UUID, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *mockBillRepo) CancelDispute(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBillRepo) Respond(ctx context.Context, response *models.BillResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *mockBillRepo) Revise(ctx context.Context, id uuid.UUID, newAmount float64, note string) error {
	args := m.Called(ctx, id, newAmount, note)
	return args.Error(0)
}

func (m *mockBillRepo) ListResponses(ctx context.Context, billID uuid.UUID) ([]models.BillResponse, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).([]models.BillResponse), args.Error(1)
}

func clientBill(billID, clientID uuid.UUID, status string) *models.ClientBill {
	return &models.ClientBill{
		Bill: models.Bill{
			ID:          billID,
			OrderID:     uuid.New(),
			Amount:      4500,
			Status:      status,
			GeneratedAt: time.Now(),
			DueDate:     time.Now().Add(7 * 24 * time.Hour),
		},
		ClientID: clientID,
	}
}

func TestBillingService_Issue_InvalidAmount(t *testing.T) {
	repo := new(mockBillRepo)
	svc := NewBillingService(repo, &mockNotifier{})

	_, err := svc.Issue(context.Background(), uuid.New(), 0)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBillingService_Issue_NotifiesClient(t *testing.T) {
	repo := new(mockBillRepo)
	notifier := &mockNotifier{}
	svc := NewBillingService(repo, notifier)

	ctx := context.Background()
	orderID := uuid.New()
	clientID := uuid.New()
	billID := uuid.New()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Bill")).Run(func(args mock.Arguments) {
		bill := args.Get(1).(*models.Bill)
		bill.ID = billID
	}).Return(nil)
	repo.On("GetByID", ctx, billID).Return(clientBill(billID, clientID, models.BillStatusUnpaid), nil)

	bill, err := svc.Issue(ctx, orderID, 4500)
	assert.NoError(t, err)
	assert.Equal(t, orderID, bill.OrderID)
	assert.Equal(t, []string{"bill.updated"}, notifier.clientEvents)
	repo.AssertExpectations(t)
}

func TestBillingService_Pay_OnlyOwner(t *testing.T) {
	repo := new(mockBillRepo)
	svc := NewBillingService(repo, &mockNotifier{})

	ctx := context.Background()
	billID := uuid.New()
	ownerID := uuid.New()

	repo.On("GetByID", ctx, billID).Return(clientBill(billID, ownerID, models.BillStatusUnpaid), nil)

	err := svc.Pay(ctx, billID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything)

	repo.On("Pay", ctx, billID).Return(nil)
	err = svc.Pay(ctx, billID, ownerID)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBillingService_Dispute_NotifiesAdmins(t *testing.T) {
	repo := new(mockBillRepo)
	notifier := &mockNotifier{}
	svc := NewBillingService(repo, notifier)

	ctx := context.Background()
	billID := uuid.New()
	ownerID := uuid.New()

	repo.On("GetByID", ctx, billID).Return(clientBill(billID, ownerID, models.BillStatusUnpaid), nil)
	repo.On("Dispute", ctx, billID, "Сумма не совпадает с договорённостью").Return(nil)

	err := svc.Dispute(ctx, billID, ownerID, "Сумма не совпадает с договорённостью")
	assert.NoError(t, err)
	assert.Equal(t, []string{"bill.disputed"}, notifier.adminEvents)
	repo.AssertExpectations(t)
}

func TestBillingService_Dispute_EmptyReason(t *testing.T) {
	repo := new(mockBillRepo)
	svc := NewBillingService(repo, &mockNotifier{})

	err := svc.Dispute(context.Background(), uuid.New(), uuid.New(), "   ")
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Dispute", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillingService_Revise_NotifiesClient(t *testing.T) {
	repo := new(mockBillRepo)
	notifier := &mockNotifier{}
	svc := NewBillingService(repo, notifier)

	ctx := context.Background()
	billID := uuid.New()
	clientID := uuid.New()

	repo.On("Revise", ctx, billID, float64(4000), "Скидка за неудобства").Return(nil)
	repo.On("GetByID", ctx, billID).Return(clientBill(billID, clientID, models.BillStatusUnpaid), nil)

	err := svc.Revise(ctx, billID, 4000, "Скидка за неудобства")
	assert.NoError(t, err)
	assert.Equal(t, []string{"bill.updated"}, notifier.clientEvents)
	repo.AssertExpectations(t)
}

func TestBillingService_Responses_AccessControl(t *testing.T) {
	repo := new(mockBillRepo)
	svc := NewBillingService(repo, &mockNotifier{})

	ctx := context.Background()
	billID := uuid.New()
	ownerID := uuid.New()

	repo.On("GetByID", ctx, billID).Return(clientBill(billID, ownerID, models.BillStatusDisputed), nil)

	_, err := svc.Responses(ctx, billID, uuid.New(), false)
	assert.True(t, apperror.IsForbidden(err))

	history := []models.BillResponse{{ID: uuid.New(), BillID: billID, Sender: models.SenderClient, Note: "почему так дорого"}}
	repo.On("ListResponses", ctx, billID).Return(history, nil)

	got, err := svc.Responses(ctx, billID, uuid.New(), true)
	assert.NoError(t, err)
	assert.Equal(t, history, got)
}
