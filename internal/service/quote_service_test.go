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

type mockQuoteRepo struct {
	mock.Mock
}

func (m *mockQuoteRepo) Create(ctx context.Context, quote *models.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *mockQuoteRepo) GetWithOwner(ctx context.Context, quoteID uuid.UUID) (*models.Quote, uuid.UUID, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, uuid.Nil, args.Error(2)
	}
	return args.Get(0).(*models.Quote), args.Get(1).(uuid.UUID), args.Error(2)
}

func (m *mockQuoteRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Quote, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]models.Quote), args.Error(1)
}

func (m *mockQuoteRepo) Accept(ctx context.Context, quoteID uuid.UUID) (*models.ServiceOrder, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceOrder), args.Error(1)
}

func (m *mockQuoteRepo) SetStatus(ctx context.Context, quoteID uuid.UUID, newStatus string, allowedPrior ...string) error {
	callArgs := []interface{}{ctx, quoteID, newStatus}
	for _, prior := range allowedPrior {
		callArgs = append(callArgs, prior)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *mockQuoteRepo) AddMessage(ctx context.Context, msg *models.NegotiationMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockQuoteRepo) ListMessages(ctx context.Context, requestID uuid.UUID) ([]models.NegotiationMessage, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]models.NegotiationMessage), args.Error(1)
}

// mockRequestRepo — упрощённый репозиторий заявок: хранит заявки в памяти.
type mockRequestRepo struct {
	requests map[uuid.UUID]*models.ServiceRequest
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[uuid.UUID]*models.ServiceRequest)}
}

func (m *mockRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	if req, ok := m.requests[id]; ok {
		return req, nil
	}
	return nil, apperror.ErrRequestNotFound
}

func (m *mockRequestRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ServiceRequest, error) {
	result := []models.ServiceRequest{}
	for _, req := range m.requests {
		if req.ClientID == clientID {
			result = append(result, *req)
		}
	}
	return result, nil
}

func (m *mockRequestRepo) ListPending(ctx context.Context) ([]models.PendingRequest, error) {
	return []models.PendingRequest{}, nil
}

func (m *mockRequestRepo) Reject(ctx context.Context, id uuid.UUID, note string) error {
	req, ok := m.requests[id]
	if !ok {
		return apperror.ErrRequestNotFound
	}
	req.Status = models.RequestStatusRejected
	return nil
}

func (m *mockRequestRepo) AddPhotos(ctx context.Context, requestID uuid.UUID, filePaths []string) error {
	return nil
}

func (m *mockRequestRepo) ListPhotos(ctx context.Context, requestID uuid.UUID) ([]models.RequestPhoto, error) {
	return []models.RequestPhoto{}, nil
}

// mockNotifier запоминает отправленные события.
type mockNotifier struct {
	clientEvents []string
	adminEvents  []string
}

func (m *mockNotifier) NotifyClient(clientID uuid.UUID, event string, data any) error {
	m.clientEvents = append(m.clientEvents, event)
	return nil
}

func (m *mockNotifier) NotifyAdmins(event string, data any) error {
	m.adminEvents = append(m.adminEvents, event)
	return nil
}

func seedRequest(repo *mockRequestRepo, clientID uuid.UUID, status string) *models.ServiceRequest {
	req := &models.ServiceRequest{
		ID:                uuid.New(),
		ClientID:          clientID,
		ServiceAddress:    "ул. Ленина, 1",
		CleaningType:      "генеральная",
		NumRooms:          3,
		PreferredDatetime: time.Now().Add(48 * time.Hour),
		Status:            status,
	}
	repo.requests[req.ID] = req
	return req
}

func TestQuoteService_Issue_NotifiesClient(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	requestRepo := newMockRequestRepo()
	notifier := &mockNotifier{}
	svc := NewQuoteService(quoteRepo, requestRepo, notifier)

	ctx := context.Background()
	clientID := uuid.New()
	req := seedRequest(requestRepo, clientID, models.RequestStatusSubmitted)

	quoteRepo.On("Create", ctx, mock.AnythingOfType("*models.Quote")).Return(nil)

	quote, err := svc.Issue(ctx, IssueQuoteInput{
		RequestID:           req.ID,
		AdjustedPrice:       4500,
		ScheduledTimeWindow: "пятница 10:00-14:00",
	})
	assert.NoError(t, err)
	assert.Equal(t, req.ID, quote.RequestID)
	assert.Equal(t, []string{"quote.received"}, notifier.clientEvents)
	quoteRepo.AssertExpectations(t)
}

func TestQuoteService_Issue_ClosedRequest(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	requestRepo := newMockRequestRepo()
	svc := NewQuoteService(quoteRepo, requestRepo, &mockNotifier{})

	req := seedRequest(requestRepo, uuid.New(), models.RequestStatusAccepted)

	_, err := svc.Issue(context.Background(), IssueQuoteInput{
		RequestID:           req.ID,
		AdjustedPrice:       4500,
		ScheduledTimeWindow: "пятница 10:00-14:00",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	quoteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestQuoteService_Issue_InvalidAmount(t *testing.T) {
	svc := NewQuoteService(new(mockQuoteRepo), newMockRequestRepo(), &mockNotifier{})

	_, err := svc.Issue(context.Background(), IssueQuoteInput{
		RequestID:           uuid.New(),
		AdjustedPrice:       0,
		ScheduledTimeWindow: "пятница 10:00-14:00",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestQuoteService_Accept_OwnershipEnforced(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	svc := NewQuoteService(quoteRepo, newMockRequestRepo(), &mockNotifier{})

	ctx := context.Background()
	quoteID := uuid.New()
	ownerID := uuid.New()
	strangerID := uuid.New()

	quote := &models.Quote{ID: quoteID, Status: models.QuoteStatusPending}
	quoteRepo.On("GetWithOwner", ctx, quoteID).Return(quote, ownerID, nil)

	_, err := svc.Accept(ctx, quoteID, strangerID)
	assert.True(t, apperror.IsForbidden(err))
	quoteRepo.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
}

func TestQuoteService_Accept_CreatesOrder(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	svc := NewQuoteService(quoteRepo, newMockRequestRepo(), &mockNotifier{})

	ctx := context.Background()
	quoteID := uuid.New()
	ownerID := uuid.New()

	quote := &models.Quote{ID: quoteID, AdjustedPrice: 4500, Status: models.QuoteStatusPending}
	order := &models.ServiceOrder{ID: uuid.New(), QuoteID: quoteID, ClientID: ownerID, Price: 4500}
	quoteRepo.On("GetWithOwner", ctx, quoteID).Return(quote, ownerID, nil)
	quoteRepo.On("Accept", ctx, quoteID).Return(order, nil)

	got, err := svc.Accept(ctx, quoteID, ownerID)
	assert.NoError(t, err)
	assert.Equal(t, order, got)
	quoteRepo.AssertExpectations(t)
}

func TestQuoteService_Counter_NotifiesAdmins(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	notifier := &mockNotifier{}
	svc := NewQuoteService(quoteRepo, newMockRequestRepo(), notifier)

	ctx := context.Background()
	quoteID := uuid.New()
	ownerID := uuid.New()
	requestID := uuid.New()

	quote := &models.Quote{ID: quoteID, RequestID: requestID, Status: models.QuoteStatusPending}
	quoteRepo.On("GetWithOwner", ctx, quoteID).Return(quote, ownerID, nil)
	quoteRepo.On("SetStatus", ctx, quoteID, models.QuoteStatusCountered,
		models.QuoteStatusPending, models.QuoteStatusCountered).Return(nil)
	quoteRepo.On("AddMessage", ctx, mock.AnythingOfType("*models.NegotiationMessage")).Return(nil)

	msg, err := svc.Counter(ctx, quoteID, ownerID, "Дорого, давайте за 4000")
	assert.NoError(t, err)
	assert.Equal(t, models.SenderClient, msg.Sender)
	assert.Equal(t, requestID, msg.RequestID)
	assert.Equal(t, []string{"quote.countered"}, notifier.adminEvents)
	quoteRepo.AssertExpectations(t)
}

func TestQuoteService_Cancel_OnlyOwner(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	svc := NewQuoteService(quoteRepo, newMockRequestRepo(), &mockNotifier{})

	ctx := context.Background()
	quoteID := uuid.New()
	ownerID := uuid.New()

	quote := &models.Quote{ID: quoteID, Status: models.QuoteStatusPending}
	quoteRepo.On("GetWithOwner", ctx, quoteID).Return(quote, ownerID, nil)

	err := svc.Cancel(ctx, quoteID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	quoteRepo.On("SetStatus", ctx, quoteID, models.QuoteStatusRejected,
		models.QuoteStatusPending, models.QuoteStatusCountered).Return(nil)

	err = svc.Cancel(ctx, quoteID, ownerID)
	assert.NoError(t, err)
	quoteRepo.AssertExpectations(t)
}

func TestQuoteService_SendMessage_SenderByRole(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	requestRepo := newMockRequestRepo()
	notifier := &mockNotifier{}
	svc := NewQuoteService(quoteRepo, requestRepo, notifier)

	ctx := context.Background()
	clientID := uuid.New()
	req := seedRequest(requestRepo, clientID, models.RequestStatusInNegotiation)

	quoteRepo.On("AddMessage", ctx, mock.AnythingOfType("*models.NegotiationMessage")).Return(nil)

	msg, err := svc.SendMessage(ctx, req.ID, clientID, false, "Когда сможете приехать?")
	assert.NoError(t, err)
	assert.Equal(t, models.SenderClient, msg.Sender)

	msg, err = svc.SendMessage(ctx, req.ID, uuid.New(), true, "Могу в пятницу.")
	assert.NoError(t, err)
	assert.Equal(t, models.SenderAnna, msg.Sender)

	// Клиентское сообщение уходит администраторам, админское — клиенту.
	assert.Equal(t, []string{"message.received"}, notifier.adminEvents)
	assert.Equal(t, []string{"message.received"}, notifier.clientEvents)
}

func TestQuoteService_SendMessage_StrangerForbidden(t *testing.T) {
	quoteRepo := new(mockQuoteRepo)
	requestRepo := newMockRequestRepo()
	svc := NewQuoteService(quoteRepo, requestRepo, &mockNotifier{})

	req := seedRequest(requestRepo, uuid.New(), models.RequestStatusInNegotiation)

	_, err := svc.SendMessage(context.Background(), req.ID, uuid.New(), false, "привет")
	assert.True(t, apperror.IsForbidden(err))
	quoteRepo.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
}
