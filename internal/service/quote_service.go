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

// Notifier рассылает события по WebSocket. Ошибки доставки не считаются
// ошибками бизнес-операции.
type Notifier interface {
	NotifyClient(clientID uuid.UUID, event string, data any) error
	NotifyAdmins(event string, data any) error
}

// QuoteRepository описывает зависимости QuoteService от слоя хранилища.
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetWithOwner(ctx context.Context, quoteID uuid.UUID) (*models.Quote, uuid.UUID, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Quote, error)
	Accept(ctx context.Context, quoteID uuid.UUID) (*models.ServiceOrder, error)
	SetStatus(ctx context.Context, quoteID uuid.UUID, newStatus string, allowedPrior ...string) error
	AddMessage(ctx context.Context, msg *models.NegotiationMessage) error
	ListMessages(ctx context.Context, requestID uuid.UUID) ([]models.NegotiationMessage, error)
}

// QuoteService инкапсулирует торг: предложения и переписку по заявкам.
type QuoteService struct {
	repo        QuoteRepository
	requestRepo RequestRepository
	notifier    Notifier
}

// IssueQuoteInput содержит данные нового предложения администратора.
type IssueQuoteInput struct {
	RequestID           uuid.UUID
	AdjustedPrice       float64
	ScheduledTimeWindow string
	Note                *string
}

// NewQuoteService создаёт сервис предложений.
func NewQuoteService(repo QuoteRepository, requestRepo RequestRepository, notifier Notifier) *QuoteService {
	return &QuoteService{
		repo:        repo,
		requestRepo: requestRepo,
		notifier:    notifier,
	}
}

// Issue выставляет предложение по заявке и уведомляет её владельца.
func (s *QuoteService) Issue(ctx context.Context, in IssueQuoteInput) (*models.Quote, error) {
	if err := validation.ValidateAmount("цена предложения", in.AdjustedPrice); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateTimeWindow(in.ScheduledTimeWindow); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Note != nil {
		if err := validation.ValidateLength("примечание", *in.Note, 0, validation.MaxNoteLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	req, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status == models.RequestStatusAccepted || req.Status == models.RequestStatusRejected {
		return nil, apperror.New(apperror.ErrCodeConflict, "заявка уже закрыта")
	}

	quote := &models.Quote{
		RequestID:           in.RequestID,
		AdjustedPrice:       in.AdjustedPrice,
		ScheduledTimeWindow: strings.TrimSpace(in.ScheduledTimeWindow),
		Note:                in.Note,
	}
	if err := s.repo.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.notify(func() error {
		return s.notifier.NotifyClient(req.ClientID, ws.EventQuoteReceived, quote)
	})

	return quote, nil
}

// ListForRequest возвращает историю предложений по заявке.
func (s *QuoteService) ListForRequest(ctx context.Context, requestID, clientID uuid.UUID, isAdmin bool) ([]models.Quote, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return s.repo.ListByRequest(ctx, requestID)
}

// Accept принимает предложение от имени клиента. Из принятого предложения
// создаётся заказ со снимком цены и окна времени.
func (s *QuoteService) Accept(ctx context.Context, quoteID, clientID uuid.UUID) (*models.ServiceOrder, error) {
	_, ownerID, err := s.repo.GetWithOwner(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if ownerID != clientID {
		return nil, apperror.ErrForbidden
	}

	return s.repo.Accept(ctx, quoteID)
}

// Counter отклоняет текущие условия: клиент отвечает встречным сообщением,
// предложение переходит в countered, администратор получает событие.
func (s *QuoteService) Counter(ctx context.Context, quoteID, clientID uuid.UUID, text string) (*models.NegotiationMessage, error) {
	if err := validation.ValidateMessageContent(text); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	quote, ownerID, err := s.repo.GetWithOwner(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if ownerID != clientID {
		return nil, apperror.ErrForbidden
	}

	if err := s.repo.SetStatus(ctx, quoteID, models.QuoteStatusCountered,
		models.QuoteStatusPending, models.QuoteStatusCountered); err != nil {
		return nil, err
	}

	msg := &models.NegotiationMessage{
		RequestID: quote.RequestID,
		Sender:    models.SenderClient,
		Text:      strings.TrimSpace(text),
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.notify(func() error {
		return s.notifier.NotifyAdmins(ws.EventQuoteCountered, quote)
	})

	return msg, nil
}

// Cancel отзывает предложение. Отозвать может только владелец заявки,
// принятое предложение отозвать нельзя.
func (s *QuoteService) Cancel(ctx context.Context, quoteID, clientID uuid.UUID) error {
	_, ownerID, err := s.repo.GetWithOwner(ctx, quoteID)
	if err != nil {
		return err
	}
	if ownerID != clientID {
		return apperror.ErrForbidden
	}

	return s.repo.SetStatus(ctx, quoteID, models.QuoteStatusRejected,
		models.QuoteStatusPending, models.QuoteStatusCountered)
}

// SendMessage добавляет сообщение в переписку по заявке и уведомляет
// вторую сторону.
func (s *QuoteService) SendMessage(ctx context.Context, requestID, senderID uuid.UUID, isAdmin bool, text string) (*models.NegotiationMessage, error) {
	if err := validation.ValidateMessageContent(text); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.ClientID != senderID {
		return nil, apperror.ErrForbidden
	}

	sender := models.SenderClient
	if isAdmin {
		sender = models.SenderAnna
	}

	msg := &models.NegotiationMessage{
		RequestID: requestID,
		Sender:    sender,
		Text:      strings.TrimSpace(text),
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.notify(func() error {
		if isAdmin {
			return s.notifier.NotifyClient(req.ClientID, ws.EventMessageReceived, msg)
		}
		return s.notifier.NotifyAdmins(ws.EventMessageReceived, msg)
	})

	return msg, nil
}

// Messages возвращает переписку по заявке с проверкой доступа.
func (s *QuoteService) Messages(ctx context.Context, requestID, clientID uuid.UUID, isAdmin bool) ([]models.NegotiationMessage, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return s.repo.ListMessages(ctx, requestID)
}

func (s *QuoteService) notify(fn func() error) {
	if s.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		logger.WithComponent("quote_service").WithError(err).Warn("не удалось отправить событие")
	}
}
