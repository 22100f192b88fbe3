package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
	"github.com/annaclean/cleanmarket-backend/internal/validation"
)

// RequestRepository описывает зависимости RequestService от слоя хранилища.
type RequestRepository interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ServiceRequest, error)
	ListPending(ctx context.Context) ([]models.PendingRequest, error)
	Reject(ctx context.Context, id uuid.UUID, note string) error
	AddPhotos(ctx context.Context, requestID uuid.UUID, filePaths []string) error
	ListPhotos(ctx context.Context, requestID uuid.UUID) ([]models.RequestPhoto, error)
}

// PhotoStore сохраняет файлы фотографий на диск.
type PhotoStore interface {
	Save(ctx context.Context, requestID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
}

// RequestService инкапсулирует работу с заявками на уборку.
type RequestService struct {
	repo      RequestRepository
	photos    PhotoStore
	maxPhotos int
}

// SubmitRequestInput содержит данные новой заявки.
type SubmitRequestInput struct {
	ClientID          uuid.UUID
	ServiceAddress    string
	CleaningType      string
	NumRooms          int
	PreferredDatetime time.Time
	ProposedBudget    *float64
	Notes             *string
}

// PhotoUpload — один загружаемый файл.
type PhotoUpload struct {
	Name   string
	Reader io.Reader
}

// NewRequestService создаёт сервис заявок.
func NewRequestService(repo RequestRepository, photos PhotoStore, maxPhotos int) *RequestService {
	return &RequestService{
		repo:      repo,
		photos:    photos,
		maxPhotos: maxPhotos,
	}
}

// Submit создаёт новую заявку на уборку.
func (s *RequestService) Submit(ctx context.Context, in SubmitRequestInput) (*models.ServiceRequest, error) {
	if err := validation.ValidateNonEmpty("адрес", in.ServiceAddress); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("адрес", in.ServiceAddress, 1, validation.MaxAddressLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("тип уборки", in.CleaningType); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("тип уборки", in.CleaningType, 1, validation.MaxCleaningTypeLen); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNumRooms(in.NumRooms); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.PreferredDatetime.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "желаемая дата обязательна")
	}
	if in.ProposedBudget != nil {
		if err := validation.ValidateAmount("предлагаемая цена", *in.ProposedBudget); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if in.Notes != nil {
		if err := validation.ValidateLength("примечание", *in.Notes, 0, validation.MaxNoteLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	req := &models.ServiceRequest{
		ClientID:          in.ClientID,
		ServiceAddress:    strings.TrimSpace(in.ServiceAddress),
		CleaningType:      strings.TrimSpace(in.CleaningType),
		NumRooms:          in.NumRooms,
		PreferredDatetime: in.PreferredDatetime,
		ProposedBudget:    in.ProposedBudget,
		Notes:             in.Notes,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// Get возвращает заявку. Клиент видит только свои заявки,
// администратор — любые.
func (s *RequestService) Get(ctx context.Context, requestID, clientID uuid.UUID, isAdmin bool) (*models.ServiceRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return req, nil
}

// ListForClient возвращает заявки клиента.
func (s *RequestService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.ServiceRequest, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListPending возвращает открытые заявки для админского списка.
func (s *RequestService) ListPending(ctx context.Context) ([]models.PendingRequest, error) {
	return s.repo.ListPending(ctx)
}

// Reject отклоняет заявку с примечанием администратора.
func (s *RequestService) Reject(ctx context.Context, requestID uuid.UUID, note string) error {
	if err := validation.ValidateNonEmpty("причина отклонения", note); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("причина отклонения", note, 1, validation.MaxNoteLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	return s.repo.Reject(ctx, requestID, strings.TrimSpace(note))
}

// AttachPhotos сохраняет фотографии помещения и привязывает их к заявке.
// Загружать фотографии может только владелец заявки.
func (s *RequestService) AttachPhotos(ctx context.Context, requestID, clientID uuid.UUID, uploads []PhotoUpload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "не передано ни одного файла")
	}
	if len(uploads) > s.maxPhotos {
		return nil, apperror.New(apperror.ErrCodeValidation, "слишком много файлов")
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	paths := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		path, _, err := s.photos.Save(ctx, requestID, upload.Name, upload.Reader)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	if err := s.repo.AddPhotos(ctx, requestID, paths); err != nil {
		return nil, err
	}

	return paths, nil
}

// Photos возвращает фотографии заявки с проверкой доступа.
func (s *RequestService) Photos(ctx context.Context, requestID, clientID uuid.UUID, isAdmin bool) ([]models.RequestPhoto, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	return s.repo.ListPhotos(ctx, requestID)
}
