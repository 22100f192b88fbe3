package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// mockPhotoStore сохраняет имена файлов без записи на диск.
type mockPhotoStore struct {
	saved []string
}

func (m *mockPhotoStore) Save(ctx context.Context, requestID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	path := fmt.Sprintf("%s/%s", requestID, originalName)
	m.saved = append(m.saved, path)
	return path, 0, nil
}

func TestRequestService_Submit(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewRequestService(repo, &mockPhotoStore{}, 5)

	ctx := context.Background()
	clientID := uuid.New()

	req, err := svc.Submit(ctx, SubmitRequestInput{
		ClientID:          clientID,
		ServiceAddress:    "ул. Ленина, 1",
		CleaningType:      "генеральная",
		NumRooms:          3,
		PreferredDatetime: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("submit вернул ошибку: %v", err)
	}

	if req.ID == uuid.Nil {
		t.Fatalf("request ID должен быть установлен")
	}
	if req.ClientID != clientID {
		t.Fatalf("заявка привязана к чужому клиенту")
	}
}

func TestRequestService_Submit_Validation(t *testing.T) {
	svc := NewRequestService(newMockRequestRepo(), &mockPhotoStore{}, 5)
	ctx := context.Background()

	base := SubmitRequestInput{
		ClientID:          uuid.New(),
		ServiceAddress:    "ул. Ленина, 1",
		CleaningType:      "генеральная",
		NumRooms:          3,
		PreferredDatetime: time.Now().Add(48 * time.Hour),
	}

	cases := []struct {
		name   string
		mutate func(in *SubmitRequestInput)
	}{
		{"пустой адрес", func(in *SubmitRequestInput) { in.ServiceAddress = "  " }},
		{"пустой тип уборки", func(in *SubmitRequestInput) { in.CleaningType = "" }},
		{"ноль комнат", func(in *SubmitRequestInput) { in.NumRooms = 0 }},
		{"слишком много комнат", func(in *SubmitRequestInput) { in.NumRooms = 100000 }},
		{"нулевая дата", func(in *SubmitRequestInput) { in.PreferredDatetime = time.Time{} }},
		{"отрицательный бюджет", func(in *SubmitRequestInput) {
			budget := -100.0
			in.ProposedBudget = &budget
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if _, err := svc.Submit(ctx, in); !apperror.IsValidation(err) {
				t.Fatalf("ожидалась ошибка валидации, получили %v", err)
			}
		})
	}
}

func TestRequestService_Get_AccessControl(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewRequestService(repo, &mockPhotoStore{}, 5)

	ctx := context.Background()
	ownerID := uuid.New()
	req := seedRequest(repo, ownerID, models.RequestStatusSubmitted)

	if _, err := svc.Get(ctx, req.ID, ownerID, false); err != nil {
		t.Fatalf("владелец должен видеть заявку: %v", err)
	}
	if _, err := svc.Get(ctx, req.ID, uuid.New(), false); !apperror.IsForbidden(err) {
		t.Fatalf("чужая заявка должна давать 403, получили %v", err)
	}
	if _, err := svc.Get(ctx, req.ID, uuid.New(), true); err != nil {
		t.Fatalf("администратор должен видеть любую заявку: %v", err)
	}
}

func TestRequestService_AttachPhotos(t *testing.T) {
	repo := newMockRequestRepo()
	store := &mockPhotoStore{}
	svc := NewRequestService(repo, store, 2)

	ctx := context.Background()
	ownerID := uuid.New()
	req := seedRequest(repo, ownerID, models.RequestStatusSubmitted)

	uploads := []PhotoUpload{
		{Name: "kitchen.jpg", Reader: strings.NewReader("jpeg")},
		{Name: "hall.png", Reader: strings.NewReader("png")},
	}

	paths, err := svc.AttachPhotos(ctx, req.ID, ownerID, uploads)
	if err != nil {
		t.Fatalf("attach вернул ошибку: %v", err)
	}
	if len(paths) != 2 || len(store.saved) != 2 {
		t.Fatalf("ожидались два сохранённых файла")
	}

	// Чужой клиент не может загружать фотографии.
	if _, err := svc.AttachPhotos(ctx, req.ID, uuid.New(), uploads); !apperror.IsForbidden(err) {
		t.Fatalf("ожидался 403, получили %v", err)
	}

	// Превышение лимита файлов.
	tooMany := append(uploads, PhotoUpload{Name: "extra.jpg", Reader: strings.NewReader("x")})
	if _, err := svc.AttachPhotos(ctx, req.ID, ownerID, tooMany); !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации, получили %v", err)
	}
}

func TestRequestService_Reject_RequiresNote(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewRequestService(repo, &mockPhotoStore{}, 5)

	ctx := context.Background()
	req := seedRequest(repo, uuid.New(), models.RequestStatusSubmitted)

	if err := svc.Reject(ctx, req.ID, ""); !apperror.IsValidation(err) {
		t.Fatalf("отклонение без причины должно давать ошибку валидации, получили %v", err)
	}

	if err := svc.Reject(ctx, req.ID, "Не обслуживаем этот район"); err != nil {
		t.Fatalf("reject вернул ошибку: %v", err)
	}
	if req.Status != models.RequestStatusRejected {
		t.Fatalf("заявка должна перейти в rejected")
	}
}
