package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	clientsByEmail map[string]*models.Client
	clientsByID    map[uuid.UUID]*models.Client
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		clientsByEmail: make(map[string]*models.Client),
		clientsByID:    make(map[uuid.UUID]*models.Client),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, client *models.Client) error {
	if _, ok := m.clientsByEmail[client.Email]; ok {
		return apperror.ErrEmailTaken
	}
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	m.clientsByEmail[client.Email] = client
	m.clientsByID[client.ID] = client
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	if client, ok := m.clientsByEmail[email]; ok {
		return client, nil
	}
	return nil, apperror.ErrClientNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	if client, ok := m.clientsByID[id]; ok {
		return client, nil
	}
	return nil, apperror.ErrClientNotFound
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("secret", 8*time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	res, err := service.Register(ctx, RegisterInput{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Password:  "Password123",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if res.Client.ID == uuid.Nil {
		t.Fatalf("client ID должен быть установлен")
	}
	if res.Token == "" {
		t.Fatalf("ожидался токен")
	}

	loginRes, err := service.Login(ctx, LoginInput{
		Email:    "ivan@example.com",
		Password: "Password123",
	})
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	clientID, isAdmin, err := tokenManager.ParseAccess(loginRes.Token)
	if err != nil {
		t.Fatalf("токен не распарсился: %v", err)
	}
	if clientID != res.Client.ID {
		t.Fatalf("в токене чужой client ID")
	}
	if isAdmin {
		t.Fatalf("обычный клиент не должен быть администратором")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockAuthRepository()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour))

	ctx := context.Background()
	in := RegisterInput{
		FirstName: "Анна",
		LastName:  "Иванова",
		Email:     "anna@example.com",
		Password:  "Password123",
	}

	if _, err := service.Register(ctx, in); err != nil {
		t.Fatalf("первая регистрация вернула ошибку: %v", err)
	}

	_, err := service.Register(ctx, in)
	if !errors.Is(err, apperror.ErrEmailTaken) {
		t.Fatalf("ожидалась ошибка ErrEmailTaken, получили %v", err)
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	service := NewAuthService(newMockAuthRepository(), NewTokenManager("secret", time.Hour))

	_, err := service.Register(context.Background(), RegisterInput{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Password:  "short",
	})
	if !apperror.IsValidation(err) {
		t.Fatalf("ожидалась ошибка валидации, получили %v", err)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo := newMockAuthRepository()
	service := NewAuthService(repo, NewTokenManager("secret", time.Hour))
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	client := &models.Client{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
	}
	repo.clientsByEmail[client.Email] = client
	repo.clientsByID[client.ID] = client

	// Неизвестный email и неверный пароль дают одинаковый ответ.
	_, err := service.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Password123"})
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials для неизвестного email, получили %v", err)
	}

	_, err = service.Login(ctx, LoginInput{Email: "ivan@example.com", Password: "WrongPass1"})
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials для неверного пароля, получили %v", err)
	}

	// Битый email не должен выдавать себя отдельным кодом ошибки.
	_, err = service.Login(ctx, LoginInput{Email: "не-адрес", Password: "Password123"})
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials для битого email, получили %v", err)
	}
}

func TestTokenManager_ParseAccess_AdminFlag(t *testing.T) {
	tokenManager := NewTokenManager("secret", time.Hour)

	admin := &models.Client{ID: uuid.New(), IsAdmin: true}
	token, _, err := tokenManager.Generate(admin)
	if err != nil {
		t.Fatalf("generate вернул ошибку: %v", err)
	}

	clientID, isAdmin, err := tokenManager.ParseAccess(token)
	if err != nil {
		t.Fatalf("parse вернул ошибку: %v", err)
	}
	if clientID != admin.ID {
		t.Fatalf("в токене чужой client ID")
	}
	if !isAdmin {
		t.Fatalf("флаг is_admin потерялся")
	}

	// Токен с другим секретом не должен проходить проверку.
	other := NewTokenManager("other-secret", time.Hour)
	if _, _, err := other.ParseAccess(token); err == nil {
		t.Fatalf("токен с чужим секретом не должен быть валиден")
	}
}
