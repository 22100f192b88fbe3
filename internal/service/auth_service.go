package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
	"github.com/annaclean/cleanmarket-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// AuthService инкапсулирует регистрацию и аутентификацию клиентов.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput содержит данные клиента при регистрации.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Address   *string
	Password  string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	Client    *models.Client
	Token     string
	ExpiresAt time.Time
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт нового клиента и сразу выдаёт токен.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidatePersonName("имя", in.FirstName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePersonName("фамилия", in.LastName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	client := &models.Client{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: string(passHash),
	}

	// Уникальность email обеспечивает индекс: гонку двух регистраций
	// проверкой GetByEmail не закрыть.
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenManager.Generate(client)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}

	return &AuthResult{Client: client, Token: token, ExpiresAt: exp}, nil
}

// Login проверяет учётные данные и возвращает токен. Неизвестный email,
// битый email и неверный пароль дают один и тот же ответ: формат здесь
// не проверяется, чтобы не выдавать лишнего.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	client, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, apperror.ErrClientNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, exp, err := s.tokenManager.Generate(client)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}

	return &AuthResult{Client: client, Token: token, ExpiresAt: exp}, nil
}

// GetProfile возвращает профиль клиента по идентификатору из токена.
func (s *AuthService) GetProfile(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	return s.repo.GetByID(ctx, clientID)
}
