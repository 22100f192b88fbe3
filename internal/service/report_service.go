package service

import (
	"context"
	"time"

	"github.com/annaclean/cleanmarket-backend/internal/models"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// DashboardRepository описывает зависимости ReportService от слоя хранилища.
type DashboardRepository interface {
	FrequentClients(ctx context.Context) ([]models.ClientActivityRow, error)
	UncommittedClients(ctx context.Context) ([]models.ClientActivityRow, error)
	ProspectiveClients(ctx context.Context) ([]models.ProspectiveClientRow, error)
	AcceptedQuotes(ctx context.Context, month, year int) ([]models.AcceptedQuoteRow, error)
	LargestJob(ctx context.Context) (*models.LargestJobRow, error)
	OverdueBills(ctx context.Context) ([]models.OverdueBillRow, error)
	BadClients(ctx context.Context) ([]models.ClientActivityRow, error)
	GoodClients(ctx context.Context) ([]models.ClientActivityRow, error)
}

// ReportService собирает отчёты админской панели.
type ReportService struct {
	repo DashboardRepository
}

// AcceptedQuotesReport — отчёт о принятых предложениях за месяц.
type AcceptedQuotesReport struct {
	Month int                       `json:"month"`
	Year  int                       `json:"year"`
	Rows  []models.AcceptedQuoteRow `json:"rows"`
}

// NewReportService создаёт сервис отчётов.
func NewReportService(repo DashboardRepository) *ReportService {
	return &ReportService{repo: repo}
}

// FrequentClients — клиенты с наибольшим числом заказов.
func (s *ReportService) FrequentClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	return s.repo.FrequentClients(ctx)
}

// UncommittedClients — клиенты с тремя и более заявками без единого заказа.
func (s *ReportService) UncommittedClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	return s.repo.UncommittedClients(ctx)
}

// ProspectiveClients — зарегистрированные клиенты без заявок.
func (s *ReportService) ProspectiveClients(ctx context.Context) ([]models.ProspectiveClientRow, error) {
	return s.repo.ProspectiveClients(ctx)
}

// AcceptedQuotes — принятые предложения за месяц. Нулевые month и year
// означают текущий месяц.
func (s *ReportService) AcceptedQuotes(ctx context.Context, month, year int) (*AcceptedQuotesReport, error) {
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return nil, apperror.New(apperror.ErrCodeValidation, "месяц должен быть от 1 до 12")
	}

	rows, err := s.repo.AcceptedQuotes(ctx, month, year)
	if err != nil {
		return nil, err
	}

	return &AcceptedQuotesReport{Month: month, Year: year, Rows: rows}, nil
}

// LargestJob — завершённый заказ с наибольшим числом комнат.
func (s *ReportService) LargestJob(ctx context.Context) (*models.LargestJobRow, error) {
	return s.repo.LargestJob(ctx)
}

// OverdueBills — неоплаченные счета старше недели.
func (s *ReportService) OverdueBills(ctx context.Context) ([]models.OverdueBillRow, error) {
	return s.repo.OverdueBills(ctx)
}

// BadClients — клиенты с просроченными счетами без единой оплаты.
func (s *ReportService) BadClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	return s.repo.BadClients(ctx)
}

// GoodClients — клиенты, всегда платившие в течение суток.
func (s *ReportService) GoodClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	return s.repo.GoodClients(ctx)
}
