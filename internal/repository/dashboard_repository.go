package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/annaclean/cleanmarket-backend/internal/models"
)

// DashboardRepository выполняет аналитические выборки для админской панели.
// Все отчёты считаются на лету, без материализации.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository создаёт экземпляр репозитория.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// FrequentClients возвращает клиентов, отсортированных по числу заказов.
func (r *DashboardRepository) FrequentClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	query := `
		SELECT c.id AS client_id, c.first_name, c.last_name,
		       COUNT(o.id) AS completed_orders
		FROM clients c
		JOIN service_orders o ON o.client_id = c.id
		GROUP BY c.id, c.first_name, c.last_name
		ORDER BY completed_orders DESC
	`

	rows := []models.ClientActivityRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("dashboard repository: frequent clients %w", err)
	}

	return rows, nil
}

// UncommittedClients возвращает клиентов с тремя и более заявками,
// ни одна из которых не дошла до заказа.
func (r *DashboardRepository) UncommittedClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	query := `
		SELECT c.id AS client_id, c.first_name, c.last_name,
		       COUNT(DISTINCT r.id) AS total_requests
		FROM clients c
		JOIN service_requests r ON r.client_id = c.id
		LEFT JOIN service_orders o ON o.request_id = r.id
		GROUP BY c.id, c.first_name, c.last_name
		HAVING COUNT(DISTINCT r.id) >= 3
		   AND COUNT(o.id) = 0
	`

	rows := []models.ClientActivityRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("dashboard repository: uncommitted clients %w", err)
	}

	return rows, nil
}

// ProspectiveClients возвращает зарегистрированных клиентов без единой заявки.
func (r *DashboardRepository) ProspectiveClients(ctx context.Context) ([]models.ProspectiveClientRow, error) {
	query := `
		SELECT c.id AS client_id, c.first_name, c.last_name, c.email
		FROM clients c
		LEFT JOIN service_requests r ON r.client_id = c.id
		WHERE r.id IS NULL
	`

	rows := []models.ProspectiveClientRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("dashboard repository: prospective clients %w", err)
	}

	return rows, nil
}

// AcceptedQuotes возвращает предложения, принятые в указанном месяце.
func (r *DashboardRepository) AcceptedQuotes(ctx context.Context, month, year int) ([]models.AcceptedQuoteRow, error) {
	query := `
		SELECT q.id AS quote_id, q.adjusted_price, q.scheduled_time_window,
		       r.id AS request_id, c.id AS client_id,
		       c.first_name, c.last_name, q.created_at
		FROM quotes q
		JOIN service_requests r ON q.request_id = r.id
		JOIN clients c ON r.client_id = c.id
		WHERE q.status = $1
		  AND EXTRACT(MONTH FROM q.created_at) = $2
		  AND EXTRACT(YEAR FROM q.created_at) = $3
	`

	rows := []models.AcceptedQuoteRow{}
	if err := r.db.SelectContext(ctx, &rows, query,
		models.QuoteStatusAccepted, month, year); err != nil {
		return nil, fmt.Errorf("dashboard repository: accepted quotes %w", err)
	}

	return rows, nil
}

// LargestJob возвращает завершённый заказ с наибольшим числом комнат.
// Если завершённых заказов нет, возвращается nil.
func (r *DashboardRepository) LargestJob(ctx context.Context) (*models.LargestJobRow, error) {
	query := `
		SELECT r.id AS request_id, r.num_rooms,
		       c.id AS client_id, c.first_name, c.last_name
		FROM service_orders o
		JOIN service_requests r ON o.request_id = r.id
		JOIN clients c ON r.client_id = c.id
		WHERE o.completed_at IS NOT NULL
		ORDER BY r.num_rooms DESC
		LIMIT 1
	`

	rows := []models.LargestJobRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("dashboard repository: largest job %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

// OverdueBills возвращает неоплаченные счета старше недели.
func (r *DashboardRepository) OverdueBills(ctx context.Context) ([]models.OverdueBillRow, error) {
	query := `
		SELECT b.id AS bill_id, b.order_id, b.amount, b.generated_at,
		       c.id AS client_id, c.first_name, c.last_name
		FROM bills b
		JOIN service_orders o ON b.order_id = o.id
		JOIN clients c ON o.client_id = c.id
		WHERE b.status = $1
		  AND b.generated_at < NOW() - INTERVAL '7 days'
	`

	rows := []models.OverdueBillRow{}
	if err := r.db.SelectContext(ctx, &rows, query, models.BillStatusUnpaid); err != nil {
		return nil, fmt.Errorf("dashboard repository: overdue bills %w", err)
	}

	return rows, nil
}

// BadClients возвращает клиентов с просроченными счетами и без единого
// оплаченного счёта.
func (r *DashboardRepository) BadClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	query := `
		SELECT DISTINCT c.id AS client_id, c.first_name, c.last_name
		FROM clients c
		WHERE c.id IN (
			SELECT o.client_id
			FROM bills b
			JOIN service_orders o ON b.order_id = o.id
			WHERE b.status = $1
			  AND b.generated_at < NOW() - INTERVAL '7 days'
		)
		AND c.id NOT IN (
			SELECT o.client_id
			FROM bills b
			JOIN service_orders o ON b.order_id = o.id
			WHERE b.status = $2
		)
	`

	rows := []models.ClientActivityRow{}
	if err := r.db.SelectContext(ctx, &rows, query,
		models.BillStatusUnpaid, models.BillStatusPaid); err != nil {
		return nil, fmt.Errorf("dashboard repository: bad clients %w", err)
	}

	return rows, nil
}

// GoodClients возвращает клиентов, оплативших все свои счета в течение суток.
func (r *DashboardRepository) GoodClients(ctx context.Context) ([]models.ClientActivityRow, error) {
	query := `
		SELECT c.id AS client_id, c.first_name, c.last_name
		FROM clients c
		JOIN service_orders o ON o.client_id = c.id
		JOIN bills b ON b.order_id = o.id
		WHERE b.status = $1
		  AND EXTRACT(EPOCH FROM (b.paid_at - b.generated_at)) / 3600 <= 24
		GROUP BY c.id, c.first_name, c.last_name
		HAVING COUNT(b.id) = (
			SELECT COUNT(*)
			FROM bills b2
			JOIN service_orders o2 ON b2.order_id = o2.id
			WHERE o2.client_id = c.id
		)
	`

	rows := []models.ClientActivityRow{}
	if err := r.db.SelectContext(ctx, &rows, query, models.BillStatusPaid); err != nil {
		return nil, fmt.Errorf("dashboard repository: good clients %w", err)
	}

	return rows, nil
}
