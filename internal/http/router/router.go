package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annaclean/cleanmarket-backend/internal/config"
	"github.com/annaclean/cleanmarket-backend/internal/http/handlers"
	"github.com/annaclean/cleanmarket-backend/internal/http/middleware"
	"github.com/annaclean/cleanmarket-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	requestHandler *handlers.RequestHandler,
	quoteHandler *handlers.QuoteHandler,
	orderHandler *handlers.OrderHandler,
	billHandler *handlers.BillHandler,
	dashboardHandler *handlers.DashboardHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/uploads", http.Dir(cfg.UploadsPath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// WebSocket авторизуется токеном из query, а не заголовком.
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", authHandler.Me)

		// Заявки на уборку и торг по ним.
		protected.POST("/requests", requestHandler.Create)
		protected.GET("/requests", requestHandler.List)
		protected.GET("/requests/:id", middleware.UUIDValidator("id"), requestHandler.Get)
		protected.POST("/requests/:id/photos", middleware.UUIDValidator("id"), requestHandler.UploadPhotos)
		protected.GET("/requests/:id/photos", middleware.UUIDValidator("id"), requestHandler.ListPhotos)
		protected.GET("/requests/:id/quotes", middleware.UUIDValidator("id"), quoteHandler.ListForRequest)
		protected.GET("/requests/:id/messages", middleware.UUIDValidator("id"), quoteHandler.Messages)
		protected.POST("/requests/:id/message", middleware.UUIDValidator("id"), quoteHandler.SendMessage)

		// Действия клиента над конкретным предложением.
		protected.POST("/requests/quote/:id/accept", middleware.UUIDValidator("id"), quoteHandler.Accept)
		protected.POST("/requests/quote/:id/counter", middleware.UUIDValidator("id"), quoteHandler.Counter)
		protected.POST("/requests/quote/:id/cancel", middleware.UUIDValidator("id"), quoteHandler.Cancel)

		// Заказы.
		protected.GET("/requests/orders", orderHandler.ListMine)
		protected.GET("/requests/orders/:id", middleware.UUIDValidator("id"), orderHandler.Get)

		// Счета. GET /bills/:id ищет счёт по идентификатору заказа,
		// остальные маршруты с :id работают с идентификатором счёта.
		protected.GET("/bills/mine", billHandler.ListMine)
		protected.GET("/bills/:id", middleware.UUIDValidator("id"), billHandler.GetByOrder)
		protected.GET("/bills/:id/responses", middleware.UUIDValidator("id"), billHandler.Responses)
		protected.POST("/bills/:id/pay", middleware.UUIDValidator("id"), billHandler.Pay)
		protected.POST("/bills/:id/dispute", middleware.UUIDValidator("id"), billHandler.Dispute)
		protected.POST("/bills/:id/cancel", middleware.UUIDValidator("id"), billHandler.CancelDispute)
	}

	// Маршруты Анны.
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.GET("/requests/admin/pending", requestHandler.ListPending)
		admin.POST("/requests/:id/reject", middleware.UUIDValidator("id"), requestHandler.Reject)
		admin.POST("/requests/:id/quote", middleware.UUIDValidator("id"), quoteHandler.Issue)
		admin.POST("/requests/admin/request/:id/quote/update", middleware.UUIDValidator("id"), quoteHandler.Issue)
		admin.POST("/requests/admin/request/:id/message", middleware.UUIDValidator("id"), quoteHandler.SendMessage)

		admin.GET("/requests/admin/orders", orderHandler.ListAll)
		admin.POST("/requests/orders/:id/complete", middleware.UUIDValidator("id"), orderHandler.Complete)

		admin.POST("/bills/create/:order_id", middleware.UUIDValidator("order_id"), billHandler.Create)
		admin.GET("/bills/all", billHandler.ListAll)
		admin.POST("/bills/:id/respond", middleware.UUIDValidator("id"), billHandler.Respond)
		admin.POST("/bills/:id/revise", middleware.UUIDValidator("id"), billHandler.Revise)

		admin.GET("/dashboard/frequent-clients", dashboardHandler.FrequentClients)
		admin.GET("/dashboard/uncommitted-clients", dashboardHandler.UncommittedClients)
		admin.GET("/dashboard/accepted-quotes", dashboardHandler.AcceptedQuotes)
		admin.GET("/dashboard/prospective-clients", dashboardHandler.ProspectiveClients)
		admin.GET("/dashboard/largest-job", dashboardHandler.LargestJob)
		admin.GET("/dashboard/overdue-bills", dashboardHandler.OverdueBills)
		admin.GET("/dashboard/bad-clients", dashboardHandler.BadClients)
		admin.GET("/dashboard/good-clients", dashboardHandler.GoodClients)
	}

	return r
}
