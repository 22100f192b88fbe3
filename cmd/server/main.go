package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/annaclean/cleanmarket-backend/internal/config"
	"github.com/annaclean/cleanmarket-backend/internal/db"
	"github.com/annaclean/cleanmarket-backend/internal/goroutine"
	httpHandlers "github.com/annaclean/cleanmarket-backend/internal/http/handlers"
	httpRouter "github.com/annaclean/cleanmarket-backend/internal/http/router"
	"github.com/annaclean/cleanmarket-backend/internal/logger"
	"github.com/annaclean/cleanmarket-backend/internal/repository"
	"github.com/annaclean/cleanmarket-backend/internal/service"
	"github.com/annaclean/cleanmarket-backend/internal/storage"
	"github.com/annaclean/cleanmarket-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.UploadsPath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	clientRepo := repository.NewClientRepository(dbConn)
	requestRepo := repository.NewRequestRepository(dbConn)
	quoteRepo := repository.NewQuoteRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	billRepo := repository.NewBillRepository(dbConn)
	dashboardRepo := repository.NewDashboardRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Сервисы.
	authService := service.NewAuthService(clientRepo, tokenManager)
	requestService := service.NewRequestService(requestRepo, photoStorage, cfg.MaxPhotosPerReq)
	quoteService := service.NewQuoteService(quoteRepo, requestRepo, hub)
	orderService := service.NewOrderService(orderRepo)
	billingService := service.NewBillingService(billRepo, hub)
	reportService := service.NewReportService(dashboardRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	requestHandler := httpHandlers.NewRequestHandler(requestService)
	quoteHandler := httpHandlers.NewQuoteHandler(quoteService)
	orderHandler := httpHandlers.NewOrderHandler(orderService)
	billHandler := httpHandlers.NewBillHandler(billingService)
	dashboardHandler := httpHandlers.NewDashboardHandler(reportService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, requestHandler, quoteHandler, orderHandler, billHandler, dashboardHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
