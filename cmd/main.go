package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approveReservationHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/approve_reservation"
	bulkApproveHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/bulk_approve_reservations"
	cancelReservationHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/cancel_reservation"
	createLabHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/create_lab"
	createReservationHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/get_available_slots"
	getLabHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/get_lab"
	getLabReservationsHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/get_lab_reservations"
	getReservationHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/get_user_reservations"
	listLabsHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/list_labs"
	markNoShowHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/mark_no_show"
	rejectReservationHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/reject_reservation"
	updateLabHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/update_lab"
	updateReservationHandler "github.com/m04kA/LRS-BookingService/internal/api/handlers/update_reservation"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	"github.com/m04kA/LRS-BookingService/internal/config"
	"github.com/m04kA/LRS-BookingService/internal/domain"
	labRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/lab"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LRS-BookingService/internal/integrations/notifyqueue"
	labsService "github.com/m04kA/LRS-BookingService/internal/service/labs"
	reservationsService "github.com/m04kA/LRS-BookingService/internal/service/reservations"
	approveReservationUC "github.com/m04kA/LRS-BookingService/internal/usecase/approve_reservation"
	bulkApproveUC "github.com/m04kA/LRS-BookingService/internal/usecase/bulk_approve_reservations"
	createReservationUC "github.com/m04kA/LRS-BookingService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/LRS-BookingService/internal/usecase/get_available_slots"
	updateReservationUC "github.com/m04kA/LRS-BookingService/internal/usecase/update_reservation"
	"github.com/m04kA/LRS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/LRS-BookingService/pkg/logger"
	"github.com/m04kA/LRS-BookingService/pkg/metrics"
	"github.com/m04kA/LRS-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/LRS-BookingService/pkg/txmanager"
)

// EventEmitter общий интерфейс для RabbitMQ клиента и заглушки
type EventEmitter interface {
	Emit(kind domain.EventKind, res *domain.Reservation, metadata map[string]string)
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting LRS-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем публикацию событий
	var emitter EventEmitter
	if cfg.Notifications.Enabled {
		client := notifyqueue.NewClient(
			cfg.Notifications.URL,
			cfg.Notifications.Queue,
			time.Duration(cfg.Notifications.Timeout)*time.Second,
			log,
		)
		defer client.Close()
		emitter = client
		log.Info("Notification queue enabled (queue=%s)", cfg.Notifications.Queue)
	} else {
		emitter = notifyqueue.NopEmitter{}
		log.Info("Notification queue disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		labRepository         *labRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		labRepository = labRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		labRepository = labRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, emitter, log)
	labSvc := labsService.NewService(labRepository, reservationRepository, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		labRepository,
		txMgr,
		emitter,
		log,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		labRepository,
		txMgr,
		log,
	)
	approveReservationUseCase := approveReservationUC.NewUseCase(
		reservationRepository,
		txMgr,
		emitter,
		log,
	)
	bulkApproveUseCase := bulkApproveUC.NewUseCase(
		reservationRepository,
		txMgr,
		emitter,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		labRepository,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	approveReservation := approveReservationHandler.NewHandler(approveReservationUseCase, log)
	bulkApprove := bulkApproveHandler.NewHandler(bulkApproveUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	rejectReservation := rejectReservationHandler.NewHandler(reservationSvc, log)
	markNoShow := markNoShowHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getLabReservations := getLabReservationsHandler.NewHandler(reservationSvc, log)
	createLab := createLabHandler.NewHandler(labSvc, log)
	updateLab := updateLabHandler.NewHandler(labSvc, log)
	getLab := getLabHandler.NewHandler(labSvc, log)
	listLabs := listLabsHandler.NewHandler(labSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог лабораторий и свободные окна
	api.HandleFunc("/labs", listLabs.Handle).Methods(http.MethodGet)
	api.HandleFunc("/labs/{labId}", getLab.Handle).Methods(http.MethodGet)
	api.HandleFunc("/labs/{labId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/bulk-approve", bulkApprove.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/approve", approveReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/reject", rejectReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/no-show", markNoShow.Handle).Methods(http.MethodPost)

	// --- Списки ---
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/labs/{labId}/reservations", getLabReservations.Handle).Methods(http.MethodGet)

	// --- Управление лабораториями ---
	protected.HandleFunc("/labs", createLab.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/labs/{labId}", updateLab.Handle).Methods(http.MethodPut)

	// Фоновое закрытие прошедших бронирований
	stopSweepCh := make(chan struct{})
	if cfg.Sweep.Enabled {
		go runSweep(reservationSvc, time.Duration(cfg.Sweep.IntervalSeconds)*time.Second, stopSweepCh, log)
		log.Info("Completion sweep started (interval=%ds)", cfg.Sweep.IntervalSeconds)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Sweep.Enabled {
		close(stopSweepCh)
	}
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runSweep периодически переводит approved бронирования с прошедшим
// end_time в completed
func runSweep(svc *reservationsService.Service, interval time.Duration, stop <-chan struct{}, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := svc.CompleteExpired(ctx); err != nil {
				log.Error("Completion sweep failed: %v", err)
			}
			cancel()
		case <-stop:
			return
		}
	}
}
