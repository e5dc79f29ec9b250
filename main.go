package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/config"
	"frontdesk/cron"
	"frontdesk/database"
	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/handlers"
	"frontdesk/middleware"
	"frontdesk/routes"
	"frontdesk/services/appointment"
	"frontdesk/services/assistant"
	"frontdesk/services/notification"
	"frontdesk/services/tasks"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// repository.
	var (
		repo        appointmentRepo.AppointmentRepository
		mongoClient *mongo.Client
	)
	if config.IsMemoryStore() {
		logger.Warn("main: using in-memory store, data is lost on restart")
		repo = appointmentRepo.NewMemoryAppointmentRepo()
	} else {
		if err := database.InitDB(); err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = database.MongoClient
		mongoRepo := appointmentRepo.NewMongoAppointmentRepo(
			database.Database(),
			config.AppConfig.CalendarCollection,
			config.AppConfig.BookingsCollection,
			config.AppConfig.UseTransactions,
		)
		if err := mongoRepo.EnsureIndexes(); err != nil {
			logger.Fatal("main: failed to create indexes", zap.Error(err))
		}
		repo = mongoRepo
	}

	// calendar lock: Redis when reachable, otherwise per process.
	var (
		locker       utils.Locker
		redisClients []*redis.Client
	)
	lockClient := utils.GetLockClient()
	if err := utils.PingRedis(lockClient); err != nil {
		logger.Warn("main: Redis unavailable, falling back to in-process calendar locks", zap.Error(err))
		locker = utils.NewLocalLocker()
	} else {
		locker = utils.NewRedisLocker(lockClient, time.Duration(config.AppConfig.LockTTLSeconds)*time.Second)
		redisClients = append(redisClients, lockClient)
	}

	svc := &appointment.DefaultAppointmentService{
		Repo:            repo,
		Locker:          locker,
		Logger:          logger.Named("appointment"),
		RestoreOnCancel: config.AppConfig.RestoreOnCancel,
		MaxAttempts:     config.AppConfig.BookingMaxAttempts,
	}

	// reminders.
	var worker *asynq.Server
	if config.AppConfig.RemindersEnabled {
		notifier, err := notification.NewLogNotificationService(logger.Named("notification"))
		if err != nil {
			logger.Fatal("main: failed to create notifier", zap.Error(err))
		}
		asynqClient := asynq.NewClient(cron.RedisOpt())
		defer asynqClient.Close()
		inspector := asynq.NewInspector(cron.RedisOpt())
		defer inspector.Close()

		lead := time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour
		svc.Reminders = tasks.NewReminderScheduler(asynqClient, inspector, lead, logger.Named("reminders"))
		worker = cron.InitReminderWorker(ctx, svc, notifier, logger.Named("worker"))
	}

	dispatcher := assistant.NewDispatcher(svc, logger.Named("assistant"))
	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAppointmentHandler(svc),
		handlers.NewFunctionsHandler(dispatcher),
	)

	utils.StartHealthMonitor(ctx, redisClients, mongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}
	if err := lockClient.Close(); err != nil {
		logger.Debug("main: failed to close Redis client", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
