package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/akggautamasar/shopmatee-api/api/swagger"
	"github.com/akggautamasar/shopmatee-api/internal/handler"
	"github.com/akggautamasar/shopmatee-api/internal/middleware"
	"github.com/akggautamasar/shopmatee-api/internal/models"
	"github.com/akggautamasar/shopmatee-api/internal/repository"
	"github.com/akggautamasar/shopmatee-api/internal/service"
	"github.com/akggautamasar/shopmatee-api/pkg/cache"
	"github.com/akggautamasar/shopmatee-api/pkg/config"
	"github.com/akggautamasar/shopmatee-api/pkg/database"
	"github.com/akggautamasar/shopmatee-api/pkg/jobs"
	"github.com/akggautamasar/shopmatee-api/pkg/logger"
	corsmiddleware "github.com/akggautamasar/shopmatee-api/pkg/middleware/cors"
	reqidmiddleware "github.com/akggautamasar/shopmatee-api/pkg/middleware/requestid"
	"github.com/akggautamasar/shopmatee-api/pkg/storage"
)

// @title ShopMatee API
// @version 1.0.0
// @description Substitute scheduling, staff attendance and account book back office
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Timetable.CacheTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	substitutionRepo := repository.NewSubstitutionRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	contactRepo := repository.NewContactRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "shopmatee-api",
		Audience:           []string{"shopmatee"},
	})
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	periodSvc := service.NewPeriodService(periodRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, teacherRepo, periodRepo, validate, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, classRepo, teacherRepo, periodRepo, cacheSvc, cfg.Timetable.CacheTTL, logr)
	absenceSvc := service.NewAbsenceService(absenceRepo, teacherRepo, timetableSvc, periodRepo, validate, logr)
	substitutionSvc := service.NewSubstitutionService(substitutionRepo, absenceRepo, teacherRepo, timetableSvc, periodRepo, validate, logr)
	reportSvc := service.NewReportService(substitutionRepo, periodRepo, logr)
	staffSvc := service.NewStaffService(staffRepo, validate, logr)
	accountSvc := service.NewAccountBookService(contactRepo, validate, logr)

	localStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(reportSvc, staffSvc, accountSvc, localStorage, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)

	worker := service.NewExportWorker(exportJobRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:       cfg.Exports.WorkerConcurrency,
		MaxRetries:    cfg.Exports.WorkerRetries,
		Logger:        logr,
		DepthObserver: metrics.SetExportQueueDepth,
	})
	exportJobSvc := service.NewExportJobService(exportJobRepo, queue, exportSvc, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()
	exportJobSvc.RecoverPendingJobs(ctx)
	exportJobSvc.StartCleanup(ctx)

	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc, timetableSvc)
	classHandler := handler.NewClassHandler(classSvc)
	periodHandler := handler.NewPeriodHandler(periodSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	absenceHandler := handler.NewAbsenceHandler(absenceSvc)
	substitutionHandler := handler.NewSubstitutionHandler(substitutionSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	accountHandler := handler.NewAccountBookHandler(accountSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/exports/download/:token", exportHandler.Download)

	protected := api.Group("", middleware.JWT(authSvc))
	adminOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)

	protected.GET("/teachers", teacherHandler.List)
	protected.GET("/teachers/:id", teacherHandler.Get)
	protected.GET("/teachers/:id/schedule", teacherHandler.Schedule)
	protected.POST("/teachers", adminOnly, teacherHandler.Create)
	protected.PUT("/teachers/:id", adminOnly, teacherHandler.Update)
	protected.DELETE("/teachers/:id", adminOnly, teacherHandler.Delete)

	protected.GET("/classes", classHandler.List)
	protected.GET("/classes/:id", classHandler.Get)
	protected.GET("/classes/:id/schedule", classHandler.Schedule)
	protected.POST("/classes", adminOnly, classHandler.Create)
	protected.PUT("/classes/:id", adminOnly, classHandler.Update)
	protected.DELETE("/classes/:id", adminOnly, classHandler.Delete)
	protected.PUT("/classes/:id/schedule", adminOnly, classHandler.SetScheduleEntry)
	protected.DELETE("/classes/:id/schedule", adminOnly, classHandler.ClearScheduleEntry)

	protected.GET("/periods", periodHandler.List)
	protected.PUT("/periods", adminOnly, periodHandler.Replace)

	protected.POST("/timetable/sync", adminOnly, timetableHandler.Sync)
	protected.GET("/timetable/status", timetableHandler.Status)

	protected.GET("/absences", absenceHandler.ListForDate)
	protected.POST("/absences", absenceHandler.Mark)
	protected.DELETE("/absences/:id", absenceHandler.Unmark)

	protected.GET("/substitutions", substitutionHandler.List)
	protected.GET("/substitutions/available", substitutionHandler.Available)
	protected.GET("/substitutions/day/:date", substitutionHandler.DaySheet)
	protected.GET("/substitutions/:id", substitutionHandler.Get)
	protected.POST("/substitutions", substitutionHandler.Commit)
	protected.POST("/substitutions/plan", substitutionHandler.CommitPlan)

	protected.GET("/reports/substitutions", reportHandler.SubstitutionStats)

	protected.POST("/exports", exportHandler.Create)
	protected.GET("/exports/:id", exportHandler.Status)

	protected.GET("/staff", staffHandler.List)
	protected.GET("/staff/attendance", staffHandler.AttendanceByDate)
	protected.GET("/staff/salary", adminOnly, staffHandler.SalarySheet)
	protected.GET("/staff/:id", staffHandler.Get)
	protected.GET("/staff/:id/salary", adminOnly, staffHandler.MonthlySummary)
	protected.POST("/staff", adminOnly, staffHandler.Create)
	protected.PUT("/staff/:id", adminOnly, staffHandler.Update)
	protected.DELETE("/staff/:id", adminOnly, staffHandler.Delete)
	protected.POST("/staff/:id/attendance", staffHandler.MarkAttendance)

	protected.GET("/contacts", accountHandler.ListContacts)
	protected.GET("/contacts/balances", accountHandler.Balances)
	protected.GET("/contacts/:id/statement", accountHandler.Statement)
	protected.POST("/contacts", accountHandler.CreateContact)
	protected.PUT("/contacts/:id", accountHandler.UpdateContact)
	protected.DELETE("/contacts/:id", adminOnly, accountHandler.DeleteContact)
	protected.POST("/contacts/:id/transactions", accountHandler.AddTransaction)
	protected.DELETE("/transactions/:id", adminOnly, accountHandler.DeleteTransaction)

	protected.GET("/metrics/summary", adminOnly, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
