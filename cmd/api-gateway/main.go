package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/edusphere-api/api/swagger"
	"github.com/noah-isme/edusphere-api/internal/handler"
	"github.com/noah-isme/edusphere-api/internal/middleware"
	"github.com/noah-isme/edusphere-api/internal/policy"
	"github.com/noah-isme/edusphere-api/internal/repository"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/cache"
	"github.com/noah-isme/edusphere-api/pkg/config"
	"github.com/noah-isme/edusphere-api/pkg/database"
	"github.com/noah-isme/edusphere-api/pkg/export"
	"github.com/noah-isme/edusphere-api/pkg/genai"
	"github.com/noah-isme/edusphere-api/pkg/jobs"
	"github.com/noah-isme/edusphere-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edusphere-api/pkg/middleware/cors"
	"github.com/noah-isme/edusphere-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/edusphere-api/pkg/middleware/requestid"
	securemiddleware "github.com/noah-isme/edusphere-api/pkg/middleware/secure"
	"github.com/noah-isme/edusphere-api/pkg/storage"
)

// @title EduSphere API
// @version 1.0.0
// @description Role-aware school dashboard API for administrators, teachers, parents and students
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{}

	var auditRepo service.AuditRepository
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect audit database: %w", err)
		}
		defer db.Close() //nolint:errcheck
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate audit schema: %w", err)
		}
		auditRepo = repository.NewAuditRepository(db)
		checks["postgres"] = pingDB(db)
	}
	audit := service.NewAuditService(auditRepo, logr)

	var cacheRepo service.CacheRepository = cache.NewLocal(cfg.Cache.LocalSize, cfg.Cache.TTL)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, using in-process cache", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client, "edusphere", logr)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
			checks["redis"] = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr)

	var generator genai.Generator
	if cfg.GenAI.APIKey != "" {
		generator = genai.NewClient(cfg.GenAI, logr)
	} else {
		logr.Warn("GENAI_API_KEY not set; report and draft generation disabled")
	}

	files, err := storage.NewLocal(cfg.Invoices.StorageDir)
	if err != nil {
		return fmt.Errorf("prepare invoice storage: %w", err)
	}
	signer := storage.NewSigner(cfg.Invoices.SignedURLSecret, cfg.Invoices.SignedURLTTL)
	money := export.NewMoneyFormatter("USD", "en-US")

	store := repository.NewSeededStore()
	access := service.NewAccess(policy.NewEvaluator(cfg.Policy.TeacherClassScopes).WithStudentGrades(store.StudentGrade), metrics, audit, logr)

	accounts, err := repository.NewAccountRepository(cfg.Demo.Password, 0)
	if err != nil {
		return fmt.Errorf("prepare demo accounts: %w", err)
	}
	authSvc := service.NewAuthService(accounts, store.Students, audit, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	smsSvc := service.NewSMSService(service.SMSServiceDeps{
		Messages:  store.SMS,
		Students:  store.Students,
		Access:    access,
		Generator: generator,
		Metrics:   metrics,
		Audit:     audit,
		Validator: validate,
		Logger:    logr,
		Queue: jobs.Config{
			Workers:    cfg.SMS.Workers,
			MaxRetries: cfg.SMS.MaxRetries,
			RetryDelay: cfg.SMS.RetryDelay,
		},
	})

	handlers := &handler.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Access: handler.NewAccessHandler(access),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(service.DashboardSources{
			Students:    store.Students,
			Fees:        store.Fees,
			Exams:       store.Exams,
			Assignments: store.Assignments,
			Submissions: store.Submissions,
			Admissions:  store.Admissions,
		}, access, money)),
		Students: handler.NewStudentHandler(service.NewStudentService(service.StudentServiceDeps{
			Students:   store.Students,
			Admissions: store.Admissions,
			Access:     access,
			Generator:  generator,
			Cache:      cacheSvc,
			Metrics:    metrics,
			Audit:      audit,
			Validator:  validate,
			Logger:     logr,
			ReportTTL:  cfg.Cache.TTL,
		})),
		Teachers: handler.NewTeacherHandler(service.NewTeacherService(store.Teachers, access, audit, validate, logr)),
		Fees: handler.NewFeeHandler(service.NewFeeService(service.FeeServiceDeps{
			Fees:         store.Fees,
			Students:     store.Students,
			Access:       access,
			Files:        files,
			Signer:       signer,
			Money:        money,
			Audit:        audit,
			Validator:    validate,
			Logger:       logr,
			DownloadPath: cfg.APIPrefix + "/fees/invoices/download",
		})),
		Schedule:    handler.NewScheduleHandler(service.NewScheduleService(store.Routine, store.Exams, access, audit, validate, logr)),
		Assignments: handler.NewAssignmentHandler(service.NewAssignmentService(store.Assignments, store.Submissions, access, audit, validate, logr)),
		Attendance:  handler.NewAttendanceHandler(service.NewAttendanceService(store.Attendance, store.Students, access, smsSvc, audit, validate, logr)),
		SMS:         handler.NewSMSHandler(smsSvc),
		Audit:       handler.NewAuditHandler(audit),
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(securemiddleware.New(cfg.Env == config.EnvProduction))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Session(authSvc), middleware.WithResponseMeta())
	limiter := ratelimit.PerIP(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if err := handler.Register(api, access, audit, limiter, handler.Routes(handlers)); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	smsSvc.Start(gctx)

	g.Go(func() error {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		smsSvc.Stop()
		logr.Info("server stopped")
		return err
	})

	return g.Wait()
}

func pingDB(db *sqlx.DB) handler.PingFunc {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
