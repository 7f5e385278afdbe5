package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/date-course/api-go/config"
	"github.com/date-course/api-go/controllers"
	"github.com/date-course/api-go/jobs"
	"github.com/date-course/api-go/metrics"
	"github.com/date-course/api-go/middleware"
	"github.com/date-course/api-go/migrations"
	"github.com/date-course/api-go/routes"
	"github.com/date-course/api-go/services"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	config.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := config.NewPool(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer pool.Close()

	// Migrations get their own handle; migrate closes it when done.
	if err := migrations.Apply(stdlib.OpenDB(*pool.Config().ConnConfig)); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	db, err := config.OpenGorm(pool, cfg)
	if err != nil {
		log.WithError(err).Fatal("gorm setup failed")
	}

	m := metrics.New()
	jwtSecret := []byte(cfg.JWTSecret)

	ledger := services.NewLedger(db, m)
	places := services.NewPlaceService(db)
	courses := services.NewCourseService(db)
	collections := services.NewCollectionService(db, ledger, m)
	moderation := services.NewModerationService(db, ledger, services.NewChatNotifier(db), m)
	reports := services.NewReportService(db)
	shop := services.NewShopService(db, ledger)
	chat := services.NewChatService(db)
	posts := services.NewPostService(db)
	accounts := services.NewAccountService(db, jwtSecret, cfg.JWTTTL)
	reconciler := services.NewReconciler(db, collections, m)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, jwtSecret)

	scheduler := jobs.NewScheduler(reconciler, cfg.Location(), cfg.ReconcileSchedule, cfg.RewardRetryGrace)
	if err := scheduler.AddJob(ctx, "@every 5m", "ratelimit_cleanup", func(context.Context) error {
		limiter.Cleanup()
		return nil
	}); err != nil {
		log.WithError(err).Fatal("scheduler setup failed")
	}
	if err := scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("scheduler setup failed")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.Metrics(m),
		limiter.Handler(),
	)

	routes.SetupRoutes(r, routes.Controllers{
		Auth:        controllers.NewAuthController(accounts),
		Validation:  controllers.NewValidationController(accounts),
		Courses:     controllers.NewCourseController(courses),
		Collections: controllers.NewCollectionController(collections),
		Points:      controllers.NewPointsController(ledger),
		Places:      controllers.NewPlaceController(places),
		Reports:     controllers.NewReportController(reports),
		Admin:       controllers.NewAdminController(moderation, places),
		Shop:        controllers.NewShopController(shop),
		Chat:        controllers.NewChatController(chat),
		Board:       controllers.NewBoardController(posts),
	}, jwtSecret, m)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	scheduler.Stop()
}
