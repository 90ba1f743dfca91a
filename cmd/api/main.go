package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	httpadp "cardapp-backend/internal/adapter/http"
	"cardapp-backend/internal/adapter/middleware"
	"cardapp-backend/internal/adapter/repository/mysql"
	"cardapp-backend/internal/config"
	"cardapp-backend/internal/domain/application"
	"cardapp-backend/internal/domain/approver"
	"cardapp-backend/internal/domain/card"
	"cardapp-backend/internal/infrastructure/cache"
	"cardapp-backend/internal/infrastructure/db"
	"cardapp-backend/internal/scoring"
	appuc "cardapp-backend/internal/usecase/application"
	approveruc "cardapp-backend/internal/usecase/approver"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(
		&application.Application{},
		&application.StatusEvent{},
		&approver.Approver{},
		&card.CreditCard{},
	); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	appRepo := mysql.NewApplicationRepository(gdb)
	approverRepo := mysql.NewApproverRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	policy := appuc.StrictTransitions
	if !cfg.StrictTransitions {
		policy = appuc.PermissiveTransitions
	}
	applications := appuc.NewUsecase(appRepo, tx, scoring.NewCalculator(nil), policy)
	approvers := approveruc.NewUsecase(approverRepo, []byte(cfg.JWTSecret), time.Duration(cfg.JWTTTLMins)*time.Minute)

	if cfg.SeedApproverEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := approvers.EnsureSeed(ctx, cfg.SeedApproverName, cfg.SeedApproverEmail, cfg.SeedApproverPass); err != nil {
			log.Fatalf("seed approver: %v", err)
		}
		cancel()
	}

	h := httpadp.NewHandler()
	appHandler := httpadp.NewApplicationHandler(applications)
	approverHandler := httpadp.NewApproverHandler(approvers)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	perMin := func(n int) echo.MiddlewareFunc {
		store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(float64(n) / 60.0),
			Burst: n,
		})
		return echomw.RateLimiter(store)
	}

	auth := middleware.JWTAuth([]byte(cfg.JWTSecret), approver.RoleApprover)
	idem := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	api := e.Group("/api/v1", perMin(cfg.APIRatePerMin))
	api.POST("/approver/login", approverHandler.Login, perMin(cfg.LoginRatePerMin))

	api.POST("/application", appHandler.Submit, idem)
	api.GET("/track/:number", appHandler.Track)

	api.GET("/application/:number", appHandler.Get, auth)
	api.GET("/applications", appHandler.List, auth)
	api.GET("/stats", appHandler.Stats, auth)
	api.PATCH("/application/:number/status", appHandler.ChangeStatus, auth, idem)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
