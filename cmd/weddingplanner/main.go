package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wedding-planner/internal/checkout"
	"wedding-planner/internal/config"
	"wedding-planner/internal/notify"
	"wedding-planner/internal/repository"
	"wedding-planner/internal/seed"
	"wedding-planner/internal/server"
	"wedding-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	seedDoc, err := seed.Load(cfg.SeedPath)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	settingsRepo := repository.NewSettingsRepository(db)
	statusRepo := repository.NewTaskStatusRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	// One-time upgrade of the old boolean-only task status blob.
	if err := statusRepo.MigrateLegacy(ctx, settingsRepo); err != nil {
		log.Fatalf("migrate legacy task status: %v", err)
	}

	planSvc := service.NewPlanService(seedDoc, settingsRepo, statusRepo)
	budgetSvc := service.NewBudgetService(seedDoc, settingsRepo, expenseRepo)
	digestSvc := service.NewDigestService(seedDoc, settingsRepo, statusRepo)
	checkoutClient := checkout.New(cfg.StripeSecretKey, cfg.SiteURL)

	if cfg.DigestTime != "" {
		var notifier *notify.TelegramNotifier
		if cfg.TelegramToken != "" {
			notifier, err = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
			if err != nil {
				log.Fatalf("telegram: %v", err)
			}
		}

		scheduler := service.NewSchedulerService(time.Local)
		_, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			text, err := digestSvc.DailySummary(jobCtx, time.Now())
			if err != nil {
				if !errors.Is(err, service.ErrNoWeddingDate) {
					log.Printf("digest: %v", err)
				}
				return
			}
			if notifier != nil {
				if err := notifier.Send(text); err != nil {
					log.Printf("digest: %v", err)
				}
			} else {
				log.Printf("digest:\n%s", text)
			}
		})
		if err != nil {
			log.Fatalf("schedule digest: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := server.New(planSvc, budgetSvc, checkoutClient)
	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutCtx)
	}()

	log.Printf("wedding planner listening on %s", cfg.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
