package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/config"
	appHTTP "github.com/chronotrack/chronotrack-backend-go/internal/handler/http"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/cron"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/database"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/jwt"
	"github.com/chronotrack/chronotrack-backend-go/internal/repository/postgresql"
	"github.com/chronotrack/chronotrack-backend-go/internal/repository/sessionfile"
	ledgerService "github.com/chronotrack/chronotrack-backend-go/internal/service/ledger"
	sessionService "github.com/chronotrack/chronotrack-backend-go/internal/service/worksession"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	sessionStore, err := sessionfile.NewStore(cfg.Session.StorePath)
	if err != nil {
		fmt.Println("Error opening session store:", err)
		return
	}

	ledgerRepo := postgresql.NewLedgerRepository(db)
	pointRepo := postgresql.NewContinuationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	schedules := schedule.NewStaticProvider(cfg.Session.DefaultScheduleHours, cfg.Session.LunchBreakMinutes)

	calcCfg := sessionService.DefaultCalcConfig()
	calcCfg.LunchBreakMinutes = cfg.Session.LunchBreakMinutes
	calcCfg.OvertimePolicy = sessionService.OvertimePolicy(cfg.Session.OvertimePolicy)
	calculator := sessionService.NewCalculator(calcCfg)

	loc, err := time.LoadLocation(cfg.Session.Timezone)
	if err != nil {
		fmt.Println("Error loading timezone:", err)
		return
	}
	clock := func() time.Time { return time.Now().In(loc) }

	sessionSvc := sessionService.NewSessionService(sessionStore, ledgerRepo, pointRepo, schedules, calculator)
	sessionSvc.SetTransactionRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	})
	sessionSvc.SetStaleThreshold(cfg.Session.StalePointThreshold)
	sessionSvc.SetClock(clock)

	ledgerSvc := ledgerService.NewLedgerService(ledgerRepo)

	continuationJobs := cron.NewContinuationJobs(sessionStore, pointRepo, schedules)
	continuationJobs.SetClock(clock)
	scheduler := cron.NewScheduler()
	continuationJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	sessionHandler := appHTTP.NewSessionHandler(sessionSvc, pointRepo, clock)
	ledgerHandler := appHTTP.NewLedgerHandler(ledgerSvc)

	router := appHTTP.NewRouter(JWTService, sessionHandler, ledgerHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
