package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teampulse/pulsebot/app"
	"github.com/teampulse/pulsebot/bot"
	"github.com/teampulse/pulsebot/catalog"
	"github.com/teampulse/pulsebot/config"
	"github.com/teampulse/pulsebot/database"
	"github.com/teampulse/pulsebot/log"
	"github.com/teampulse/pulsebot/period"
	"github.com/teampulse/pulsebot/report"
	"github.com/teampulse/pulsebot/roster"
	"github.com/teampulse/pulsebot/routes"
	"github.com/teampulse/pulsebot/session"
	"github.com/teampulse/pulsebot/sheet"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	questions, err := catalog.Load(cfg.QuestionsFile)
	if err != nil {
		log.Fatal("main.catalog:", err)
	}

	store, err := sheet.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Fatal("main.sheets:", err)
	}

	periods, err := period.NewRegistry(db, store, questions, cfg.PeriodMaxAge,
		[]string{cfg.ServiceAccountEmail, cfg.OwnerEmail})
	if err != nil {
		log.Fatal("main.periods:", err)
	}

	admins := roster.New(db, cfg.MainAdminID)
	if err := admins.Seed(cfg.AdminIDs); err != nil {
		log.Fatal("main.roster:", err)
	}

	app := app.App{
		DB:       db,
		Config:   cfg,
		Catalog:  questions,
		Sessions: session.NewEngine(questions),
		Periods:  periods,
		Reports:  report.NewService(store, periods, questions),
		Admins:   admins,
	}

	tgbot, err := bot.New(app)
	if err != nil {
		log.Fatal("main.bot:", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return tgbot.Run(ctx)
	})
	group.Go(func() error {
		return runServer(ctx, cfg, routes.Wire(app))
	})

	err = group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main:", err)
	}
	log.Info("main: shut down")
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Listening on " + cfg.Addr)
	return srv.ListenAndServe()
}
