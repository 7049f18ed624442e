package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fiadopos/internal/config"
	"fiadopos/internal/infra"
	"fiadopos/internal/middleware"
	"fiadopos/internal/repository"
	"fiadopos/internal/router"
	"fiadopos/internal/service"
	"fiadopos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	if !cfg.EsProduccion() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	authSvc := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
	if creado, err := authSvc.CrearAdminInicial(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed initial admin")
	} else if creado {
		log.Warn().Msg("usuario inicial 'admin' creado con password por defecto; cambiarla")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	clienteRepo := repository.NewClienteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	abonoRepo := repository.NewAbonoRepository(db)
	deudaSvc := service.NewDeudaService(clienteRepo, ventaRepo)
	sincronizar := func(ctx context.Context) error {
		_, err := deudaSvc.SincronizarTodos(ctx)
		return err
	}

	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	dispatcher := worker.NewDispatcher(rdb)

	pool := worker.NewPool(rdb)
	pool.Handle(worker.QueueComprobantes, worker.NewComprobanteWorker(
		ventaRepo, abonoRepo, clienteRepo, dispatcher, cfg.PDFStoragePath, cfg.NombreNegocio,
	).Process)
	pool.Handle(worker.QueueEmail, worker.NewEmailWorker(mailer, mailCB).Process)
	pool.Handle(worker.QueueDeudas, worker.DeudaHandler(sincronizar))
	pool.Start(ctx, cfg.WorkerPoolSize)

	worker.StartDeudaCron(ctx, worker.DeudaCronConfig{
		Interval:    time.Duration(cfg.DeudaSyncIntervalMinutes) * time.Minute,
		OnStart:     cfg.DeudaSyncOnStart,
		Sincronizar: sincronizar,
	})

	limiters := router.Limiters{
		Global: middleware.NewRateLimiter("global", 1000, time.Minute, "Demasiadas solicitudes. Intente nuevamente en un momento."),
		Login:  middleware.NewLoginRateLimiter(),
	}
	limiters.Global.StartPurge(ctx, 5*time.Minute)
	limiters.Login.StartPurge(ctx, 5*time.Minute)

	r := router.New(cfg, db, rdb, mailCB, limiters)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("%s backend listening on :%d", cfg.NombreNegocio, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
