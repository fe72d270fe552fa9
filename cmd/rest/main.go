package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/socialfolio/folio/internal/rest"
	"github.com/socialfolio/folio/internal/rest/handler"
	"github.com/socialfolio/folio/internal/setup"
	"github.com/socialfolio/folio/internal/setup/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RESTLogDir specifies where REST server log files are stored.
const RESTLogDir = "logs/rest_logs"

// Server timeouts.
const (
	ReadHeaderTimeout = 5 * time.Second
	IdleTimeout       = 60 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("REST server failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize application with required dependencies
	app, err := setup.InitializeApp(ctx, telemetry.ServiceREST, RESTLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	var inbox handler.Inbox
	if app.Publisher != nil {
		inbox = app.Publisher
	}

	router := rest.NewServer(rest.Dependencies{
		Services: app.Services,
		Inbox:    inbox,
		Ping:     app.DB.DB().PingContext,
	}, app.Config, app.Logger)

	restCfg := app.Config.REST
	srv := &http.Server{
		Addr:              net.JoinHostPort(restCfg.Host, strconv.Itoa(restCfg.Port)),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      time.Duration(restCfg.RequestTimeout)*time.Millisecond + 5*time.Second,
		IdleTimeout:       IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info("REST server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("Shutting down REST server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), time.Duration(restCfg.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Server forced to shutdown", zap.Error(err))
			return err
		}

		app.Logger.Info("Server gracefully stopped")
		return nil
	})

	return g.Wait()
}
