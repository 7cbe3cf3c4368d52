package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pevans/jobwizard/api"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight searches may finish after a
// shutdown signal.
const shutdownTimeout = 60 * time.Second

// sweepInterval is how often idle sessions are expired.
const sweepInterval = 5 * time.Minute

func handleServe(args []string) {
	a := newApp()
	defer a.close()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", a.cfg.Addr, "HTTP listen address (JOBWIZARD_ADDR)")
	fs.Parse(args)

	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := api.NewSessions(a.trails()).WithIdleTimeout(a.cfg.SessionIdleTimeout)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx, sweepInterval, a.logger.Named("sessions"))

	server := api.NewAPIServer(a.service, a.searcher, sessions, a.logger.Named("api"))
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("starting API server", zap.String("addr", "http://"+*addr+"/api/v1"))
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		a.logger.Info("shutting down gracefully", zap.Stringer("signal", sig))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			a.logger.Warn("shutdown timeout exceeded, forcing exit", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("server failed", zap.Error(err))
			a.close()
			os.Exit(1)
		}
	}
}
