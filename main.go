package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "backend/internal/config"
	router "backend/internal/http"
	"backend/internal/services"
	"backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	logger := intconfig.NewLogger(env.Environment)
	defer logger.Sync()

	st, err := openStore(env)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	// Seed the online/offline gate so the first status read has a value.
	if err := services.NewStatusService(st).EnsureDefault(); err != nil {
		logger.Fatal("failed to seed system status", zap.Error(err))
	}

	r := router.NewRouter(env, st, logger)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", env.AppAddr), zap.String("store", env.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}

func openStore(env intconfig.Env) (store.Store, error) {
	if env.StoreDriver == "mysql" {
		return store.OpenMySQL(env.MySQLDSN)
	}
	return store.NewMemory(), nil
}
