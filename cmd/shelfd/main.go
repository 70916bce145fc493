package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tinoosan/shelfd/internal/engine"
	"github.com/tinoosan/shelfd/internal/feed"
	"github.com/tinoosan/shelfd/internal/metrics"
	"github.com/tinoosan/shelfd/internal/repo"
	"github.com/tinoosan/shelfd/internal/router"
	"github.com/tinoosan/shelfd/internal/service"
)

func main() {
	logger := newLogger()

	metrics.Register()

	var libRepo repo.LibraryRepo
	if os.Getenv("SHELFD_REPO") == "postgres" {
		pg, err := repo.NewPostgresRepoFromEnv()
		if err != nil {
			logger.Error("connect postgres", "err", err)
			os.Exit(1)
		}
		defer pg.Close()
		libRepo = pg
		logger.Info("using postgres repo")
	} else {
		libRepo = repo.NewInMemoryLibraryRepo()
		logger.Info("using in-memory repo")
	}

	feeds := feed.New()
	eng := engine.NewNoop(logger)
	librarySvc := service.NewLibrary(libRepo, eng, feeds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if wsURL := os.Getenv("SHELFD_ENGINE_WS"); wsURL != "" {
		stream := feed.NewStream(wsURL, feeds, logger)
		stream.OnDeleteComplete = func(entryID string) {
			if err := libRepo.SetDownload(context.Background(), entryID, nil); err != nil {
				logger.Error("clear download record", "id", entryID, "err", err)
			}
		}
		go func() {
			for {
				if err := stream.Run(ctx); err != nil {
					if ctx.Err() != nil {
						return
					}
					logger.Error("engine feed disconnected", "err", err)
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(3 * time.Second):
				}
			}
		}()
	} else {
		logger.Info("no engine feed configured; resolving from persisted records only")
	}

	addr := os.Getenv("SHELFD_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      router.New(logger, librarySvc),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting shelfd API", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("received terminate, graceful shutdown", "signal", sig.String())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// newLogger writes JSON logs to stdout, or to a rotated file when
// SHELFD_LOG_FILE is set.
func newLogger() *slog.Logger {
	var w io.Writer = os.Stdout
	if path := os.Getenv("SHELFD_LOG_FILE"); path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}
