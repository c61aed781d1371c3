// lina-server is the assistant backend: rule-based chat replies, the
// Wit.ai and image recognition proxies, authentication and persistent
// message history.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linalabs/go-lina/internal/config"
	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/server"
	"github.com/linalabs/go-lina/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// backendStore is what the server needs from a storage backend.
type backendStore interface {
	store.Store
	store.Accounts
}

func main() {
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	port := flag.String("port", "", "Listen port (overrides PORT)")
	staticDir := flag.String("static", "./static", "Client assets directory, empty disables")
	flag.Parse()

	log.Init(*logLevel)

	cfg := server.DefaultConfig()
	if *port != "" {
		cfg.Port = *port
	}
	cfg.StaticDir = *staticDir

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		log.Error("storage unavailable", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	queue := store.NewQueue(st)
	srv := server.New(cfg, queue, st)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		log.Error("server stopped", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", "error", err)
		os.Exit(1)
	}
}

// openStore connects to Postgres when DATABASE_URL is set and falls
// back to the in-memory store otherwise.
func openStore(ctx context.Context) (backendStore, error) {
	url := config.DatabaseURL()
	if url == "" {
		log.Warn("DATABASE_URL not set, chat history is kept in memory")
		return store.NewMemoryStore(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	pg, err := store.NewPostgres(connectCtx, url)
	if err != nil {
		return nil, err
	}
	log.Info("connected to postgres")
	return pg, nil
}
