// Command admin is the console for managing the shop's catalog and accounts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/shop_admin/internal/apiclient"
	"github.com/Skotchmaster/shop_admin/internal/audit"
	"github.com/Skotchmaster/shop_admin/internal/config"
	"github.com/Skotchmaster/shop_admin/internal/session"
	"github.com/Skotchmaster/shop_admin/pkg/db"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	apiURL := flag.String("api", "", "REST API base URL (overrides ADMIN_API_URL)")
	sessionDSN := flag.String("session", "", "session store DSN (overrides ADMIN_SESSION_DSN)")
	ephemeral := flag.Bool("ephemeral", false, "keep the session token in memory only")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		return err
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *sessionDSN != "" {
		cfg.SessionDSN = *sessionDSN
	}

	logger := logging.NewWithWriter(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	store, closeStore, err := openStore(ctx, cfg.SessionDSN, *ephemeral)
	if err != nil {
		return err
	}
	defer closeStore()

	pub, closePub, err := openPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePub()

	gate := session.NewGate(store)
	client := apiclient.NewClient(cfg.APIURL,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithTokenSource(gate),
		apiclient.WithLogger(logger),
	)
	logger.Info("console_started", "api", cfg.APIURL, "ephemeral", *ephemeral, "audit", len(cfg.KafkaBrokers) > 0)

	sh := newShell(os.Stdin, os.Stdout, gate, client, pub)
	if err := sh.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, dsn string, ephemeral bool) (session.Store, func(), error) {
	if ephemeral {
		return session.NewMemory(), func() {}, nil
	}
	gdb, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("session store: %w", err)
	}
	closeDB := func() {
		if err := db.Close(gdb); err != nil {
			slog.Warn("session_store_close_error", "error", err)
		}
	}
	store, err := session.NewDBStore(gdb)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}

func openPublisher(cfg *config.Config) (audit.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.Nop{}, func() {}, nil
	}
	p, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			slog.Warn("kafka_close_error", "error", err)
		}
	}, nil
}
