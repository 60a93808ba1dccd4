// Package cli implements the buyer-agent CLI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/config"
	"github.com/rcliao/buyer-agent/internal/session"
	"github.com/rcliao/buyer-agent/internal/store"
)

var (
	dbPath     string
	formatFlag string
	storeFlag  string
	envFile    string
	logLevel   string
	logFormat  string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "buyer-agent",
	Short: "Buyer-side price negotiation agent",
	Long:  "A buyer agent that answers seller messages with ACCEPT, COUNTER, ASK or REJECT. Serve it over HTTP or drive sessions from the shell.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $BUYER_AGENT_DB or ~/.buyer-agent/sessions.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Session store: memory, sqlite or redis (default: $BUYER_AGENT_STORE)")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file to load")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $LOG_LEVEL or info)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (default: $LOG_FORMAT or text)")
}

// loadConfig reads the environment and applies global flag overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load(envFile)
	if err != nil {
		exitErr("config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if storeFlag != "" {
		cfg.Store = strings.ToLower(storeFlag)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openStore opens the configured session store. One-shot commands pass
// persistent=true: an in-memory store would forget the session on exit, so
// they fall back to SQLite.
func openStore(ctx context.Context, cfg *config.Config, persistent bool) (session.Store, error) {
	kind := cfg.Store
	if persistent && kind == config.StoreMemory {
		kind = config.StoreSQLite
	}
	switch kind {
	case config.StoreSQLite:
		return store.NewSQLiteStore(cfg.DBPath)
	case config.StoreRedis:
		return session.NewRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.SessionTTL,
		})
	}
	return session.NewMemoryStore(), nil
}

// openSQLite opens the SQLite store directly for commands that need its
// reporting queries.
func openSQLite(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath)
}

func newManager(cfg *config.Config, s session.Store, logger *slog.Logger) *session.Manager {
	return session.NewManager(s,
		session.WithTTL(cfg.SessionTTL),
		session.WithLogger(logger),
	)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
