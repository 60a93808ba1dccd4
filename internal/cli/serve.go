package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/config"
	"github.com/rcliao/buyer-agent/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the negotiation API over HTTP",
		Long:  "Serve POST /api/negotiate and POST /api/reset, plus optional static files. Idle sessions are swept in the background.",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $BUYER_AGENT_ADDR or :8000)")
	cmd.Flags().String("static", "", "Directory served at / (default: $BUYER_AGENT_STATIC_DIR)")
	cmd.Flags().String("ttl", "", "Session idle TTL (default: $BUYER_AGENT_SESSION_TTL or 1h)")
	cmd.Flags().String("sweep-interval", "", "How often idle sessions are swept (default: $BUYER_AGENT_SWEEP_INTERVAL or 1h)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	static, _ := cmd.Flags().GetString("static")
	ttl, _ := cmd.Flags().GetString("ttl")
	interval, _ := cmd.Flags().GetString("sweep-interval")

	cfg := loadConfig()
	if addr != "" {
		cfg.Addr = addr
	}
	if static != "" {
		cfg.StaticDir = static
	}
	if ttl != "" {
		d, err := config.ParseDuration(ttl)
		if err != nil {
			exitErr("serve", err)
		}
		cfg.SessionTTL = d
	}
	if interval != "" {
		d, err := config.ParseDuration(interval)
		if err != nil {
			exitErr("serve", err)
		}
		cfg.SweepInterval = d
	}
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}

	logger := newLogger(cfg)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cfg, false)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	manager := newManager(cfg, s, logger)
	go manager.Run(ctx, cfg.SweepInterval)

	logger.Info("starting buyer agent",
		"store", cfg.Store, "session_ttl", cfg.SessionTTL, "sweep_interval", cfg.SweepInterval)

	srv := server.New(server.Config{
		Addr:      cfg.Addr,
		StaticDir: cfg.StaticDir,
		RateRPS:   cfg.RateRPS,
		RateBurst: cfg.RateBurst,
	}, manager, logger)
	if err := srv.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
		exitErr("serve", err)
	}
}

