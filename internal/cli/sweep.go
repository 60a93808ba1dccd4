package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete sessions idle longer than the TTL",
		Run:   runSweep,
	}

	cmd.Flags().String("ttl", "", "Idle TTL, e.g. 1h, 30m, 7d (default: $BUYER_AGENT_SESSION_TTL or 1h)")

	RootCmd.AddCommand(cmd)
}

func runSweep(cmd *cobra.Command, args []string) {
	ttl, _ := cmd.Flags().GetString("ttl")

	cfg := loadConfig()
	if ttl != "" {
		d, err := config.ParseDuration(ttl)
		if err != nil {
			exitErr("sweep", err)
		}
		cfg.SessionTTL = d
		if err := cfg.Validate(); err != nil {
			exitErr("sweep", err)
		}
	}

	s, err := openStore(cmd.Context(), cfg, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := newManager(cfg, s, newLogger(cfg)).Sweep(cmd.Context())
	if err != nil {
		exitErr("sweep", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"swept":%d}`+"\n", n)
}
