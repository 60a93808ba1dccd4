package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/negotiation"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a session and its trace",
		Run:   runShow,
	}

	cmd.Flags().StringP("session", "s", "", "Session id (required)")
	cmd.MarkFlagRequired("session")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("session")

	cfg := loadConfig()
	s, err := openStore(cmd.Context(), cfg, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := newManager(cfg, s, newLogger(cfg)).Get(cmd.Context(), id)
	if err != nil {
		exitErr("show", err)
	}

	if formatFlag == "text" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "session %s: %s, budget ₹%d, %d rounds\n", rec.ID, rec.Product, rec.Budget, rec.Rounds)
		for _, line := range negotiation.FormatEntries(rec.Trace) {
			fmt.Fprintln(out, line)
		}
		return
	}
	b, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
