package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a session",
		Run:   runReset,
	}

	cmd.Flags().StringP("session", "s", "", "Session id (required)")
	cmd.MarkFlagRequired("session")

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("session")

	cfg := loadConfig()
	s, err := openStore(cmd.Context(), cfg, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	existed, err := newManager(cfg, s, newLogger(cfg)).Reset(cmd.Context(), id)
	if err != nil {
		exitErr("reset", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"status":"reset","session_id":%q,"existed":%t}`+"\n", id, existed)
}
