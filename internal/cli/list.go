package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output session ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	cfg := loadConfig()
	s, err := openStore(cmd.Context(), cfg, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := newManager(cfg, s, newLogger(cfg)).List(cmd.Context(), session.ListParams{Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	out := cmd.OutOrStdout()
	if idsOnly {
		for _, r := range records {
			fmt.Fprintln(out, r.ID)
		}
		return
	}
	if formatFlag == "text" {
		for _, r := range records {
			fmt.Fprintf(out, "%s\t%s\t₹%d\t%d rounds\t%s\n",
				r.ID, r.Product, r.Budget, r.Rounds, r.LastActive.Format("2006-01-02 15:04:05"))
		}
		return
	}

	if records == nil {
		records = []session.Record{}
	}
	b, _ := json.MarshalIndent(records, "", "  ")
	fmt.Fprintln(out, string(b))
}
