package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export SQLite sessions as JSON",
		Long:  "Export every stored session with its full trace as a JSON array.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openSQLite(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	if records == nil {
		records = []session.Record{}
	}

	b, _ := json.MarshalIndent(records, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
