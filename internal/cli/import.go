package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/negotiation"
	"github.com/rcliao/buyer-agent/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import sessions from JSON",
		Long:  "Import sessions from JSON on stdin. Expects the format produced by export.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var records []session.Record
	if err := json.Unmarshal(data, &records); err != nil {
		exitErr("parse json", err)
	}
	for _, r := range records {
		if err := negotiation.ValidateBudget(r.Budget); err != nil {
			exitErr("import", fmt.Errorf("session %s: %w", r.ID, err))
		}
	}

	cfg := loadConfig()
	s, err := openSQLite(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), records)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d}`+"\n", imported)
}
