package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/buyer-agent/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "negotiate [seller message]",
		Short: "Answer one seller message",
		Long:  "Run one negotiation round. The seller message can be a positional arg or piped via stdin. Omit --session to start a new session; its id is printed.",
		Run:   runNegotiate,
	}

	cmd.Flags().StringP("session", "s", "", "Session id (default: new session)")
	cmd.Flags().StringP("product", "p", "", "Product under negotiation (required)")
	cmd.Flags().Int64P("budget", "b", 0, "Maximum budget (required, positive)")

	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("budget")

	RootCmd.AddCommand(cmd)
}

func runNegotiate(cmd *cobra.Command, args []string) {
	sessionID, _ := cmd.Flags().GetString("session")
	product, _ := cmd.Flags().GetString("product")
	budget, _ := cmd.Flags().GetInt64("budget")

	// Get message: positional arg first, then check stdin
	var message string
	if len(args) > 0 {
		message = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			message = string(b)
		}
	}

	cfg := loadConfig()
	logger := newLogger(cfg)
	s, err := openStore(cmd.Context(), cfg, true)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	resp, err := newManager(cfg, s, logger).Negotiate(cmd.Context(), session.Request{
		SessionID: sessionID,
		Product:   product,
		Budget:    budget,
		Message:   strings.TrimSpace(message),
	})
	if err != nil {
		exitErr("negotiate", err)
	}

	if formatFlag == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s round %d] %s: %s\n",
			resp.SessionID, resp.Round, resp.Result.Action, resp.Result.Message)
		return
	}
	b, _ := json.Marshal(resp)
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
