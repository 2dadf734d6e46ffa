// chat.go implements "trailmate chat", a REPL against an in-process engine.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trailmate/internal/app"
	"trailmate/internal/config"
	"trailmate/internal/modules/dialogue"
)

func newChatCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		Long: `Start an interactive conversation backed by an in-memory session store.
Commands: /info prints the session, /reset starts over, /quit exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cmd.ErrOrStderr(), slog.LevelWarn)
			a, err := app.New(cmd.Context(), cfg, logger, app.Options{MemoryOnly: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			return runChat(cmd.Context(), a.Engine, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (default: a new uuid)")
	return cmd
}

// runChat reads one message per line until EOF or /quit.
func runChat(ctx context.Context, engine *dialogue.Engine, sessionID string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "session %s\n", sessionID)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := engine.Clear(ctx, sessionID); err != nil {
				return err
			}
			fmt.Fprintln(out, "session cleared")
			continue
		case "/info":
			info, err := engine.Info(ctx, sessionID)
			if err != nil {
				fmt.Fprintf(out, "no session yet (%v)\n", err)
				continue
			}
			b, _ := json.MarshalIndent(info, "", "  ")
			fmt.Fprintln(out, string(b))
			continue
		}

		resp, err := engine.HandleTurn(ctx, dialogue.TurnRequest{SessionID: sessionID, Message: line})
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, resp.Reply)
		if !resp.Done {
			fmt.Fprintf(out, "  (waiting for %s)\n", resp.PendingField)
		}
	}
}
