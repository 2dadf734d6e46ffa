package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trailmate/internal/modules/entity"
	"trailmate/internal/modules/intent"
)

func newClassifyCmd() *cobra.Command {
	var contextJSON string
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Print the intent and entities extracted from an utterance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prior entity.Entities
			if contextJSON != "" {
				if err := json.Unmarshal([]byte(contextJSON), &prior); err != nil {
					return fmt.Errorf("parse --context: %w", err)
				}
			}
			res := intent.Classify(strings.Join(args, " "), prior.Normalized())
			b, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&contextJSON, "context", "", `prior conversation entities as JSON, e.g. {"destination":"Lisbon"}`)
	return cmd
}
