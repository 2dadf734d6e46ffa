// store_cmds.go implements the database-backed "plans" and "quota" commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"trailmate/internal/config"
	"trailmate/internal/infra"
	"trailmate/internal/modules/aiusage"
	"trailmate/internal/modules/archive"
)

var errNoDatabase = errors.New("TRAILMATE_DB_DSN is not set")

func openDB(cmd *cobra.Command) (*pgxpool.Pool, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	if cfg.DB.DSN == "" {
		return nil, cfg, errNoDatabase
	}
	pool, err := infra.NewDB(cmd.Context(), cfg.DB.DSN)
	return pool, cfg, err
}

func newPlansCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "plans <sessionId>",
		Short: "List archived plans for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, _, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			records, err := archive.NewService(archive.NewStore(pool), nil).History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of plans")
	return cmd
}

func newQuotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota <uid>",
		Short: "Show the remaining monthly planning quota for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, cfg, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			left, err := aiusage.NewService(aiusage.NewStore(pool), cfg.Quota.PlansPerMonth).Remaining(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d plans left this month\n", args[0], left)
			return nil
		},
	}
}
