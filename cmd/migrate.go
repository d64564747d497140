package cmd

import (
	"fmt"

	"points-feed/internal/config"
	"points-feed/internal/repository"

	"github.com/go-extras/cobraflags"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateFlags = map[string]cobraflags.Flag{
	configFlag: newConfigFlag(),
}

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := config.Load(migrateFlags[configFlag].GetString())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			setupLogger(cfg.Log.Level)

			db, err := pgxpool.New(cmd.Context(), cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			version, err := repository.Migrate(cmd.Context(), db, command)
			if err != nil {
				return err
			}

			log.Info().Str("command", command).Int64("version", version).Msg("Migrations done")
			return nil
		},
	}
	cobraflags.RegisterMap(migrateCmd, migrateFlags)
	return migrateCmd
}
