package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/misterkoko92/asf-benev/cmd/cli/commands"
	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/postgres"
	"github.com/misterkoko92/asf-benev/pkg/utils/logging"
)

func main() {
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "asf-benev",
		Short: "Planning des benevoles - availability and roster management",
		Long:  `Manage the volunteer planning: weekly availability submissions, the recap grid, roster imports and invitations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app, cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.ImportVolunteersCmd(app))
	rootCmd.AddCommand(commands.SendInvitationsCmd(app))
	rootCmd.AddCommand(commands.ExportCmd(app))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initApp sets up config, logger and the database connection shared by
// every command.
func initApp(app *commands.AppContext, commandName string) error {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.InitLogger(commandName)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.Cfg = cfg
	app.Logger = logger
	app.Database = database
	app.Ctx = ctx
	return nil
}
