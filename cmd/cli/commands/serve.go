package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/misterkoko92/asf-benev/internal/server"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the planning HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(app.Cfg, app.Logger, app.Database)
			return srv.Run(ctx)
		},
	}
}
