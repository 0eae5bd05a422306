package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/clients/sheetsclient"
	"github.com/misterkoko92/asf-benev/pkg/core/model"
	"github.com/misterkoko92/asf-benev/pkg/core/services"
)

// ImportVolunteersCmd creates the import-volunteers command. Rows come
// from a CSV file when a path is given, otherwise from the configured
// Google Sheets roster.
func ImportVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-volunteers [csv-path]",
		Short: "Import volunteers from a CSV file or the roster spreadsheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, _ := cmd.Flags().GetBool("update")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			var rows []model.RosterRow
			var err error
			if len(args) == 1 {
				rows, err = services.LoadRosterCSV(args[0])
			} else {
				rows, err = loadRosterSheet(app)
			}
			if err != nil {
				return err
			}

			result, err := services.ImportVolunteers(app.Ctx, app.Database, app.Logger, rows, services.ImportOptions{
				Update: update,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Println("Simulation, rien n'a ete enregistre.")
			}
			fmt.Printf("Import termine. Crees: %d, mis a jour: %d, ignores: %d.\n",
				result.Created, result.Updated, result.Skipped)
			return nil
		},
	}

	cmd.Flags().Bool("update", false, "Mettre a jour les benevoles existants")
	cmd.Flags().Bool("dry-run", false, "Derouler l'import puis tout annuler")

	return cmd
}

func loadRosterSheet(app *AppContext) ([]model.RosterRow, error) {
	oauthCfg, err := config.LoadOAuthClient()
	if err != nil {
		return nil, err
	}
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, "default")
	if err != nil {
		return nil, err
	}
	return client.ListRosterRows(app.Cfg)
}
