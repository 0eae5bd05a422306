package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/misterkoko92/asf-benev/pkg/core/services"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <volunteers|availabilities>",
		Short: "Export planning data as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			var w io.Writer = os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			switch args[0] {
			case "volunteers":
				return services.WriteVolunteersCSV(app.Ctx, app.Database, w)
			case "availabilities":
				start, err := dateFlag(cmd, "start", time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))
				if err != nil {
					return err
				}
				end, err := dateFlag(cmd, "end", time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC))
				if err != nil {
					return err
				}
				return services.WriteAvailabilitiesCSV(app.Ctx, app.Database, w, start, end)
			default:
				return fmt.Errorf("unknown export %q, expected volunteers or availabilities", args[0])
			}
		},
	}

	cmd.Flags().String("output", "", "Fichier de sortie (stdout par defaut)")
	cmd.Flags().String("start", "", "Date de debut (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Date de fin (YYYY-MM-DD)")

	return cmd
}

func dateFlag(cmd *cobra.Command, name string, fallback time.Time) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q", name, value)
	}
	return parsed, nil
}
