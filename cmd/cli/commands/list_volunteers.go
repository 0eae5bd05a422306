package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListVolunteersCmd creates the list-volunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list-volunteers",
		Short: "List registered volunteers with their constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteers, err := app.Database.ListVolunteers(app.Ctx)
			if err != nil {
				return err
			}
			constraints, err := app.Database.ListConstraints(app.Ctx)
			if err != nil {
				return err
			}

			if len(volunteers) == 0 {
				fmt.Println("Aucun benevole enregistre.")
				return nil
			}

			fmt.Printf("%d benevole(s):\n\n", len(volunteers))
			for _, volunteer := range volunteers {
				line := fmt.Sprintf("  #%d %s", volunteer.VolunteerID, volunteer.FullName())
				if volunteer.ShortName != "" {
					line += fmt.Sprintf(" (%s)", volunteer.ShortName)
				}
				if volunteer.Email != "" {
					line += " <" + volunteer.Email + ">"
				}
				if c, ok := constraints[volunteer.ID]; ok && c.MaxDaysPerWeek != nil {
					line += fmt.Sprintf(" - max %d jours/semaine", *c.MaxDaysPerWeek)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
