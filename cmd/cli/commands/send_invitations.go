package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/clients/gmailclient"
	"github.com/misterkoko92/asf-benev/pkg/core/services"
	"github.com/misterkoko92/asf-benev/pkg/utils"
)

// SendInvitationsCmd creates the send-invitations command
func SendInvitationsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send-invitations",
		Short: "Email volunteers their planning signup link",
		RunE: func(cmd *cobra.Command, args []string) error {
			emails, _ := cmd.Flags().GetStringSlice("emails")
			volunteerIDs, _ := cmd.Flags().GetIntSlice("volunteer-ids")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if domain, _ := cmd.Flags().GetString("domain"); domain != "" {
				app.Cfg.Invitation.Domain = domain
			}

			opts := services.InvitationOptions{
				Emails:       emails,
				VolunteerIDs: volunteerIDs,
				DryRun:       dryRun,
			}

			var mailer services.Mailer
			if dryRun {
				mailer = noopMailer{}
			} else {
				var err error
				mailer, err = buildGmailMailer(app)
				if err != nil {
					return err
				}
			}

			result, err := services.SendInvitations(app.Ctx, app.Database, mailer, app.Cfg, app.Logger, opts)
			if err != nil {
				return err
			}

			if dryRun {
				for email, link := range result.Links {
					fmt.Printf("%s -> %s\n", email, link)
				}
			}
			if result.Sent == 0 && len(result.Failures) == 0 {
				fmt.Println("Aucun benevole a inviter.")
				return nil
			}

			fmt.Printf("Invitations traitees: %d", result.Sent)
			if result.Skipped > 0 {
				fmt.Printf(", ignorees: %d", result.Skipped)
			}
			fmt.Println()

			for _, failure := range result.Failures {
				fmt.Printf("  echec %s: %v\n", failure.Email, failure.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("emails", nil, "Liste d'emails a cibler")
	cmd.Flags().IntSlice("volunteer-ids", nil, "Liste de numeros de benevoles a cibler")
	cmd.Flags().String("domain", "", "Domaine public des liens d'invitation")
	cmd.Flags().Bool("dry-run", false, "Afficher les liens sans envoyer")

	return cmd
}

type noopMailer struct{}

func (noopMailer) SendEmail(_, _, _ string) error { return nil }

func buildGmailMailer(app *AppContext) (services.Mailer, error) {
	oauthCfg, err := config.LoadOAuthClient()
	if err != nil {
		return nil, err
	}
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, err
	}
	token, err := utils.GetTokenWithFlow(app.Ctx, oauthConfig, "default")
	if err != nil {
		return nil, err
	}
	return gmailclient.NewClient(app.Ctx, oauthCfg, token)
}
