package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/db"
)

// Mailer sends one email. The Gmail client satisfies this and throttles
// between sends.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// InvitationFailure records one recipient the send could not reach.
type InvitationFailure struct {
	Email string
	Err   error
}

// InvitationResult summarises one invitation run. DryRun invitations are
// counted as sent and their links collected for display.
type InvitationResult struct {
	Sent     int
	Skipped  int
	Failures []InvitationFailure
	Links    map[string]string // email -> invite link, dry runs only
}

// InvitationOptions narrows the invitation run to specific volunteers.
// With neither filter set, every volunteer with an email gets one.
type InvitationOptions struct {
	Emails       []string
	VolunteerIDs []int
	DryRun       bool
}

// SendInvitations emails each selected volunteer a link to the planning
// site. Failures do not stop the run, each one is reported per recipient.
func SendInvitations(
	ctx context.Context,
	store db.VolunteerStore,
	mailer Mailer,
	cfg *config.Config,
	logger *zap.Logger,
	opts InvitationOptions,
) (*InvitationResult, error) {
	if cfg.Invitation.Domain == "" {
		return nil, fmt.Errorf("no invitation domain configured")
	}

	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteers: %w", err)
	}

	selected := selectRecipients(volunteers, opts)
	logger.Info("Sending invitations",
		zap.Int("recipients", len(selected)),
		zap.Bool("dry_run", opts.DryRun))

	result := &InvitationResult{Links: make(map[string]string)}
	for _, volunteer := range selected {
		if volunteer.Email == "" {
			result.Skipped++
			continue
		}

		link := fmt.Sprintf("%s://%s/inscription?benevole=%d",
			cfg.Invitation.Protocol, cfg.Invitation.Domain, volunteer.VolunteerID)

		if opts.DryRun {
			result.Links[volunteer.Email] = link
			result.Sent++
			continue
		}

		body := invitationBody(volunteer, link)
		if err := mailer.SendEmail(volunteer.Email, cfg.Invitation.Subject, body); err != nil {
			logger.Warn("Failed to send invitation",
				zap.String("email", volunteer.Email),
				zap.Error(err))
			result.Failures = append(result.Failures, InvitationFailure{Email: volunteer.Email, Err: err})
			continue
		}
		result.Sent++
	}

	logger.Info("Invitations finished",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failures)))

	return result, nil
}

func selectRecipients(volunteers []db.VolunteerProfile, opts InvitationOptions) []db.VolunteerProfile {
	if len(opts.Emails) == 0 && len(opts.VolunteerIDs) == 0 {
		return volunteers
	}

	wantEmail := make(map[string]bool, len(opts.Emails))
	for _, email := range opts.Emails {
		if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
			wantEmail[e] = true
		}
	}
	wantID := make(map[int]bool, len(opts.VolunteerIDs))
	for _, id := range opts.VolunteerIDs {
		wantID[id] = true
	}

	var selected []db.VolunteerProfile
	for _, volunteer := range volunteers {
		if wantEmail[strings.ToLower(volunteer.Email)] || wantID[volunteer.VolunteerID] {
			selected = append(selected, volunteer)
		}
	}
	return selected
}

func invitationBody(volunteer db.VolunteerProfile, link string) string {
	name := volunteer.FullName()
	if name == "" {
		name = volunteer.Email
	}
	return fmt.Sprintf(`Bonjour %s,

Vous etes invite(e) a rejoindre le planning des benevoles.
Votre numero de benevole est le %d.

Pour creer votre acces, suivez ce lien :
%s

A bientot,
L'equipe planning`, name, volunteer.VolunteerID, link)
}
