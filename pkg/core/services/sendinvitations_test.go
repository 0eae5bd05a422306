package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/db"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type mockMailer struct {
	sent    []sentMail
	failFor map[string]bool
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	if m.failFor[to] {
		return fmt.Errorf("smtp said no")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func invitationConfig() *config.Config {
	return &config.Config{
		Invitation: config.InvitationConfig{
			Domain:   "planning.example.org",
			Protocol: "https",
			Subject:  "Bienvenue",
		},
	}
}

func invitationStore() *fakeRosterStore {
	store := newFakeRosterStore()
	store.profiles["p1"] = db.VolunteerProfile{ID: "p1", VolunteerID: 1, FirstName: "Jean", LastName: "Martin", Email: "jean@example.org"}
	store.profiles["p2"] = db.VolunteerProfile{ID: "p2", VolunteerID: 2, FirstName: "Claire", LastName: "Petit", Email: "claire@example.org"}
	store.profiles["p3"] = db.VolunteerProfile{ID: "p3", VolunteerID: 3, FirstName: "Sans", LastName: "Mail"}
	return store
}

func TestSendInvitations_AllVolunteersWithEmail(t *testing.T) {
	mailer := &mockMailer{}

	result, err := SendInvitations(context.Background(), invitationStore(), mailer, invitationConfig(), zap.NewNop(), InvitationOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Failures)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "Bienvenue", mailer.sent[0].subject)
}

func TestSendInvitations_BodyCarriesLinkAndNumber(t *testing.T) {
	mailer := &mockMailer{}

	_, err := SendInvitations(context.Background(), invitationStore(), mailer, invitationConfig(), zap.NewNop(), InvitationOptions{
		Emails: []string{"jean@example.org"},
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "jean@example.org", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "Bonjour Jean Martin")
	assert.Contains(t, mailer.sent[0].body, "numero de benevole est le 1")
	assert.Contains(t, mailer.sent[0].body, "https://planning.example.org/inscription?benevole=1")
}

func TestSendInvitations_FilterByVolunteerNumber(t *testing.T) {
	mailer := &mockMailer{}

	result, err := SendInvitations(context.Background(), invitationStore(), mailer, invitationConfig(), zap.NewNop(), InvitationOptions{
		VolunteerIDs: []int{2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "claire@example.org", mailer.sent[0].to)
}

func TestSendInvitations_FailureDoesNotStopRun(t *testing.T) {
	mailer := &mockMailer{failFor: map[string]bool{"claire@example.org": true}}

	result, err := SendInvitations(context.Background(), invitationStore(), mailer, invitationConfig(), zap.NewNop(), InvitationOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "claire@example.org", result.Failures[0].Email)
}

func TestSendInvitations_DryRunCollectsLinks(t *testing.T) {
	mailer := &mockMailer{}

	result, err := SendInvitations(context.Background(), invitationStore(), mailer, invitationConfig(), zap.NewNop(), InvitationOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, "https://planning.example.org/inscription?benevole=1", result.Links["jean@example.org"])
}

func TestSendInvitations_NoDomainConfigured(t *testing.T) {
	cfg := invitationConfig()
	cfg.Invitation.Domain = ""

	_, err := SendInvitations(context.Background(), invitationStore(), &mockMailer{}, cfg, zap.NewNop(), InvitationOptions{})
	assert.Error(t, err)
}
