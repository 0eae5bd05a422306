package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/pkg/core/model"
	"github.com/misterkoko92/asf-benev/pkg/db"
)

// fakeRosterStore is an in-memory db.VolunteerStore whose roster
// transaction commits on success and discards changes on error or dry run.
type fakeRosterStore struct {
	profiles    map[string]db.VolunteerProfile
	constraints map[string]db.VolunteerConstraint
	nextID      int
}

func newFakeRosterStore() *fakeRosterStore {
	return &fakeRosterStore{
		profiles:    make(map[string]db.VolunteerProfile),
		constraints: make(map[string]db.VolunteerConstraint),
		nextID:      1,
	}
}

func (s *fakeRosterStore) ListVolunteers(_ context.Context) ([]db.VolunteerProfile, error) {
	var out []db.VolunteerProfile
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeRosterStore) GetVolunteerByNumber(_ context.Context, volunteerID int) (*db.VolunteerProfile, error) {
	for _, p := range s.profiles {
		if p.VolunteerID == volunteerID {
			profile := p
			return &profile, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeRosterStore) ListConstraints(_ context.Context) (map[string]db.VolunteerConstraint, error) {
	out := make(map[string]db.VolunteerConstraint, len(s.constraints))
	for k, v := range s.constraints {
		out[k] = v
	}
	return out, nil
}

func (s *fakeRosterStore) WithinRosterTx(_ context.Context, dryRun bool, fn func(tx db.RosterTx) error) error {
	clone := &fakeRosterStore{
		profiles:    make(map[string]db.VolunteerProfile, len(s.profiles)),
		constraints: make(map[string]db.VolunteerConstraint, len(s.constraints)),
		nextID:      s.nextID,
	}
	for k, v := range s.profiles {
		clone.profiles[k] = v
	}
	for k, v := range s.constraints {
		clone.constraints[k] = v
	}

	if err := fn(&fakeRosterTx{store: clone}); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	s.profiles = clone.profiles
	s.constraints = clone.constraints
	s.nextID = clone.nextID
	return nil
}

type fakeRosterTx struct {
	store *fakeRosterStore
}

func (t *fakeRosterTx) VolunteerByNumber(ctx context.Context, volunteerID int) (*db.VolunteerProfile, error) {
	return t.store.GetVolunteerByNumber(ctx, volunteerID)
}

func (t *fakeRosterTx) VolunteerByEmail(_ context.Context, email string) (*db.VolunteerProfile, error) {
	for _, p := range t.store.profiles {
		if p.Email == email {
			profile := p
			return &profile, nil
		}
	}
	return nil, db.ErrNotFound
}

func (t *fakeRosterTx) InsertVolunteer(_ context.Context, profile *db.VolunteerProfile) error {
	profile.ID = fmt.Sprintf("profile-%d", t.store.nextID)
	t.store.nextID++
	t.store.profiles[profile.ID] = *profile
	return nil
}

func (t *fakeRosterTx) UpdateVolunteer(_ context.Context, profile *db.VolunteerProfile) error {
	if _, ok := t.store.profiles[profile.ID]; !ok {
		return db.ErrNotFound
	}
	t.store.profiles[profile.ID] = *profile
	return nil
}

func (t *fakeRosterTx) UpsertConstraint(_ context.Context, constraint *db.VolunteerConstraint) error {
	t.store.constraints[constraint.VolunteerID] = *constraint
	return nil
}

func intPtr(n int) *int { return &n }

func TestImportVolunteers_CreatesNewProfiles(t *testing.T) {
	store := newFakeRosterStore()
	rows := []model.RosterRow{
		{VolunteerID: 7, FirstName: "Jean-Pierre", LastName: "Martin", Email: "jp@example.org", Phone: "0612345678", MaxDaysPerWeek: intPtr(3)},
		{VolunteerID: 8, FirstName: "Claire", LastName: "Petit", ShortName: "Cl.", Email: "claire@example.org"},
	}

	result, err := ImportVolunteers(context.Background(), store, zap.NewNop(), rows, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)

	jp, err := store.GetVolunteerByNumber(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Martin", jp.LastName)
	// short name falls back to initials when the column is empty
	assert.Equal(t, "J-P.", jp.ShortName)
	assert.Equal(t, intPtr(3), store.constraints[jp.ID].MaxDaysPerWeek)

	claire, err := store.GetVolunteerByNumber(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "Cl.", claire.ShortName)
}

func TestImportVolunteers_SkipsRowsMissingNumberOrEmail(t *testing.T) {
	store := newFakeRosterStore()
	rows := []model.RosterRow{
		{VolunteerID: 0, FirstName: "Sans", LastName: "Numero", Email: "sans@example.org"},
		{VolunteerID: 9, FirstName: "Sans", LastName: "Mail"},
		{VolunteerID: 10, FirstName: "Anne", LastName: "Roy", Email: "anne@example.org"},
	}

	result, err := ImportVolunteers(context.Background(), store, zap.NewNop(), rows, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, store.profiles, 1)
}

func TestImportVolunteers_ExistingSkippedWithoutUpdate(t *testing.T) {
	store := newFakeRosterStore()
	store.profiles["p1"] = db.VolunteerProfile{ID: "p1", VolunteerID: 5, FirstName: "Luc", LastName: "Durand", Email: "luc@example.org"}

	rows := []model.RosterRow{
		{VolunteerID: 5, FirstName: "Lucas", LastName: "Durand", Email: "luc@example.org"},
	}

	result, err := ImportVolunteers(context.Background(), store, zap.NewNop(), rows, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "Luc", store.profiles["p1"].FirstName)

	result, err = ImportVolunteers(context.Background(), store, zap.NewNop(), rows, ImportOptions{Update: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "Lucas", store.profiles["p1"].FirstName)
}

func TestImportVolunteers_MatchesByEmailWhenNumberIsNew(t *testing.T) {
	store := newFakeRosterStore()
	store.profiles["p1"] = db.VolunteerProfile{ID: "p1", FirstName: "Marie", LastName: "Blanc", Email: "marie@example.org"}

	rows := []model.RosterRow{
		{VolunteerID: 12, FirstName: "Marie", LastName: "Blanc", Email: "marie@example.org"},
	}

	result, err := ImportVolunteers(context.Background(), store, zap.NewNop(), rows, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Len(t, store.profiles, 1)
	assert.Equal(t, 12, store.profiles["p1"].VolunteerID)
}

func TestImportVolunteers_DryRunLeavesStoreUntouched(t *testing.T) {
	store := newFakeRosterStore()
	rows := []model.RosterRow{
		{VolunteerID: 20, FirstName: "Paul", LastName: "Noir", Email: "paul@example.org"},
	}

	result, err := ImportVolunteers(context.Background(), store, zap.NewNop(), rows, ImportOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Empty(t, store.profiles)
}

func TestLoadRosterCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benevoles.csv")
	content := "ID,NOM,PRENOM,PRENOM_COURT,MAX_JOURS_SEMAINE,TELEPHONE,MAIL\n" +
		"1,Martin,Jean,J.,3,06 12 34 56 78,jean@example.org\n" +
		",,,,,,\n" +
		"2.0,Petit,Claire,,,,claire@example.org\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := LoadRosterCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].VolunteerID)
	assert.Equal(t, "Jean", rows[0].FirstName)
	assert.Equal(t, "0612345678", rows[0].Phone)
	assert.Equal(t, intPtr(3), rows[0].MaxDaysPerWeek)

	// spreadsheet float formatting on the id column still parses
	assert.Equal(t, 2, rows[1].VolunteerID)
	assert.Nil(t, rows[1].MaxDaysPerWeek)
}

func TestLoadRosterCSV_MissingFile(t *testing.T) {
	_, err := LoadRosterCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
