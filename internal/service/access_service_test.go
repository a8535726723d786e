package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeamStore struct {
	teams    map[string]*models.TeamRegistration
	conflict *models.TeamRegistration
	inserted []*models.TeamRegistration
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: make(map[string]*models.TeamRegistration)}
}

func (f *fakeTeamStore) FindConflict(_ context.Context, _, _ string, _ []string) (*models.TeamRegistration, error) {
	if f.conflict != nil {
		return f.conflict, nil
	}
	return nil, ErrNotFound
}

func (f *fakeTeamStore) Insert(_ context.Context, team *models.TeamRegistration) error {
	f.inserted = append(f.inserted, team)
	f.teams[team.LeadMailID] = team
	return nil
}

func (f *fakeTeamStore) FindByLeadMail(_ context.Context, leadMailID string) (*models.TeamRegistration, error) {
	team, ok := f.teams[leadMailID]
	if !ok {
		return nil, ErrNotFound
	}
	return team, nil
}

func (f *fakeTeamStore) UpdateAccessKey(_ context.Context, leadMailID, code string, issuedAt time.Time) error {
	team, ok := f.teams[leadMailID]
	if !ok {
		return ErrNotFound
	}
	team.TeamKey = sql.NullString{String: code, Valid: true}
	team.KeyIssuedAt = sql.NullTime{Time: issuedAt, Valid: true}
	return nil
}

func (f *fakeTeamStore) FindByAccessKey(_ context.Context, code string, issuedAfter time.Time) (*models.TeamRegistration, error) {
	for _, team := range f.teams {
		if team.TeamKey.Valid && team.TeamKey.String == code && team.KeyIssuedAt.Time.After(issuedAfter) {
			return team, nil
		}
	}
	return nil, ErrNotFound
}

type fakeNotifier struct {
	jobs []EmailJob
	err  error
}

func (f *fakeNotifier) Enqueue(_ context.Context, job EmailJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func registeredTeam(leadMail string, issuedAgo time.Duration) *models.TeamRegistration {
	team := &models.TeamRegistration{
		TeamLeaderName: "Asha",
		TeamLeaderID:   "22bcs001",
		LeadMailID:     leadMail,
		TeamName:       "Quizzards",
	}
	if issuedAgo >= 0 {
		team.TeamKey = sql.NullString{String: "1234", Valid: true}
		team.KeyIssuedAt = sql.NullTime{Time: time.Now().Add(-issuedAgo), Valid: true}
	}
	return team
}

func TestRequestAccessNotRegistered(t *testing.T) {
	store := newFakeTeamStore()
	svc := NewAccessService(store, &fakeNotifier{})

	err := svc.RequestAccess(context.Background(), "ghost@iiitdwd.ac.in")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRequestAccessThrottled(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", 2*time.Minute)
	notifier := &fakeNotifier{}
	svc := NewAccessService(store, notifier)

	err := svc.RequestAccess(context.Background(), "lead@iiitdwd.ac.in")
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Empty(t, notifier.jobs)
}

func TestRequestAccessAfterCooldown(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", 6*time.Minute)
	notifier := &fakeNotifier{}
	svc := NewAccessService(store, notifier)

	err := svc.RequestAccess(context.Background(), "lead@iiitdwd.ac.in")
	require.NoError(t, err)

	team := store.teams["lead@iiitdwd.ac.in"]
	require.True(t, team.TeamKey.Valid)
	assert.Len(t, team.TeamKey.String, 4)
	assert.WithinDuration(t, time.Now(), team.KeyIssuedAt.Time, time.Second)

	require.Len(t, notifier.jobs, 1)
	assert.Equal(t, TemplateAccessCode, notifier.jobs[0].Template)
	assert.Equal(t, "lead@iiitdwd.ac.in", notifier.jobs[0].To)
	assert.Equal(t, team.TeamKey.String, notifier.jobs[0].Code)
}

func TestRequestAccessFirstTime(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", -1)
	notifier := &fakeNotifier{}
	svc := NewAccessService(store, notifier)

	err := svc.RequestAccess(context.Background(), "lead@iiitdwd.ac.in")
	require.NoError(t, err)
	require.Len(t, notifier.jobs, 1)
}

func TestRequestAccessSurvivesQueueFailure(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", -1)
	notifier := &fakeNotifier{err: assert.AnError}
	svc := NewAccessService(store, notifier)

	err := svc.RequestAccess(context.Background(), "lead@iiitdwd.ac.in")
	assert.NoError(t, err)
	assert.True(t, store.teams["lead@iiitdwd.ac.in"].TeamKey.Valid)
}

func TestRedeemAccessWithinWindow(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", 2*time.Minute)
	svc := NewAccessService(store, &fakeNotifier{})

	team, err := svc.RedeemAccess(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, "Quizzards", team.TeamName)
}

func TestRedeemAccessNotConsumed(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", time.Minute)
	svc := NewAccessService(store, &fakeNotifier{})

	_, err := svc.RedeemAccess(context.Background(), "1234")
	require.NoError(t, err)

	_, err = svc.RedeemAccess(context.Background(), "1234")
	assert.NoError(t, err, "codes stay valid for the whole window")
}

func TestRedeemAccessExpired(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", 6*time.Minute)
	svc := NewAccessService(store, &fakeNotifier{})

	_, err := svc.RedeemAccess(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestRedeemAccessWrongCode(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["lead@iiitdwd.ac.in"] = registeredTeam("lead@iiitdwd.ac.in", time.Minute)
	svc := NewAccessService(store, &fakeNotifier{})

	_, err := svc.RedeemAccess(context.Background(), "9999")
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestRegisterTeam(t *testing.T) {
	store := newFakeTeamStore()
	svc := NewAccessService(store, &fakeNotifier{})

	err := svc.RegisterTeam(context.Background(), &models.TeamRegistration{
		TeamName:       "Quizzards",
		TeamLeaderName: "Asha",
		TeamLeaderID:   "22bcs001",
		LeadMailID:     "lead@iiitdwd.ac.in",
	})
	require.NoError(t, err)
	assert.Len(t, store.inserted, 1)
}

func TestRegisterTeamConflicts(t *testing.T) {
	existing := registeredTeam("lead@iiitdwd.ac.in", -1)

	tests := []struct {
		name string
		team *models.TeamRegistration
		want string
	}{
		{
			name: "team name taken",
			team: &models.TeamRegistration{TeamName: "Quizzards", TeamLeaderID: "22bcs099", LeadMailID: "other@iiitdwd.ac.in"},
			want: "team name",
		},
		{
			name: "leader already registered",
			team: &models.TeamRegistration{TeamName: "Fresh", TeamLeaderID: "22bcs099", LeadMailID: "lead@iiitdwd.ac.in"},
			want: "already registered",
		},
		{
			name: "member on another team",
			team: &models.TeamRegistration{TeamName: "Fresh", TeamLeaderID: "22bcs001", LeadMailID: "other@iiitdwd.ac.in"},
			want: "member",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeTeamStore()
			store.conflict = existing
			svc := NewAccessService(store, &fakeNotifier{})

			err := svc.RegisterTeam(context.Background(), tt.team)
			require.ErrorIs(t, err, ErrConflict)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, store.inserted)
		})
	}
}

func TestGenerateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateAccessCode()
		require.NoError(t, err)
		require.Len(t, code, 4)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should vary")
}
