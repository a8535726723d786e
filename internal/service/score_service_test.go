package service

import (
	"context"
	"testing"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoomKeyStore struct {
	byKey map[string]*models.TeamRegistration
}

func (f *fakeRoomKeyStore) FindByRoomKey(_ context.Context, roomKey string) (*models.TeamRegistration, error) {
	team, ok := f.byKey[roomKey]
	if !ok {
		return nil, ErrNotFound
	}
	return team, nil
}

type fakeQuizGetter struct {
	quizzes map[string]*models.Quiz
}

func (f *fakeQuizGetter) GetByName(_ context.Context, name string) (*models.Quiz, error) {
	quiz, ok := f.quizzes[name]
	if !ok {
		return nil, ErrNotFound
	}
	return quiz, nil
}

type fakeMarksStore struct {
	records   []*models.ScoreRecord
	rows      []*models.LeaderboardRow
	insertErr error
}

func (f *fakeMarksStore) Exists(_ context.Context, leadMailID, quizName string) (bool, error) {
	for _, rec := range f.records {
		if rec.LeadMailID == leadMailID && rec.QuizName == quizName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMarksStore) Insert(_ context.Context, leadMailID, quizName string, marks int, submittedAt time.Time) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, &models.ScoreRecord{
		LeadMailID:  leadMailID,
		QuizName:    quizName,
		Marks:       marks,
		SubmittedAt: submittedAt,
	})
	return nil
}

func (f *fakeMarksStore) Leaderboard(_ context.Context, _ string) ([]*models.LeaderboardRow, error) {
	return f.rows, nil
}

func (f *fakeMarksStore) ScoresByQuiz(_ context.Context, quizName string) ([]*models.ScoreRecord, error) {
	var out []*models.ScoreRecord
	for _, rec := range f.records {
		if rec.QuizName == quizName {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newScoreFixture() (*ScoreService, *fakeMarksStore) {
	teams := &fakeRoomKeyStore{byKey: map[string]*models.TeamRegistration{
		"4321": {LeadMailID: "lead@iiitdwd.ac.in", TeamName: "Quizzards"},
	}}
	quizzes := &fakeQuizGetter{quizzes: map[string]*models.Quiz{
		"TechTrivia": {Name: "TechTrivia", Status: models.QuizStatusApproved},
		"Drafty":     {Name: "Drafty", Status: models.QuizStatusPending},
	}}
	marks := &fakeMarksStore{}
	return NewScoreService(teams, quizzes, marks), marks
}

func TestSubmitRecordsScore(t *testing.T) {
	svc, marks := newScoreFixture()

	err := svc.Submit(context.Background(), "4321", "TechTrivia", 85)
	require.NoError(t, err)
	require.Len(t, marks.records, 1)
	assert.Equal(t, "lead@iiitdwd.ac.in", marks.records[0].LeadMailID)
	assert.Equal(t, 85, marks.records[0].Marks)
}

func TestSubmitInvalidRoomKey(t *testing.T) {
	svc, marks := newScoreFixture()

	err := svc.Submit(context.Background(), "0000", "TechTrivia", 85)
	assert.ErrorIs(t, err, ErrInvalidRoomKey)
	assert.Empty(t, marks.records)
}

func TestSubmitUnknownQuiz(t *testing.T) {
	svc, _ := newScoreFixture()

	err := svc.Submit(context.Background(), "4321", "NoSuchQuiz", 85)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitQuizNotApproved(t *testing.T) {
	svc, _ := newScoreFixture()

	err := svc.Submit(context.Background(), "4321", "Drafty", 85)
	assert.ErrorIs(t, err, ErrQuizNotApproved)
}

func TestSubmitDuplicateRejected(t *testing.T) {
	svc, marks := newScoreFixture()

	require.NoError(t, svc.Submit(context.Background(), "4321", "TechTrivia", 85))

	err := svc.Submit(context.Background(), "4321", "TechTrivia", 99)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	require.Len(t, marks.records, 1)
	assert.Equal(t, 85, marks.records[0].Marks, "first submission must be preserved")
}

// A duplicate that slips past the existence check and loses the insert race
// surfaces the same way as one caught up front.
func TestSubmitConcurrentDuplicateRejected(t *testing.T) {
	svc, marks := newScoreFixture()
	marks.insertErr = ErrConflict

	err := svc.Submit(context.Background(), "4321", "TechTrivia", 85)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestLeaderboardOrdering(t *testing.T) {
	svc, marks := newScoreFixture()

	t0 := time.Now().Add(-3 * time.Minute)
	t1 := time.Now().Add(-2 * time.Minute)
	t2 := time.Now().Add(-1 * time.Minute)
	marks.rows = []*models.LeaderboardRow{
		{TeamName: "A", Marks: 80, SubmittedAt: t1},
		{TeamName: "B", Marks: 95, SubmittedAt: t2},
		{TeamName: "C", Marks: 80, SubmittedAt: t0},
	}

	rows, err := svc.Leaderboard(context.Background(), "TechTrivia")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"B", "C", "A"}, []string{rows[0].TeamName, rows[1].TeamName, rows[2].TeamName})
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestLeaderboardEmptyIsNotAnError(t *testing.T) {
	svc, _ := newScoreFixture()

	rows, err := svc.Leaderboard(context.Background(), "TechTrivia")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestLeaderboardUnknownQuiz(t *testing.T) {
	svc, _ := newScoreFixture()

	_, err := svc.Leaderboard(context.Background(), "NoSuchQuiz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaderboardUnapprovedQuiz(t *testing.T) {
	svc, marks := newScoreFixture()
	marks.rows = []*models.LeaderboardRow{
		{TeamName: "A", Marks: 80, SubmittedAt: time.Now()},
	}

	rows, err := svc.Leaderboard(context.Background(), "Drafty")
	assert.ErrorIs(t, err, ErrNotFound, "a pending quiz must not serve standings")
	assert.Nil(t, rows)
}
