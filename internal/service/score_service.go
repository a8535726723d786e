package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

type RoomKeyStore interface {
	FindByRoomKey(ctx context.Context, roomKey string) (*models.TeamRegistration, error)
}

type QuizGetter interface {
	GetByName(ctx context.Context, name string) (*models.Quiz, error)
}

type MarksStore interface {
	Exists(ctx context.Context, leadMailID, quizName string) (bool, error)
	Insert(ctx context.Context, leadMailID, quizName string, marks int, submittedAt time.Time) error
	Leaderboard(ctx context.Context, quizName string) ([]*models.LeaderboardRow, error)
	ScoresByQuiz(ctx context.Context, quizName string) ([]*models.ScoreRecord, error)
}

// ScoreService records final scores and serves standings. One score per
// (team, quiz); a repeat submission is rejected, never overwritten.
type ScoreService struct {
	teams   RoomKeyStore
	quizzes QuizGetter
	marks   MarksStore
}

func NewScoreService(teams RoomKeyStore, quizzes QuizGetter, marks MarksStore) *ScoreService {
	return &ScoreService{
		teams:   teams,
		quizzes: quizzes,
		marks:   marks,
	}
}

// Submit records a team's score for a quiz, resolving the room key to the
// team identity first. The second submission for the same (team, quiz) fails
// with ErrAlreadySubmitted whether it races the first or trails it.
func (s *ScoreService) Submit(ctx context.Context, roomKey, quizName string, marks int) error {
	team, err := s.teams.FindByRoomKey(ctx, roomKey)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidRoomKey
	}
	if err != nil {
		return err
	}

	quiz, err := s.quizzes.GetByName(ctx, quizName)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: quiz %q", ErrNotFound, quizName)
	}
	if err != nil {
		return err
	}
	if quiz.Status != models.QuizStatusApproved {
		return ErrQuizNotApproved
	}

	exists, err := s.marks.Exists(ctx, team.LeadMailID, quizName)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadySubmitted
	}

	if err := s.marks.Insert(ctx, team.LeadMailID, quizName, marks, time.Now()); err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrAlreadySubmitted
		}
		return err
	}
	return nil
}

// Leaderboard returns ranked standings for an approved quiz, highest marks
// first and the earlier submission winning ties. A quiz with no submissions
// yields an empty slice; an unknown or unapproved quiz is ErrNotFound, so
// standings never leak before review signs the quiz off.
func (s *ScoreService) Leaderboard(ctx context.Context, quizName string) ([]*models.LeaderboardRow, error) {
	quiz, err := s.quizzes.GetByName(ctx, quizName)
	if err != nil {
		return nil, err
	}
	if quiz.Status != models.QuizStatusApproved {
		return nil, fmt.Errorf("%w: quiz %q", ErrNotFound, quizName)
	}

	rows, err := s.marks.Leaderboard(ctx, quizName)
	if err != nil {
		return nil, err
	}

	rankRows(rows)
	if rows == nil {
		rows = []*models.LeaderboardRow{}
	}
	return rows, nil
}

// RoomScores returns the raw submissions for a quiz, used by the realtime
// room to answer scoreboard queries.
func (s *ScoreService) RoomScores(ctx context.Context, quizName string) ([]*models.ScoreRecord, error) {
	return s.marks.ScoresByQuiz(ctx, quizName)
}

func rankRows(rows []*models.LeaderboardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Marks != rows[j].Marks {
			return rows[i].Marks > rows[j].Marks
		}
		return rows[i].SubmittedAt.Before(rows[j].SubmittedAt)
	})
	for i, row := range rows {
		row.Rank = i + 1
	}
}
