package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

type MarksRepository struct {
	db *sql.DB
}

func NewMarksRepository(db *sql.DB) *MarksRepository {
	return &MarksRepository{db: db}
}

func (r *MarksRepository) Exists(ctx context.Context, leadMailID, quizName string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM quiz_marks WHERE lead_mail_id = $1 AND quiz_name = $2)`,
		leadMailID, quizName,
	).Scan(&exists)
	return exists, err
}

// Insert records a score. The (lead_mail_id, quiz_name) unique constraint
// turns a concurrent duplicate into ErrConflict instead of a second row.
func (r *MarksRepository) Insert(ctx context.Context, leadMailID, quizName string, marks int, submittedAt time.Time) error {
	query := `
		INSERT INTO quiz_marks (lead_mail_id, quiz_name, marks, submitted_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, leadMailID, quizName, marks, submittedAt)
	return mapConflict(err)
}

// Leaderboard joins marks with team registration, best score first, earlier
// submission winning ties.
func (r *MarksRepository) Leaderboard(ctx context.Context, quizName string) ([]*models.LeaderboardRow, error) {
	query := `
		SELECT er.team_name, qm.lead_mail_id, qm.marks, qm.submitted_at
		FROM quiz_marks qm
		INNER JOIN event_registration er ON qm.lead_mail_id = er.lead_mail_id
		WHERE qm.quiz_name = $1
		ORDER BY qm.marks DESC, qm.submitted_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, quizName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LeaderboardRow
	for rows.Next() {
		row := &models.LeaderboardRow{}
		if err := rows.Scan(&row.TeamName, &row.LeadMailID, &row.Marks, &row.SubmittedAt); err != nil {
			return nil, err
		}
		entries = append(entries, row)
	}

	return entries, rows.Err()
}

// ScoresByQuiz returns the raw identifier→score pairs for a quiz, used by the
// realtime room to answer scoreboard queries.
func (r *MarksRepository) ScoresByQuiz(ctx context.Context, quizName string) ([]*models.ScoreRecord, error) {
	query := `
		SELECT id, lead_mail_id, quiz_name, marks, submitted_at
		FROM quiz_marks
		WHERE quiz_name = $1
		ORDER BY marks DESC, submitted_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, quizName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ScoreRecord
	for rows.Next() {
		rec := &models.ScoreRecord{}
		if err := rows.Scan(&rec.ID, &rec.LeadMailID, &rec.QuizName, &rec.Marks, &rec.SubmittedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
