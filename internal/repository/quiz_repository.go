package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

const quizColumns = `
	id, name, quiz_date, quiz_time, duration, status,
	reviewed_by, review_comments, flag, created_by, created_at
`

func scanQuiz(row interface{ Scan(...any) error }) (*models.Quiz, error) {
	quiz := &models.Quiz{}
	err := row.Scan(
		&quiz.ID,
		&quiz.Name,
		&quiz.QuizDate,
		&quiz.QuizTime,
		&quiz.Duration,
		&quiz.Status,
		&quiz.ReviewedBy,
		&quiz.ReviewComments,
		&quiz.Flag,
		&quiz.CreatedBy,
		&quiz.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *QuizRepository) Create(ctx context.Context, name, createdBy string, duration int) (*models.Quiz, error) {
	query := fmt.Sprintf(`
		INSERT INTO quiz_setup (name, created_by, duration)
		VALUES ($1, $2, $3)
		RETURNING %s
	`, quizColumns)

	quiz, err := scanQuiz(r.db.QueryRowContext(ctx, query, name, nullable(createdBy), duration))
	if err != nil {
		return nil, mapConflict(err)
	}
	return quiz, nil
}

func (r *QuizRepository) GetByName(ctx context.Context, name string) (*models.Quiz, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_setup WHERE name = $1`, quizColumns)
	return scanQuiz(r.db.QueryRowContext(ctx, query, name))
}

func (r *QuizRepository) List(ctx context.Context) ([]*models.Quiz, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_setup ORDER BY id DESC`, quizColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}

	return quizzes, rows.Err()
}

// DeleteCascade removes the quiz together with its questions and marks in a
// single transaction; either everything goes or nothing does.
func (r *QuizRepository) DeleteCascade(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_marks WHERE quiz_name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete quiz marks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_question WHERE quiz_name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete quiz questions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM quiz_setup WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *QuizRepository) UpdateTimer(ctx context.Context, name, quizDate, quizTime string, duration int) (*models.Quiz, error) {
	query := fmt.Sprintf(`
		UPDATE quiz_setup
		SET quiz_date = $1, quiz_time = $2, duration = $3
		WHERE name = $4
		RETURNING %s
	`, quizColumns)

	return scanQuiz(r.db.QueryRowContext(ctx, query, quizDate, quizTime, duration, name))
}

func (r *QuizRepository) Review(ctx context.Context, name, status, reviewedBy, comments string) error {
	query := `
		UPDATE quiz_setup
		SET status = $1, reviewed_by = $2, review_comments = $3
		WHERE name = $4
	`

	result, err := r.db.ExecContext(ctx, query, status, reviewedBy, nullable(comments), name)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFlag persists the live room flag. Last write wins across a room.
func (r *QuizRepository) SetFlag(ctx context.Context, name string, value bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE quiz_setup SET flag = $1 WHERE name = $2`, value, name)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
