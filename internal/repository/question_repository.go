package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = `
	question_id, quiz_name, question, option_1, option_2, option_3, option_4,
	answer, description, marks, negative_marks, question_type, file_type, file_url
`

func scanQuestion(row interface{ Scan(...any) error }) (*models.Question, error) {
	q := &models.Question{}
	err := row.Scan(
		&q.QuestionID,
		&q.QuizName,
		&q.Question,
		&q.Options[0],
		&q.Options[1],
		&q.Options[2],
		&q.Options[3],
		&q.Answer,
		&q.Description,
		&q.Marks,
		&q.NegativeMarks,
		&q.QuestionType,
		&q.FileType,
		&q.FileURL,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepository) Insert(ctx context.Context, q *models.Question) error {
	query := `
		INSERT INTO quiz_question (
			question_id, quiz_name, question, option_1, option_2, option_3, option_4,
			answer, description, marks, negative_marks, question_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		q.QuestionID,
		q.QuizName,
		q.Question,
		q.Options[0],
		q.Options[1],
		q.Options[2],
		q.Options[3],
		q.Answer,
		q.Description,
		q.Marks,
		q.NegativeMarks,
		q.QuestionType,
	)

	return mapConflict(err)
}

func (r *QuestionRepository) ListByQuiz(ctx context.Context, quizName string) ([]*models.Question, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM quiz_question
		WHERE quiz_name = $1
		ORDER BY question_id
	`, questionColumns)

	rows, err := r.db.QueryContext(ctx, query, quizName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (r *QuestionRepository) Delete(ctx context.Context, quizName, questionID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM quiz_question WHERE quiz_name = $1 AND question_id = $2`,
		quizName, questionID,
	)
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

// UpdateMedia attaches an uploaded file to an existing question. Media is a
// separate step from question creation.
func (r *QuestionRepository) UpdateMedia(ctx context.Context, quizName, questionID, fileType, fileURL string) (*models.Question, error) {
	query := fmt.Sprintf(`
		UPDATE quiz_question
		SET file_type = $1, file_url = $2
		WHERE quiz_name = $3 AND question_id = $4
		RETURNING %s
	`, questionColumns)

	return scanQuestion(r.db.QueryRowContext(ctx, query, fileType, fileURL, quizName, questionID))
}
