package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

type QuizStore interface {
	Create(ctx context.Context, name, createdBy string, duration int) (*models.Quiz, error)
	GetByName(ctx context.Context, name string) (*models.Quiz, error)
	List(ctx context.Context) ([]*models.Quiz, error)
	DeleteCascade(ctx context.Context, name string) error
	UpdateTimer(ctx context.Context, name, quizDate, quizTime string, duration int) (*models.Quiz, error)
	Review(ctx context.Context, name, status, reviewedBy, comments string) error
	SetFlag(ctx context.Context, name string, value bool) error
}

type QuestionStore interface {
	Insert(ctx context.Context, q *models.Question) error
	ListByQuiz(ctx context.Context, quizName string) ([]*models.Question, error)
	Delete(ctx context.Context, quizName, questionID string) error
	UpdateMedia(ctx context.Context, quizName, questionID, fileType, fileURL string) (*models.Question, error)
}

type MediaStore interface {
	UploadFile(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, contentType string) error
	DeleteFile(ctx context.Context, bucketName, objectName string) error
	ObjectURL(bucketName, objectName string) string
}

// QuizService owns the quiz catalog: setup, review lifecycle, questions and
// their media attachments.
type QuizService struct {
	quizzes   QuizStore
	questions QuestionStore
	media     MediaStore
	bucket    string
}

func NewQuizService(quizzes QuizStore, questions QuestionStore, media MediaStore, bucket string) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		questions: questions,
		media:     media,
		bucket:    bucket,
	}
}

// CreateQuiz registers a new quiz under a globally unique name. New quizzes
// start in the pending state until an admin reviews them.
func (s *QuizService) CreateQuiz(ctx context.Context, name, createdBy string, duration int) (*models.Quiz, error) {
	quiz, err := s.quizzes.Create(ctx, name, createdBy, duration)
	if errors.Is(err, ErrConflict) {
		return nil, fmt.Errorf("%w: quiz name %q is already in use", ErrConflict, name)
	}
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, name string) (*models.Quiz, error) {
	return s.quizzes.GetByName(ctx, name)
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]*models.Quiz, error) {
	return s.quizzes.List(ctx)
}

// DeleteQuiz removes the quiz with its questions and marks in one
// transaction, then cleans up any media objects the questions owned. Media
// cleanup failures are logged, not surfaced; the rows are already gone.
func (s *QuizService) DeleteQuiz(ctx context.Context, name string) error {
	questions, err := s.questions.ListByQuiz(ctx, name)
	if err != nil {
		return err
	}

	if err := s.quizzes.DeleteCascade(ctx, name); err != nil {
		return err
	}

	for _, q := range questions {
		if !q.FileURL.Valid || q.FileURL.String == "" {
			continue
		}
		object := mediaObjectName(q.QuizName, q.QuestionID, q.FileURL.String)
		if err := s.media.DeleteFile(ctx, s.bucket, object); err != nil {
			log.Printf("Failed to delete media object %s: %v", object, err)
		}
	}
	return nil
}

func (s *QuizService) SetTimer(ctx context.Context, name, quizDate, quizTime string, duration int) (*models.Quiz, error) {
	return s.quizzes.UpdateTimer(ctx, name, quizDate, quizTime, duration)
}

// ReviewQuiz moves a quiz out of the pending state. Only approved quizzes
// accept score submissions.
func (s *QuizService) ReviewQuiz(ctx context.Context, name, status, reviewedBy, comments string) error {
	if status != models.QuizStatusApproved && status != models.QuizStatusRejected {
		return fmt.Errorf("%w: status must be %q or %q", ErrInvalidInput,
			models.QuizStatusApproved, models.QuizStatusRejected)
	}
	return s.quizzes.Review(ctx, name, status, reviewedBy, comments)
}

// AddQuestion appends a question to an existing quiz. The question identifier
// must be unique within the quiz; media is attached separately.
func (s *QuizService) AddQuestion(ctx context.Context, q *models.Question) error {
	if _, err := s.quizzes.GetByName(ctx, q.QuizName); err != nil {
		return err
	}

	if err := s.questions.Insert(ctx, q); err != nil {
		if errors.Is(err, ErrConflict) {
			return fmt.Errorf("%w: question %q already exists in quiz %q", ErrConflict, q.QuestionID, q.QuizName)
		}
		return err
	}
	return nil
}

func (s *QuizService) ListQuestions(ctx context.Context, quizName string) ([]*models.Question, error) {
	if _, err := s.quizzes.GetByName(ctx, quizName); err != nil {
		return nil, err
	}
	return s.questions.ListByQuiz(ctx, quizName)
}

func (s *QuizService) DeleteQuestion(ctx context.Context, quizName, questionID string) error {
	return s.questions.Delete(ctx, quizName, questionID)
}

// AttachMedia uploads a file for an existing question and records its public
// URL on the question row.
func (s *QuizService) AttachMedia(ctx context.Context, quizName, questionID, fileName, contentType string, reader io.Reader, size int64) (*models.Question, error) {
	object := fmt.Sprintf("%s/%s%s", quizName, questionID, path.Ext(fileName))

	if err := s.media.UploadFile(ctx, s.bucket, object, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload media: %w", err)
	}

	fileType := contentType
	if i := strings.Index(contentType, "/"); i > 0 {
		fileType = contentType[:i]
	}

	question, err := s.questions.UpdateMedia(ctx, quizName, questionID, fileType, s.media.ObjectURL(s.bucket, object))
	if err != nil {
		if delErr := s.media.DeleteFile(ctx, s.bucket, object); delErr != nil {
			log.Printf("Failed to delete orphaned media object %s: %v", object, delErr)
		}
		return nil, err
	}
	return question, nil
}

func mediaObjectName(quizName, questionID, fileURL string) string {
	return fmt.Sprintf("%s/%s%s", quizName, questionID, path.Ext(fileURL))
}
