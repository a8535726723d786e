package dto

import "github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"

type CreateQuizRequest struct {
	Name     string `json:"name" binding:"required"`
	Duration int    `json:"duration"`
}

type TimerRequest struct {
	QuizDate string `json:"quiz_date" binding:"required"`
	QuizTime string `json:"quiz_time" binding:"required"`
	Duration int    `json:"duration" binding:"required,gt=0"`
}

type ReviewQuizRequest struct {
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments"`
}

type QuestionRequest struct {
	QuestionID    string    `json:"question_id" binding:"required"`
	Question      string    `json:"question" binding:"required"`
	Options       [4]string `json:"options" binding:"required"`
	Answer        string    `json:"answer" binding:"required"`
	Description   string    `json:"description"`
	Marks         int       `json:"marks" binding:"required"`
	NegativeMarks int       `json:"negative_marks"`
	QuestionType  string    `json:"question_type" binding:"required"`
}

func (r *QuestionRequest) ToModel(quizName string) *models.Question {
	return &models.Question{
		QuestionID:    r.QuestionID,
		QuizName:      quizName,
		Question:      r.Question,
		Options:       r.Options,
		Answer:        r.Answer,
		Description:   r.Description,
		Marks:         r.Marks,
		NegativeMarks: r.NegativeMarks,
		QuestionType:  r.QuestionType,
	}
}

type QuizResponse struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	QuizDate       string `json:"quiz_date,omitempty"`
	QuizTime       string `json:"quiz_time,omitempty"`
	Duration       int    `json:"duration"`
	Status         string `json:"status"`
	ReviewedBy     string `json:"reviewed_by,omitempty"`
	ReviewComments string `json:"review_comments,omitempty"`
	Flag           bool   `json:"flag"`
	CreatedBy      string `json:"created_by,omitempty"`
}

func FromQuiz(quiz *models.Quiz) QuizResponse {
	return QuizResponse{
		ID:             quiz.ID,
		Name:           quiz.Name,
		QuizDate:       quiz.QuizDate.String,
		QuizTime:       quiz.QuizTime.String,
		Duration:       quiz.Duration,
		Status:         quiz.Status,
		ReviewedBy:     quiz.ReviewedBy.String,
		ReviewComments: quiz.ReviewComments.String,
		Flag:           quiz.Flag,
		CreatedBy:      quiz.CreatedBy.String,
	}
}

func FromQuizzes(quizzes []*models.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		out = append(out, FromQuiz(quiz))
	}
	return out
}

type QuestionResponse struct {
	QuestionID    string    `json:"question_id"`
	QuizName      string    `json:"quiz_name"`
	Question      string    `json:"question"`
	Options       [4]string `json:"options"`
	Answer        string    `json:"answer"`
	Description   string    `json:"description,omitempty"`
	Marks         int       `json:"marks"`
	NegativeMarks int       `json:"negative_marks"`
	QuestionType  string    `json:"question_type"`
	FileType      string    `json:"file_type,omitempty"`
	FileURL       string    `json:"file_url,omitempty"`
}

func FromQuestion(q *models.Question) QuestionResponse {
	return QuestionResponse{
		QuestionID:    q.QuestionID,
		QuizName:      q.QuizName,
		Question:      q.Question,
		Options:       q.Options,
		Answer:        q.Answer,
		Description:   q.Description,
		Marks:         q.Marks,
		NegativeMarks: q.NegativeMarks,
		QuestionType:  q.QuestionType,
		FileType:      q.FileType.String,
		FileURL:       q.FileURL.String,
	}
}

func FromQuestions(questions []*models.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, FromQuestion(q))
	}
	return out
}
