package handlers

import (
	"net/http"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/dto"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"

	"github.com/gin-gonic/gin"
)

const maxMediaSize = 25 << 20

// QuizHandler covers the quiz catalog, question management and scores.
type QuizHandler struct {
	quizzes *service.QuizService
	scores  *service.ScoreService
}

func NewQuizHandler(quizzes *service.QuizService, scores *service.ScoreService) *QuizHandler {
	return &QuizHandler{
		quizzes: quizzes,
		scores:  scores,
	}
}

func (h *QuizHandler) List(c *gin.Context) {
	quizzes, err := h.quizzes.ListQuizzes(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromQuizzes(quizzes))
}

func (h *QuizHandler) Create(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.quizzes.CreateQuiz(c.Request.Context(), req.Name, c.GetString("email"), req.Duration)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromQuiz(quiz))
}

func (h *QuizHandler) Delete(c *gin.Context) {
	if err := h.quizzes.DeleteQuiz(c.Request.Context(), c.Param("name")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Quiz deleted",
	})
}

func (h *QuizHandler) SetTimer(c *gin.Context) {
	var req dto.TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.quizzes.SetTimer(c.Request.Context(), c.Param("name"), req.QuizDate, req.QuizTime, req.Duration)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuiz(quiz))
}

func (h *QuizHandler) GetTimer(c *gin.Context) {
	quiz, err := h.quizzes.GetQuiz(c.Request.Context(), c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quiz_name": quiz.Name,
		"quiz_date": quiz.QuizDate.String,
		"quiz_time": quiz.QuizTime.String,
		"duration":  quiz.Duration,
	})
}

func (h *QuizHandler) Review(c *gin.Context) {
	var req dto.ReviewQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.quizzes.ReviewQuiz(c.Request.Context(), c.Param("name"), req.Status, c.GetString("email"), req.Comments)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Quiz " + req.Status,
	})
}

func (h *QuizHandler) ListQuestions(c *gin.Context) {
	questions, err := h.quizzes.ListQuestions(c.Request.Context(), c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromQuestions(questions))
}

func (h *QuizHandler) AddQuestion(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.quizzes.AddQuestion(c.Request.Context(), req.ToModel(c.Param("name"))); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Success: true,
		Message: "Question added",
	})
}

func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	err := h.quizzes.DeleteQuestion(c.Request.Context(), c.Param("name"), c.Param("questionId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Question deleted",
	})
}

// AttachMedia uploads a file for an existing question. Creating the question
// and attaching media are separate steps.
func (h *QuizHandler) AttachMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Missing media file")
		return
	}
	if fileHeader.Size > maxMediaSize {
		dto.JsonError(c, http.StatusBadRequest, "Media must be smaller than 25 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Failed to read media file")
		return
	}
	defer file.Close()

	question, err := h.quizzes.AttachMedia(c.Request.Context(),
		c.Param("name"), c.Param("questionId"), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuestion(question))
}

// SubmitMarks records a team's final score, identified by the room key the
// team used during the quiz.
func (h *QuizHandler) SubmitMarks(c *gin.Context) {
	var req dto.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.scores.Submit(c.Request.Context(), req.RoomKey, req.QuizName, req.Marks); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Success: true,
		Message: "Score recorded",
	})
}

func (h *QuizHandler) Leaderboard(c *gin.Context) {
	name := c.Param("name")

	rows, err := h.scores.Leaderboard(c.Request.Context(), name)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LeaderboardResponse{
		Success:     true,
		QuizName:    name,
		Leaderboard: rows,
	})
}
