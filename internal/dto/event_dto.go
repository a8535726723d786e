package dto

import (
	"database/sql"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

type RegisterTeamRequest struct {
	TeamName       string `json:"team_name" binding:"required"`
	TeamLeaderName string `json:"team_leader_name" binding:"required"`
	TeamLeaderID   string `json:"team_leader_id" binding:"required"`
	LeadMailID     string `json:"lead_mail_id" binding:"required,email"`
	MemberI        string `json:"member_i"`
	MemberIID      string `json:"member_i_id"`
	MemberII       string `json:"member_ii"`
	MemberIIID     string `json:"member_ii_id"`
}

func (r *RegisterTeamRequest) ToModel() *models.TeamRegistration {
	return &models.TeamRegistration{
		TeamName:       r.TeamName,
		TeamLeaderName: r.TeamLeaderName,
		TeamLeaderID:   r.TeamLeaderID,
		LeadMailID:     r.LeadMailID,
		MemberI:        nullString(r.MemberI),
		MemberIID:      nullString(r.MemberIID),
		MemberII:       nullString(r.MemberII),
		MemberIIID:     nullString(r.MemberIIID),
	}
}

type RequestAccessRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyAccessRequest struct {
	Code string `json:"code" binding:"required,len=4"`
}

type VerifyAccessResponse struct {
	Success    bool   `json:"success"`
	TeamName   string `json:"team_name"`
	LeadMailID string `json:"lead_mail_id"`
}

type SubmitScoreRequest struct {
	RoomKey  string `json:"room_key" binding:"required"`
	QuizName string `json:"quiz_name" binding:"required"`
	Marks    int    `json:"marks"`
}

type LeaderboardResponse struct {
	Success     bool                     `json:"success"`
	QuizName    string                   `json:"quiz_name"`
	Leaderboard []*models.LeaderboardRow `json:"leaderboard"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
