package models

import (
	"database/sql"
	"time"
)

const (
	RoleAdmin       = "admin"
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)

const (
	QuizStatusPending  = "pending"
	QuizStatusApproved = "approved"
	QuizStatusRejected = "rejected"
)

// TeamRegistration is one event-team entry. The leader's email doubles as the
// team's identity everywhere else (marks, room access).
type TeamRegistration struct {
	ID             int
	TeamLeaderName string
	TeamLeaderID   string
	LeadMailID     string
	TeamName       string
	MemberI        sql.NullString
	MemberIID      sql.NullString
	MemberII       sql.NullString
	MemberIIID     sql.NullString
	TeamKey        sql.NullString
	KeyIssuedAt    sql.NullTime
}

// MemberIDs returns the non-empty member identifiers including the leader's.
func (t *TeamRegistration) MemberIDs() []string {
	ids := []string{t.TeamLeaderID}
	if t.MemberIID.Valid && t.MemberIID.String != "" {
		ids = append(ids, t.MemberIID.String)
	}
	if t.MemberIIID.Valid && t.MemberIIID.String != "" {
		ids = append(ids, t.MemberIIID.String)
	}
	return ids
}

type Quiz struct {
	ID             int
	Name           string
	QuizDate       sql.NullString
	QuizTime       sql.NullString
	Duration       int
	Status         string
	ReviewedBy     sql.NullString
	ReviewComments sql.NullString
	Flag           bool
	CreatedBy      sql.NullString
	CreatedAt      time.Time
}

type Question struct {
	QuestionID    string
	QuizName      string
	Question      string
	Options       [4]string
	Answer        string
	Description   string
	Marks         int
	NegativeMarks int
	QuestionType  string
	FileType      sql.NullString
	FileURL       sql.NullString
}

// ScoreRecord is one submission per (leader, quiz). Immutable after insert.
type ScoreRecord struct {
	ID          int
	LeadMailID  string
	QuizName    string
	Marks       int
	SubmittedAt time.Time
}

// LeaderboardRow joins a score record with its team identity.
type LeaderboardRow struct {
	Rank        int       `json:"rank"`
	TeamName    string    `json:"team_name"`
	LeadMailID  string    `json:"lead_mail_id"`
	Marks       int       `json:"marks"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type User struct {
	ID                string
	Email             string
	PhoneNumber       sql.NullString
	PasswordHash      string
	UserName          string
	Role              string
	Verified          bool
	VerificationToken sql.NullString
	AvatarURL         sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Member struct {
	ID        int            `json:"id"`
	Image     sql.NullString `json:"-"`
	Name      string         `json:"name"`
	Role      string         `json:"role"`
	About     sql.NullString `json:"-"`
	Instagram sql.NullString `json:"-"`
	LinkedIn  sql.NullString `json:"-"`
	GitHub    sql.NullString `json:"-"`
}

// RoomSnapshot is the per-room quiz state cached in Redis while a room is
// live, so the hub does not hit Postgres on every message.
type RoomSnapshot struct {
	QuizID   int    `json:"quiz_id"`
	QuizName string `json:"quiz_name"`
	Duration int    `json:"duration"`
	Status   string `json:"status"`
	Flag     bool   `json:"flag"`
}
