package websocket

import "time"

type MessageType string

const (
	// Client -> Server
	MessageTypeJoin      MessageType = "join"
	MessageTypeSetFlag   MessageType = "set_flag"
	MessageTypeGetScores MessageType = "get_scores"
	MessageTypePing      MessageType = "ping"

	// Server -> Client
	MessageTypeJoined             MessageType = "joined"
	MessageTypeParticipantsUpdate MessageType = "participants_update"
	MessageTypeFlagUpdate         MessageType = "flag_update"
	MessageTypeScores             MessageType = "scores"
	MessageTypeError              MessageType = "error"
	MessageTypePong               MessageType = "pong"
)

const (
	ActionJoined = "joined"
	ActionLeft   = "left"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type JoinPayload struct {
	QuizName   string `json:"quiz_name"`
	AccessCode string `json:"access_code,omitempty"`
}

type SetFlagPayload struct {
	Value bool `json:"value"`
}

type JoinedPayload struct {
	QuizName string `json:"quiz_name"`
	Duration int    `json:"duration"`
	Status   string `json:"status"`
	Flag     bool   `json:"flag"`
	TeamName string `json:"team_name,omitempty"`
}

type ParticipantsUpdatePayload struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type FlagUpdatePayload struct {
	QuizName string `json:"quiz_name"`
	Value    bool   `json:"value"`
}

type ScoresPayload struct {
	QuizName string       `json:"quiz_name"`
	Scores   []ScoreEntry `json:"scores"`
}

type ScoreEntry struct {
	LeadMailID  string    `json:"lead_mail_id"`
	Marks       int       `json:"marks"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
