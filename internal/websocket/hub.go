package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"
)

const roomSnapshotTTL = time.Hour

type ClientMessage struct {
	Client  *Client
	Message Message
}

type RoomQuizStore interface {
	GetByName(ctx context.Context, name string) (*models.Quiz, error)
	SetFlag(ctx context.Context, name string, value bool) error
}

type AccessGate interface {
	RedeemAccess(ctx context.Context, code string) (*models.TeamRegistration, error)
}

type ScoreSource interface {
	RoomScores(ctx context.Context, quizName string) ([]*models.ScoreRecord, error)
}

type SnapshotCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// Hub keeps one room per quiz. A room exists while at least one client is in
// it; its quiz snapshot lives in Redis so repeated joins and flag reads do
// not hit Postgres.
type Hub struct {
	clients       map[string]map[*Client]bool
	Unregister    chan *Client
	HandleMessage chan *ClientMessage

	quizzes RoomQuizStore
	gate    AccessGate
	scores  ScoreSource
	cache   SnapshotCache

	mu sync.RWMutex
}

func NewHub(quizzes RoomQuizStore, gate AccessGate, scores ScoreSource, cache SnapshotCache) *Hub {
	return &Hub{
		clients:       make(map[string]map[*Client]bool),
		Unregister:    make(chan *Client),
		HandleMessage: make(chan *ClientMessage),
		quizzes:       quizzes,
		gate:          gate,
		scores:        scores,
		cache:         cache,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.HandleMessage:
			h.handleClientMessage(clientMsg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Room] == nil {
		h.clients[client.Room] = make(map[*Client]bool)
	}
	h.clients[client.Room][client] = true

	log.Printf("Client joined room: room=%s, role=%s", client.Room, client.Role)

	payload := ParticipantsUpdatePayload{
		Action: ActionJoined,
		Count:  len(h.clients[client.Room]),
	}
	for c := range h.clients[client.Room] {
		c.SendMessage(MessageTypeParticipantsUpdate, payload)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.Room == "" {
		client.closeSend()
		return
	}

	if clients, ok := h.clients[client.Room]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.closeSend()

			if len(clients) == 0 {
				delete(h.clients, client.Room)
				if err := h.cache.Delete(context.Background(), snapshotKey(client.Room)); err != nil {
					log.Printf("Failed to drop room snapshot for %s: %v", client.Room, err)
				}
			} else {
				payload := ParticipantsUpdatePayload{
					Action: ActionLeft,
					Count:  len(clients),
				}
				for c := range clients {
					c.SendMessage(MessageTypeParticipantsUpdate, payload)
				}
			}

			log.Printf("Client left room: room=%s, role=%s", client.Room, client.Role)
		}
	}
}

func (h *Hub) handleClientMessage(clientMsg *ClientMessage) {
	client := clientMsg.Client
	msg := clientMsg.Message

	switch msg.Type {
	case MessageTypeJoin:
		h.handleJoin(client, msg.Payload)

	case MessageTypeSetFlag:
		if client.Role == models.RoleOrganizer || client.Role == models.RoleAdmin {
			go h.handleSetFlag(client, msg.Payload)
		} else {
			client.SendError("Only the quiz organizer can set the flag")
		}

	case MessageTypeGetScores:
		go h.handleGetScores(client)

	case MessageTypePing:
		client.SendMessage(MessageTypePong, nil)

	default:
		client.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// handleJoin runs on the hub loop, never in a spawned goroutine: it is the
// only writer of the client's identity fields, and the per-message goroutines
// only read fields set before they were spawned.
func (h *Hub) handleJoin(client *Client, rawPayload any) {
	if client.Room != "" {
		client.SendError("Already in a room")
		return
	}

	var payload JoinPayload
	if err := decodePayload(rawPayload, &payload); err != nil || payload.QuizName == "" {
		client.SendError("Invalid join payload")
		return
	}

	ctx := context.Background()

	if client.Role == models.RoleParticipant || client.Role == "" {
		team, err := h.gate.RedeemAccess(ctx, payload.AccessCode)
		if errors.Is(err, service.ErrInvalidOrExpired) {
			client.SendError("Invalid or expired access code")
			return
		}
		if err != nil {
			log.Printf("Failed to redeem access code: %v", err)
			client.SendError("Failed to join room")
			return
		}
		client.Role = models.RoleParticipant
		client.Email = team.LeadMailID
		client.TeamName = team.TeamName
	}

	snapshot, err := h.getSnapshot(ctx, payload.QuizName)
	if errors.Is(err, service.ErrNotFound) {
		client.SendError("Room not found")
		return
	}
	if err != nil {
		log.Printf("Failed to load room snapshot for %s: %v", payload.QuizName, err)
		client.SendError("Failed to join room")
		return
	}

	if client.Role == models.RoleParticipant && snapshot.Status != models.QuizStatusApproved {
		client.SendError("Quiz is not open yet")
		return
	}

	client.Room = payload.QuizName
	h.registerClient(client)

	client.SendMessage(MessageTypeJoined, JoinedPayload{
		QuizName: snapshot.QuizName,
		Duration: snapshot.Duration,
		Status:   snapshot.Status,
		Flag:     snapshot.Flag,
		TeamName: client.TeamName,
	})
}

// handleSetFlag persists the flag, refreshes the cached snapshot and fans
// the new value out to everyone else in the room; the setter already knows.
// Concurrent setters race politely: last write wins everywhere.
func (h *Hub) handleSetFlag(client *Client, rawPayload any) {
	if client.Room == "" {
		client.SendError("Join a room first")
		return
	}

	var payload SetFlagPayload
	if err := decodePayload(rawPayload, &payload); err != nil {
		client.SendError("Invalid set_flag payload")
		return
	}

	ctx := context.Background()

	if err := h.quizzes.SetFlag(ctx, client.Room, payload.Value); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			client.SendError("Room not found")
			return
		}
		log.Printf("Failed to set flag for %s: %v", client.Room, err)
		client.SendError("Failed to set flag")
		return
	}

	if err := h.refreshSnapshot(ctx, client.Room); err != nil {
		log.Printf("Failed to refresh room snapshot for %s: %v", client.Room, err)
	}

	h.broadcastToRoom(client.Room, client, MessageTypeFlagUpdate, FlagUpdatePayload{
		QuizName: client.Room,
		Value:    payload.Value,
	})
}

// handleGetScores answers only the requesting client; scores are a pull, not
// a broadcast.
func (h *Hub) handleGetScores(client *Client) {
	if client.Room == "" {
		client.SendError("Join a room first")
		return
	}

	records, err := h.scores.RoomScores(context.Background(), client.Room)
	if err != nil {
		log.Printf("Failed to load scores for %s: %v", client.Room, err)
		client.SendError("Failed to load scores")
		return
	}

	entries := make([]ScoreEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, ScoreEntry{
			LeadMailID:  rec.LeadMailID,
			Marks:       rec.Marks,
			SubmittedAt: rec.SubmittedAt,
		})
	}

	client.SendMessage(MessageTypeScores, ScoresPayload{
		QuizName: client.Room,
		Scores:   entries,
	})
}

func (h *Hub) broadcastToRoom(room string, sender *Client, msgType MessageType, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[room] {
		if client == sender {
			continue
		}
		client.SendMessage(msgType, payload)
	}
}

func (h *Hub) getSnapshot(ctx context.Context, quizName string) (*models.RoomSnapshot, error) {
	if cached, err := h.cache.Get(ctx, snapshotKey(quizName)); err == nil {
		var snapshot models.RoomSnapshot
		if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
			return &snapshot, nil
		}
	}
	return h.refreshSnapshotValue(ctx, quizName)
}

func (h *Hub) refreshSnapshot(ctx context.Context, quizName string) error {
	_, err := h.refreshSnapshotValue(ctx, quizName)
	return err
}

func (h *Hub) refreshSnapshotValue(ctx context.Context, quizName string) (*models.RoomSnapshot, error) {
	quiz, err := h.quizzes.GetByName(ctx, quizName)
	if err != nil {
		return nil, err
	}

	snapshot := &models.RoomSnapshot{
		QuizID:   quiz.ID,
		QuizName: quiz.Name,
		Duration: quiz.Duration,
		Status:   quiz.Status,
		Flag:     quiz.Flag,
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, snapshotKey(quizName), string(data), roomSnapshotTTL); err != nil {
		log.Printf("Failed to cache room snapshot for %s: %v", quizName, err)
	}
	return snapshot, nil
}

func snapshotKey(quizName string) string {
	return fmt.Sprintf("room:%s:snapshot", quizName)
}

func decodePayload(payload any, v any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
