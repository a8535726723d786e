package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math"
	"math/big"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

const (
	// AccessCodeTTL bounds both sides of the gate: a leader cannot request a
	// new code while one this fresh exists, and a code older than this no
	// longer opens the room.
	AccessCodeTTL = 5 * time.Minute

	accessCodeDigits = 4
)

type TeamStore interface {
	FindConflict(ctx context.Context, teamName, leadMailID string, memberIDs []string) (*models.TeamRegistration, error)
	Insert(ctx context.Context, team *models.TeamRegistration) error
	FindByLeadMail(ctx context.Context, leadMailID string) (*models.TeamRegistration, error)
	UpdateAccessKey(ctx context.Context, leadMailID, code string, issuedAt time.Time) error
	FindByAccessKey(ctx context.Context, code string, issuedAfter time.Time) (*models.TeamRegistration, error)
}

// AccessService is the gate between event registration and the quiz room:
// teams register once, then trade the leader's email for a short-lived
// numeric access code.
type AccessService struct {
	teams    TeamStore
	notifier Notifier
}

func NewAccessService(teams TeamStore, notifier Notifier) *AccessService {
	return &AccessService{
		teams:    teams,
		notifier: notifier,
	}
}

// RegisterTeam enrolls a team for the event. Team name, leader email and
// every member identifier must be unused across existing registrations.
func (s *AccessService) RegisterTeam(ctx context.Context, team *models.TeamRegistration) error {
	existing, err := s.teams.FindConflict(ctx, team.TeamName, team.LeadMailID, team.MemberIDs())
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if existing != nil {
		switch {
		case existing.TeamName == team.TeamName:
			return fmt.Errorf("%w: team name %q is already taken", ErrConflict, team.TeamName)
		case existing.LeadMailID == team.LeadMailID:
			return fmt.Errorf("%w: this email has already registered a team", ErrConflict)
		default:
			return fmt.Errorf("%w: a listed member already belongs to team %q", ErrConflict, existing.TeamName)
		}
	}

	return s.teams.Insert(ctx, team)
}

// RequestAccess issues a fresh access code to a registered team leader and
// emails it to them. A leader who already holds a code younger than
// AccessCodeTTL is throttled instead of getting a new one.
func (s *AccessService) RequestAccess(ctx context.Context, leadMailID string) error {
	team, err := s.teams.FindByLeadMail(ctx, leadMailID)
	if errors.Is(err, ErrNotFound) {
		return ErrNotRegistered
	}
	if err != nil {
		return err
	}

	if team.KeyIssuedAt.Valid {
		if wait := AccessCodeTTL - time.Since(team.KeyIssuedAt.Time); wait > 0 {
			minutes := int(math.Ceil(wait.Minutes()))
			return fmt.Errorf("%w: try again in %d minute(s)", ErrThrottled, minutes)
		}
	}

	code, err := generateAccessCode()
	if err != nil {
		return fmt.Errorf("failed to generate access code: %w", err)
	}

	if err := s.teams.UpdateAccessKey(ctx, leadMailID, code, time.Now()); err != nil {
		return err
	}

	if err := s.notifier.Enqueue(ctx, EmailJob{
		To:       leadMailID,
		Template: TemplateAccessCode,
		Code:     code,
	}); err != nil {
		log.Printf("Failed to enqueue access code email for %s: %v", leadMailID, err)
	}

	return nil
}

// RedeemAccess resolves a code back to its team. Codes stay valid for the
// whole freshness window and are not consumed on use, so a team that
// reconnects within five minutes gets back in with the same code.
func (s *AccessService) RedeemAccess(ctx context.Context, code string) (*models.TeamRegistration, error) {
	team, err := s.teams.FindByAccessKey(ctx, code, time.Now().Add(-AccessCodeTTL))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidOrExpired
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

func generateAccessCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < accessCodeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", accessCodeDigits, n.Int64()), nil
}
