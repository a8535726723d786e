package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"

	"github.com/lib/pq"
)

type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `
	id, team_leader_name, team_leader_id, lead_mail_id, team_name,
	member_i, member_i_id, member_ii, member_ii_id, team_key, key_issued_at
`

func scanTeam(row interface{ Scan(...any) error }) (*models.TeamRegistration, error) {
	team := &models.TeamRegistration{}
	err := row.Scan(
		&team.ID,
		&team.TeamLeaderName,
		&team.TeamLeaderID,
		&team.LeadMailID,
		&team.TeamName,
		&team.MemberI,
		&team.MemberIID,
		&team.MemberII,
		&team.MemberIIID,
		&team.TeamKey,
		&team.KeyIssuedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

// FindConflict runs the single uniqueness query across team name, leader
// email and every member identifier of existing registrations.
func (r *TeamRepository) FindConflict(ctx context.Context, teamName, leadMailID string, memberIDs []string) (*models.TeamRegistration, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM event_registration
		WHERE team_name = $1
		   OR lead_mail_id = $2
		   OR team_leader_id = ANY($3)
		   OR member_i_id = ANY($3)
		   OR member_ii_id = ANY($3)
		LIMIT 1
	`, teamColumns)

	return scanTeam(r.db.QueryRowContext(ctx, query, teamName, leadMailID, pq.Array(memberIDs)))
}

func (r *TeamRepository) Insert(ctx context.Context, team *models.TeamRegistration) error {
	query := `
		INSERT INTO event_registration (
			team_leader_name, team_leader_id, lead_mail_id, team_name,
			member_i, member_i_id, member_ii, member_ii_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		team.TeamLeaderName,
		team.TeamLeaderID,
		team.LeadMailID,
		team.TeamName,
		team.MemberI,
		team.MemberIID,
		team.MemberII,
		team.MemberIIID,
	)

	return mapConflict(err)
}

func (r *TeamRepository) FindByLeadMail(ctx context.Context, leadMailID string) (*models.TeamRegistration, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_registration WHERE lead_mail_id = $1`, teamColumns)
	return scanTeam(r.db.QueryRowContext(ctx, query, leadMailID))
}

// UpdateAccessKey rotates the team's access code and records its issue time.
func (r *TeamRepository) UpdateAccessKey(ctx context.Context, leadMailID, code string, issuedAt time.Time) error {
	query := `UPDATE event_registration SET team_key = $1, key_issued_at = $2 WHERE lead_mail_id = $3`

	result, err := r.db.ExecContext(ctx, query, code, issuedAt, leadMailID)
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

// FindByAccessKey resolves a code issued after the given cutoff. Codes are
// not consumed on redemption; the freshness window is the only expiry.
func (r *TeamRepository) FindByAccessKey(ctx context.Context, code string, issuedAfter time.Time) (*models.TeamRegistration, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM event_registration
		WHERE team_key = $1 AND key_issued_at > $2
	`, teamColumns)

	return scanTeam(r.db.QueryRowContext(ctx, query, code, issuedAfter))
}

// FindByRoomKey resolves a room key to its registration regardless of the
// freshness window; score submission happens after the quiz, well outside it.
func (r *TeamRepository) FindByRoomKey(ctx context.Context, roomKey string) (*models.TeamRegistration, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_registration WHERE team_key = $1`, teamColumns)
	return scanTeam(r.db.QueryRowContext(ctx, query, roomKey))
}
