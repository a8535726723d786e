package repository

import (
	"context"
	"database/sql"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
)

// AdminRepository backs the admin console: club members and the email
// blocklist.
type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) AddMember(ctx context.Context, m *models.Member) (*models.Member, error) {
	query := `
		INSERT INTO member (image, name, role, about, instagram, linkedin, github)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		m.Image, m.Name, m.Role, m.About, m.Instagram, m.LinkedIn, m.GitHub,
	).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *AdminRepository) ListMembers(ctx context.Context) ([]*models.Member, error) {
	query := `
		SELECT id, image, name, role, about, instagram, linkedin, github
		FROM member
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		err := rows.Scan(&m.ID, &m.Image, &m.Name, &m.Role, &m.About, &m.Instagram, &m.LinkedIn, &m.GitHub)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (r *AdminRepository) BlockEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blocked_gmail (gmail) VALUES ($1) ON CONFLICT (gmail) DO NOTHING`,
		email,
	)
	return err
}

func (r *AdminRepository) UnblockEmail(ctx context.Context, email string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blocked_gmail WHERE gmail = $1`, email)
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

func (r *AdminRepository) IsBlocked(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM blocked_gmail WHERE gmail = $1)`, email,
	).Scan(&exists)
	return exists, err
}
