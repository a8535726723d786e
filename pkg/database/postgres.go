package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inquizitive-iiitdwd/inquizitive.web/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	createUsersTable := `
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			phone_number VARCHAR(32),
			password_hash VARCHAR(255) NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			role VARCHAR(32) NOT NULL DEFAULT 'participant',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			verification_token TEXT,
			avatar_url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	createEventRegistrationTable := `
		CREATE TABLE IF NOT EXISTS event_registration (
			id SERIAL PRIMARY KEY,
			team_leader_name VARCHAR(255) NOT NULL,
			team_leader_id VARCHAR(64) NOT NULL,
			lead_mail_id VARCHAR(255) NOT NULL UNIQUE,
			team_name VARCHAR(255) NOT NULL UNIQUE,
			member_i VARCHAR(255),
			member_i_id VARCHAR(64),
			member_ii VARCHAR(255),
			member_ii_id VARCHAR(64),
			team_key VARCHAR(8),
			key_issued_at TIMESTAMP
		);
	`

	createQuizSetupTable := `
		CREATE TABLE IF NOT EXISTS quiz_setup (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			quiz_date VARCHAR(32),
			quiz_time VARCHAR(32),
			duration INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			reviewed_by VARCHAR(255),
			review_comments TEXT,
			flag BOOLEAN NOT NULL DEFAULT FALSE,
			created_by VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	createQuizQuestionTable := `
		CREATE TABLE IF NOT EXISTS quiz_question (
			question_id VARCHAR(64) NOT NULL,
			quiz_name VARCHAR(255) NOT NULL REFERENCES quiz_setup(name),
			question TEXT NOT NULL,
			option_1 TEXT,
			option_2 TEXT,
			option_3 TEXT,
			option_4 TEXT,
			answer TEXT,
			description TEXT,
			marks INTEGER NOT NULL DEFAULT 0,
			negative_marks INTEGER NOT NULL DEFAULT 0,
			question_type VARCHAR(32) NOT NULL DEFAULT 'multiple-choice',
			file_type VARCHAR(16),
			file_url TEXT,
			PRIMARY KEY (quiz_name, question_id)
		);
		CREATE INDEX IF NOT EXISTS idx_quiz_question_quiz_name ON quiz_question(quiz_name);
	`

	// The unique constraint is what makes duplicate submissions safe under
	// concurrent inserts; the service-level existence check alone is not.
	createQuizMarksTable := `
		CREATE TABLE IF NOT EXISTS quiz_marks (
			id SERIAL PRIMARY KEY,
			lead_mail_id VARCHAR(255) NOT NULL REFERENCES event_registration(lead_mail_id),
			quiz_name VARCHAR(255) NOT NULL REFERENCES quiz_setup(name),
			marks INTEGER NOT NULL,
			submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (lead_mail_id, quiz_name)
		);
		CREATE INDEX IF NOT EXISTS idx_quiz_marks_quiz_name ON quiz_marks(quiz_name);
	`

	createMemberTable := `
		CREATE TABLE IF NOT EXISTS member (
			id SERIAL PRIMARY KEY,
			image TEXT,
			name VARCHAR(255) NOT NULL,
			role VARCHAR(255) NOT NULL,
			about TEXT,
			instagram TEXT,
			linkedin TEXT,
			github TEXT
		);
	`

	createBlockedGmailTable := `
		CREATE TABLE IF NOT EXISTS blocked_gmail (
			gmail VARCHAR(255) PRIMARY KEY
		);
	`

	statements := []struct {
		name string
		stmt string
	}{
		{"users", createUsersTable},
		{"event_registration", createEventRegistrationTable},
		{"quiz_setup", createQuizSetupTable},
		{"quiz_question", createQuizQuestionTable},
		{"quiz_marks", createQuizMarksTable},
		{"member", createMemberTable},
		{"blocked_gmail", createBlockedGmailTable},
	}

	for _, s := range statements {
		if _, err := c.db.ExecContext(ctx, s.stmt); err != nil {
			return fmt.Errorf("failed to create %s table: %w", s.name, err)
		}
	}

	return nil
}
