package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
	authjwt "github.com/inquizitive-iiitdwd/inquizitive.web/pkg/jwt"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	MarkVerified(ctx context.Context, email, token string) error
	SetVerificationToken(ctx context.Context, email, token string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}

type Blocklist interface {
	IsBlocked(ctx context.Context, email string) (bool, error)
}

type SessionCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Exists(ctx context.Context, keys ...string) (int64, error)
}

const sessionBlacklistPrefix = "jwt_blacklist:"

// UserService covers account lifecycle: registration with email
// verification, login per portal, logout via token revocation, password
// reset and profile management.
type UserService struct {
	users       UserStore
	blocklist   Blocklist
	sessions    SessionCache
	notifier    Notifier
	avatars     MediaStore
	bucket      string
	jwtSecret   string
	frontendURL string
	emailDomain string
}

func NewUserService(users UserStore, blocklist Blocklist, sessions SessionCache, notifier Notifier, avatars MediaStore, bucket, jwtSecret, frontendURL, emailDomain string) *UserService {
	return &UserService{
		users:       users,
		blocklist:   blocklist,
		sessions:    sessions,
		notifier:    notifier,
		avatars:     avatars,
		bucket:      bucket,
		jwtSecret:   jwtSecret,
		frontendURL: frontendURL,
		emailDomain: emailDomain,
	}
}

// Register creates an unverified account and emails a verification link.
// Only institute addresses may sign up, and blocked addresses are refused.
func (s *UserService) Register(ctx context.Context, email, password, userName, phoneNumber string) (*models.User, error) {
	email = validator.NormalizeEmail(email)

	if err := validator.ValidateInstituteEmail(email, s.emailDomain); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validator.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	blocked, err := s.blocklist.IsBlocked(ctx, email)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()
	token, err := authjwt.GenerateEmailToken(id, email, authjwt.PurposeVerifyEmail, s.jwtSecret, authjwt.VerificationTokenDuration)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:                id,
		Email:             email,
		PhoneNumber:       nullable(phoneNumber),
		PasswordHash:      string(hash),
		UserName:          userName,
		Role:              models.RoleParticipant,
		Verified:          false,
		VerificationToken: nullable(token),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}

	s.enqueueLink(ctx, email, TemplateVerificationLink, "/verify-email?token="+token)
	return user, nil
}

// VerifyEmail confirms ownership of the address. The stored token is cleared
// on success so the link cannot be replayed.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := authjwt.ValidateEmailToken(token, authjwt.PurposeVerifyEmail, s.jwtSecret)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.users.MarkVerified(ctx, claims.Email, token); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// ResendVerification issues a fresh verification token for an unverified
// account.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	email = validator.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified {
		return fmt.Errorf("%w: email already verified", ErrConflict)
	}

	token, err := authjwt.GenerateEmailToken(user.ID, email, authjwt.PurposeVerifyEmail, s.jwtSecret, authjwt.VerificationTokenDuration)
	if err != nil {
		return err
	}
	if err := s.users.SetVerificationToken(ctx, email, token); err != nil {
		return err
	}

	s.enqueueLink(ctx, email, TemplateVerificationLink, "/verify-email?token="+token)
	return nil
}

// Login authenticates a verified account and issues a session token. The
// portalRole pins which login page may sign in which role; organizers get a
// longer session than everyone else.
func (s *UserService) Login(ctx context.Context, email, password, portalRole string) (string, *models.User, error) {
	email = validator.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	blocked, err := s.blocklist.IsBlocked(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if blocked {
		return "", nil, ErrBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Verified {
		return "", nil, ErrNotVerified
	}
	if portalRole != "" && user.Role != portalRole {
		return "", nil, ErrWrongPortal
	}

	duration := authjwt.SessionTokenDuration
	if user.Role == models.RoleOrganizer {
		duration = authjwt.OrganizerSessionDuration
	}

	token, err := authjwt.GenerateSessionToken(user.ID, user.Email, user.Role, s.jwtSecret, duration)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the session by blacklisting its JTI until the longest
// possible session lifetime has passed.
func (s *UserService) Logout(ctx context.Context, token string) error {
	jti, err := authjwt.ExtractJTI(token)
	if err != nil {
		return ErrInvalidToken
	}
	return s.sessions.Set(ctx, sessionBlacklistPrefix+jti, "revoked", authjwt.OrganizerSessionDuration)
}

// IsSessionRevoked reports whether a session's JTI has been blacklisted.
func (s *UserService) IsSessionRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.sessions.Exists(ctx, sessionBlacklistPrefix+jti)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RequestPasswordReset emails a short-lived reset link to an existing
// account. An unknown email gets the same success as a known one, so the
// endpoint cannot be used to probe which addresses have accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = validator.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		log.Printf("Password reset requested for unknown email %s", email)
		return nil
	}
	if err != nil {
		return err
	}

	token, err := authjwt.GenerateEmailToken(user.ID, email, authjwt.PurposePasswordReset, s.jwtSecret, authjwt.PasswordResetTokenDuration)
	if err != nil {
		return err
	}

	s.enqueueLink(ctx, email, TemplatePasswordReset, "/reset-password?token="+token)
	return nil
}

// ResetPassword sets a new password from a valid reset token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := authjwt.ValidateEmailToken(token, authjwt.PurposePasswordReset, s.jwtSecret)
	if err != nil {
		return ErrInvalidToken
	}
	if err := validator.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, claims.UserID, string(hash))
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies the non-empty fields to the account. Changing the
// email keeps the institute-domain restriction.
func (s *UserService) UpdateProfile(ctx context.Context, id, userName, phoneNumber, email, password string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if userName != "" {
		user.UserName = userName
	}
	if phoneNumber != "" {
		user.PhoneNumber = nullable(phoneNumber)
	}
	if email != "" {
		email = validator.NormalizeEmail(email)
		if err := validator.ValidateInstituteEmail(email, s.emailDomain); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Email = email
	}
	if password != "" {
		if err := validator.ValidatePassword(password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the image and records its URL on the account.
func (s *UserService) UploadAvatar(ctx context.Context, id, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	object := fmt.Sprintf("avatars/%s%s", id, path.Ext(fileName))

	if err := s.avatars.UploadFile(ctx, s.bucket, object, reader, size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	url := s.avatars.ObjectURL(s.bucket, object)
	if err := s.users.UpdateAvatar(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *UserService) enqueueLink(ctx context.Context, email, template, pathAndQuery string) {
	if err := s.notifier.Enqueue(ctx, EmailJob{
		To:       email,
		Template: template,
		Link:     s.frontendURL + pathAndQuery,
	}); err != nil {
		log.Printf("Failed to enqueue %s email for %s: %v", template, email, err)
	}
}
