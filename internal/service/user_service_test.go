package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
	authjwt "github.com/inquizitive-iiitdwd/inquizitive.web/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testPassword = "Sup3r$ecret"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return ErrConflict
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) MarkVerified(_ context.Context, email, token string) error {
	user, ok := f.byEmail[email]
	if !ok || !user.VerificationToken.Valid || user.VerificationToken.String != token {
		return ErrNotFound
	}
	user.Verified = true
	user.VerificationToken = sql.NullString{}
	return nil
}

func (f *fakeUserStore) SetVerificationToken(_ context.Context, email, token string) error {
	user, ok := f.byEmail[email]
	if !ok {
		return ErrNotFound
	}
	user.VerificationToken = sql.NullString{String: token, Valid: true}
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	for _, user := range f.byEmail {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, updated *models.User) error {
	for email, user := range f.byEmail {
		if user.ID == updated.ID {
			if email != updated.Email {
				if _, taken := f.byEmail[updated.Email]; taken {
					return ErrConflict
				}
				delete(f.byEmail, email)
			}
			f.byEmail[updated.Email] = updated
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeUserStore) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	for _, user := range f.byEmail {
		if user.ID == id {
			user.AvatarURL = sql.NullString{String: avatarURL, Valid: true}
			return nil
		}
	}
	return ErrNotFound
}

type fakeBlocklist struct {
	blocked map[string]bool
}

func (f *fakeBlocklist) IsBlocked(_ context.Context, email string) (bool, error) {
	return f.blocked[email], nil
}

type fakeSessionCache struct {
	entries map[string]string
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{entries: make(map[string]string)}
}

func (f *fakeSessionCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.entries[key] = value.(string)
	return nil
}

func (f *fakeSessionCache) Exists(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, key := range keys {
		if _, ok := f.entries[key]; ok {
			n++
		}
	}
	return n, nil
}

type userFixture struct {
	svc      *UserService
	store    *fakeUserStore
	block    *fakeBlocklist
	sessions *fakeSessionCache
	notifier *fakeNotifier
}

func newUserFixture() *userFixture {
	store := newFakeUserStore()
	block := &fakeBlocklist{blocked: make(map[string]bool)}
	sessions := newFakeSessionCache()
	notifier := &fakeNotifier{}
	svc := NewUserService(store, block, sessions, notifier, &fakeMediaStore{},
		"quiz-media", testSecret, "http://localhost:3000", "iiitdwd.ac.in")
	return &userFixture{svc: svc, store: store, block: block, sessions: sessions, notifier: notifier}
}

func (f *userFixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), email, testPassword, "Asha", "")
	require.NoError(t, err)
	return user
}

func (f *userFixture) registerVerified(t *testing.T, email string) *models.User {
	t.Helper()
	user := f.register(t, email)
	require.NoError(t, f.svc.VerifyEmail(context.Background(), user.VerificationToken.String))
	return user
}

func TestRegister(t *testing.T) {
	f := newUserFixture()

	user := f.register(t, "asha@iiitdwd.ac.in")
	assert.Equal(t, models.RoleParticipant, user.Role)
	assert.False(t, user.Verified)
	assert.True(t, user.VerificationToken.Valid)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)))

	require.Len(t, f.notifier.jobs, 1)
	job := f.notifier.jobs[0]
	assert.Equal(t, TemplateVerificationLink, job.Template)
	assert.Contains(t, job.Link, "/verify-email?token=")
}

func TestRegisterRejectsOutsideDomain(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.Register(context.Background(), "asha@gmail.com", testPassword, "Asha", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.Register(context.Background(), "asha@iiitdwd.ac.in", "password", "Asha", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterBlockedEmail(t *testing.T) {
	f := newUserFixture()
	f.block.blocked["asha@iiitdwd.ac.in"] = true

	_, err := f.svc.Register(context.Background(), "asha@iiitdwd.ac.in", testPassword, "Asha", "")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newUserFixture()
	f.register(t, "asha@iiitdwd.ac.in")

	_, err := f.svc.Register(context.Background(), "asha@iiitdwd.ac.in", testPassword, "Asha", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestVerifyEmail(t *testing.T) {
	f := newUserFixture()
	user := f.register(t, "asha@iiitdwd.ac.in")
	token := user.VerificationToken.String

	require.NoError(t, f.svc.VerifyEmail(context.Background(), token))
	assert.True(t, f.store.byEmail["asha@iiitdwd.ac.in"].Verified)

	err := f.svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken, "verification links are single use")
}

func TestVerifyEmailGarbageToken(t *testing.T) {
	f := newUserFixture()

	err := f.svc.VerifyEmail(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "asha@iiitdwd.ac.in")

	token, user, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", testPassword, models.RoleParticipant)
	require.NoError(t, err)
	assert.Equal(t, "asha@iiitdwd.ac.in", user.Email)

	claims, err := authjwt.ValidateSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.RoleParticipant, claims.Role)
	assert.NotEmpty(t, claims.JTI)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "asha@iiitdwd.ac.in")

	_, _, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", "Wr0ng$pass", models.RoleParticipant)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newUserFixture()

	_, _, err := f.svc.Login(context.Background(), "ghost@iiitdwd.ac.in", testPassword, models.RoleParticipant)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnverified(t *testing.T) {
	f := newUserFixture()
	f.register(t, "asha@iiitdwd.ac.in")

	_, _, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", testPassword, models.RoleParticipant)
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLoginWrongPortal(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "asha@iiitdwd.ac.in")

	_, _, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", testPassword, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrWrongPortal)
}

func TestLoginBlocked(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "asha@iiitdwd.ac.in")
	f.block.blocked["asha@iiitdwd.ac.in"] = true

	_, _, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", testPassword, models.RoleParticipant)
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "asha@iiitdwd.ac.in")

	token, _, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", testPassword, models.RoleParticipant)
	require.NoError(t, err)

	claims, err := authjwt.ValidateSessionToken(token, testSecret)
	require.NoError(t, err)

	revoked, err := f.svc.IsSessionRevoked(context.Background(), claims.JTI)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, f.svc.Logout(context.Background(), token))

	revoked, err = f.svc.IsSessionRevoked(context.Background(), claims.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "asha@iiitdwd.ac.in")
	f.notifier.jobs = nil

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "asha@iiitdwd.ac.in"))
	require.Len(t, f.notifier.jobs, 1)
	job := f.notifier.jobs[0]
	require.Equal(t, TemplatePasswordReset, job.Template)

	_, token, found := strings.Cut(job.Link, "token=")
	require.True(t, found)

	newPassword := "N3w$ecret!"
	require.NoError(t, f.svc.ResetPassword(context.Background(), token, newPassword))

	_, _, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", newPassword, models.RoleParticipant)
	assert.NoError(t, err)

	_, _, err = f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", testPassword, models.RoleParticipant)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequestPasswordResetUnknownEmailLooksTheSame(t *testing.T) {
	f := newUserFixture()

	err := f.svc.RequestPasswordReset(context.Background(), "nobody@iiitdwd.ac.in")
	assert.NoError(t, err, "an unknown email must not be distinguishable")
	assert.Empty(t, f.notifier.jobs)
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "asha@iiitdwd.ac.in")

	token, _, err := f.svc.Login(context.Background(), "asha@iiitdwd.ac.in", testPassword, models.RoleParticipant)
	require.NoError(t, err)

	err = f.svc.ResetPassword(context.Background(), token, "N3w$ecret!")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	f := newUserFixture()
	user := f.registerVerified(t, "asha@iiitdwd.ac.in")

	updated, err := f.svc.UpdateProfile(context.Background(), user.ID, "Asha R", "9999999999", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Asha R", updated.UserName)
	assert.Equal(t, "9999999999", updated.PhoneNumber.String)
	assert.Equal(t, "asha@iiitdwd.ac.in", updated.Email)
}

func TestUpdateProfileEmailCollision(t *testing.T) {
	f := newUserFixture()
	f.registerVerified(t, "taken@iiitdwd.ac.in")
	user := f.registerVerified(t, "asha@iiitdwd.ac.in")

	_, err := f.svc.UpdateProfile(context.Background(), user.ID, "", "", "taken@iiitdwd.ac.in", "")
	assert.ErrorIs(t, err, ErrConflict)
}
