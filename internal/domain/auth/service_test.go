package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	users    map[string]AuthUser
	sessions map[string]bool
	logins   int
}

func newMemoryStore(users ...AuthUser) *memoryStore {
	store := &memoryStore{users: map[string]AuthUser{}, sessions: map[string]bool{}}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (m *memoryStore) FindUserByEmail(_ context.Context, email string) (AuthUser, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return AuthUser{}, ErrUserNotFound
}

func (m *memoryStore) FindUserByID(_ context.Context, userID string) (AuthUser, error) {
	u, ok := m.users[userID]
	if !ok {
		return AuthUser{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memoryStore) GetProfile(_ context.Context, userID string) (Profile, error) {
	u, ok := m.users[userID]
	if !ok {
		return Profile{}, ErrUserNotFound
	}
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, MFAEnabled: u.MFAEnabled}, nil
}

func (m *memoryStore) UpdateProfile(_ context.Context, userID string, update ProfileUpdate) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	m.users[userID] = u
	return nil
}

func (m *memoryStore) CreateSession(_ context.Context, userID, tokenHash string, _ time.Time) error {
	m.sessions[userID+":"+tokenHash] = true
	return nil
}

func (m *memoryStore) SessionValid(_ context.Context, userID, tokenHash string) (bool, error) {
	return m.sessions[userID+":"+tokenHash], nil
}

func (m *memoryStore) RevokeSession(_ context.Context, userID, tokenHash string) error {
	delete(m.sessions, userID+":"+tokenHash)
	return nil
}

func (m *memoryStore) UpdateLastLogin(context.Context, string) error {
	m.logins++
	return nil
}

func (m *memoryStore) UpdateMFASecret(_ context.Context, userID string, secretEnc []byte) error {
	u := m.users[userID]
	u.MFASecretEnc = secretEnc
	u.MFAEnabled = false
	m.users[userID] = u
	return nil
}

func (m *memoryStore) SetMFAEnabled(_ context.Context, userID string, enabled bool) error {
	u := m.users[userID]
	u.MFAEnabled = enabled
	m.users[userID] = u
	return nil
}

func testUser(t *testing.T) AuthUser {
	t.Helper()
	hash, err := HashPassword("Stronger123")
	require.NoError(t, err)
	return AuthUser{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: RoleEmployee, PasswordHash: hash}
}

func TestLoginIssuesTokenAndSession(t *testing.T) {
	store := newMemoryStore(testUser(t))
	svc := NewService(store, nil, "secret", time.Hour, "HR Portal")

	result, err := svc.Login(context.Background(), "asha@example.com", "Stronger123", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, 1, store.logins)

	claims, err := ParseToken("secret", result.Token)
	require.NoError(t, err)
	active, err := svc.SessionActive(context.Background(), claims.UserID, claims.SessionID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.Logout(context.Background(), UserContext{UserID: claims.UserID, SessionID: claims.SessionID}))
	active, err = svc.SessionActive(context.Background(), claims.UserID, claims.SessionID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(newMemoryStore(testUser(t)), nil, "secret", time.Hour, "HR Portal")

	_, err := svc.Login(context.Background(), "asha@example.com", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "missing@example.com", "Stronger123", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMFAFlow(t *testing.T) {
	store := newMemoryStore(testUser(t))
	svc := NewService(store, nil, "secret", time.Hour, "HR Portal")
	user := UserContext{UserID: "u1", Email: "asha@example.com"}

	setup, err := svc.SetupMFA(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, setup.Secret)

	assert.ErrorIs(t, svc.EnableMFA(context.Background(), user, "000000"), ErrMFAInvalid)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.EnableMFA(context.Background(), user, code))

	_, err = svc.Login(context.Background(), "asha@example.com", "Stronger123", "")
	assert.ErrorIs(t, err, ErrMFARequired)

	_, err = svc.Login(context.Background(), "asha@example.com", "Stronger123", code)
	assert.NoError(t, err)
}

func TestEnableMFAWithoutSetup(t *testing.T) {
	svc := NewService(newMemoryStore(testUser(t)), nil, "secret", time.Hour, "HR Portal")
	err := svc.EnableMFA(context.Background(), UserContext{UserID: "u1"}, "123456")
	assert.ErrorIs(t, err, ErrMFANotConfigured)
}

func TestUpdateProfileTrimsName(t *testing.T) {
	svc := NewService(newMemoryStore(testUser(t)), nil, "secret", time.Hour, "HR Portal")
	name := "  Asha K  "
	profile, err := svc.UpdateProfile(context.Background(), UserContext{UserID: "u1"}, ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", profile.Name)
}
