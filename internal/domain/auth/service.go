package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

type SecretCipher interface {
	EncryptString(value string) ([]byte, error)
	DecryptString(value []byte) (string, error)
}

type Service struct {
	store     StoreAPI
	cipher    SecretCipher
	secret    string
	tokenTTL  time.Duration
	mfaIssuer string
	now       func() time.Time
}

func NewService(store StoreAPI, cipher SecretCipher, secret string, tokenTTL time.Duration, mfaIssuer string) *Service {
	return &Service{
		store:     store,
		cipher:    cipher,
		secret:    secret,
		tokenTTL:  tokenTTL,
		mfaIssuer: mfaIssuer,
		now:       time.Now,
	}
}

func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if strings.TrimSpace(mfaCode) == "" {
			return LoginResult{}, ErrMFARequired
		}
		secret, err := s.decryptSecret(user.MFASecretEnc)
		if err != nil || secret == "" || !totp.Validate(strings.TrimSpace(mfaCode), secret) {
			return LoginResult{}, ErrMFAInvalid
		}
	}

	sessionID, err := randomToken()
	if err != nil {
		return LoginResult{}, err
	}
	expires := s.now().Add(s.tokenTTL)
	if err := s.store.CreateSession(ctx, user.ID, HashToken(sessionID), expires); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Email: user.Email, RoleName: NormalizeRole(user.Role), SessionID: sessionID}, s.tokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "update last_login failed", "userId", user.ID, "err", err)
	}

	return LoginResult{
		Token:   token,
		Expires: expires,
		User: Profile{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       NormalizeRole(user.Role),
			MFAEnabled: user.MFAEnabled,
		},
	}, nil
}

func (s *Service) Logout(ctx context.Context, user UserContext) error {
	if user.SessionID == "" {
		return nil
	}
	return s.store.RevokeSession(ctx, user.UserID, HashToken(user.SessionID))
}

// SessionActive backs the auth middleware: tokens without a session id are
// rejected once a session store is wired.
func (s *Service) SessionActive(ctx context.Context, userID, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return s.store.SessionValid(ctx, userID, HashToken(sessionID))
}

func (s *Service) Profile(ctx context.Context, user UserContext) (Profile, error) {
	return s.store.GetProfile(ctx, user.UserID)
}

func (s *Service) UpdateProfile(ctx context.Context, user UserContext, update ProfileUpdate) (Profile, error) {
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
	}
	if err := s.store.UpdateProfile(ctx, user.UserID, update); err != nil {
		return Profile{}, err
	}
	return s.store.GetProfile(ctx, user.UserID)
}

func (s *Service) SetupMFA(ctx context.Context, user UserContext) (MFASetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: s.mfaIssuer, AccountName: user.Email})
	if err != nil {
		return MFASetup{}, err
	}
	enc, err := s.encryptSecret(key.Secret())
	if err != nil {
		return MFASetup{}, err
	}
	if err := s.store.UpdateMFASecret(ctx, user.UserID, enc); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: key.Secret(), URL: key.URL()}, nil
}

func (s *Service) EnableMFA(ctx context.Context, user UserContext, code string) error {
	stored, err := s.store.FindUserByID(ctx, user.UserID)
	if err != nil {
		return err
	}
	if len(stored.MFASecretEnc) == 0 {
		return ErrMFANotConfigured
	}
	secret, err := s.decryptSecret(stored.MFASecretEnc)
	if err != nil || !totp.Validate(strings.TrimSpace(code), secret) {
		return ErrMFAInvalid
	}
	return s.store.SetMFAEnabled(ctx, user.UserID, true)
}

func (s *Service) DisableMFA(ctx context.Context, user UserContext, code string) error {
	stored, err := s.store.FindUserByID(ctx, user.UserID)
	if err != nil {
		return err
	}
	if !stored.MFAEnabled {
		return nil
	}
	secret, err := s.decryptSecret(stored.MFASecretEnc)
	if err != nil || !totp.Validate(strings.TrimSpace(code), secret) {
		return ErrMFAInvalid
	}
	return s.store.SetMFAEnabled(ctx, user.UserID, false)
}

func (s *Service) encryptSecret(secret string) ([]byte, error) {
	if s.cipher == nil {
		return []byte(secret), nil
	}
	return s.cipher.EncryptString(secret)
}

func (s *Service) decryptSecret(enc []byte) (string, error) {
	if s.cipher == nil {
		return string(enc), nil
	}
	return s.cipher.DecryptString(enc)
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
