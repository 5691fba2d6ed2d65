package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
)

const msgBadCredentials = "Błędny login lub hasło"

// Service creates, resolves and ends sessions. Session state lives in the
// sessions table; the token only proves which row belongs to the caller.
type Service struct {
	store  *db.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	// SecureCookie sets the Secure flag on the session cookie.
	SecureCookie bool
}

func NewService(store *db.Store, secret string, ttl time.Duration) *Service {
	if secret == "" {
		log.Println("⚠️ JWT_SECRET is empty, session tokens are signed with an empty key")
	}
	return &Service{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the clock used for expiry; tests use it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login checks the credentials and opens a new session.
func (s *Service) Login(ctx context.Context, login, password string) (string, *models.Session, error) {
	user, err := s.store.GetUserByLogin(ctx, login)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", nil, apperr.InvalidCredentials(msgBadCredentials)
		}
		return "", nil, err
	}
	if !user.CheckPassword(password) {
		return "", nil, apperr.InvalidCredentials(msgBadCredentials)
	}

	now := s.now()
	sess := &models.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Role:        user.Role,
		DisplayName: user.DisplayName(),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return "", nil, err
	}

	token, err := s.sign(sess)
	if err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

func (s *Service) sign(sess *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": sess.ID,
		"sub": fmt.Sprint(sess.UserID),
		"iat": sess.CreatedAt.Unix(),
		"exp": sess.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// sessionID verifies the token and returns the session id it carries.
func (s *Service) sessionID(token string) (string, bool) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, ok := claims["sid"].(string)
	return sid, ok && sid != ""
}

// Resolve returns the user behind token. The user is re-read on every call,
// so a deleted account ends its sessions.
func (s *Service) Resolve(ctx context.Context, token string) (*models.User, *models.Session, error) {
	if token == "" {
		return nil, nil, apperr.Unauthenticated("Zaloguj się")
	}
	sid, ok := s.sessionID(token)
	if !ok {
		return nil, nil, apperr.Unauthenticated("Sesja jest nieprawidłowa")
	}
	sess, err := s.store.GetSession(ctx, sid)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil, apperr.Unauthenticated("Sesja wygasła")
		}
		return nil, nil, err
	}
	if sess.Expired(s.now()) {
		_ = s.store.DeleteSession(ctx, sess.ID)
		return nil, nil, apperr.Unauthenticated("Sesja wygasła")
	}
	user, err := s.store.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			_ = s.store.DeleteSession(ctx, sess.ID)
			return nil, nil, apperr.Unauthenticated("Konto nie istnieje")
		}
		return nil, nil, err
	}
	return user, sess, nil
}

// Logout ends the session behind token. Unknown or invalid tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	sid, ok := s.sessionID(token)
	if !ok {
		return nil
	}
	return s.store.DeleteSession(ctx, sid)
}

// EndUserSessions logs the user out everywhere.
func (s *Service) EndUserSessions(ctx context.Context, userID uint) error {
	return s.store.DeleteUserSessions(ctx, userID)
}

// PurgeExpired removes every expired session row.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx, s.now())
}
