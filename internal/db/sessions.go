package db

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/in-nis/matura-back/internal/models"
)

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(sess).Error, "creating session")
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error; err != nil {
		return nil, notFound(err, "Sesja nie istnieje")
	}
	return &sess, nil
}

// DeleteSession removes the session; deleting a missing one is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
	return errors.Wrap(err, "deleting session")
}

func (s *Store) DeleteUserSessions(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
	return errors.Wrap(err, "deleting user sessions")
}

// DeleteExpiredSessions removes every session whose expiry is at or before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, errors.Wrap(res.Error, "purging sessions")
}
