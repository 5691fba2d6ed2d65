package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/in-nis/matura-back/internal/models"
)

// AddNotifications appends the notifications as given.
func (s *Store) AddNotifications(ctx context.Context, ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(&ns).Error, "adding notifications")
}

// RecentNotifications returns up to limit notifications of the user, newest first.
func (s *Store) RecentNotifications(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, errors.Wrap(err, "listing notifications")
}

// MarkAllRead flips every unread notification of the user to read.
func (s *Store) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, errors.Wrap(res.Error, "marking notifications read")
}
