package tutoring

import (
	"context"

	"github.com/in-nis/matura-back/internal/models"
)

const (
	recentNotifications = 10
	notificationLayout  = "02.01.2006 15:04"
)

type NotificationView struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	IsRead    bool   `json:"is_read"`
}

// Notify appends one unread notification for userID.
func (s *Service) Notify(ctx context.Context, userID uint, content string) error {
	return s.notify(ctx, s.store, []uint{userID}, content)
}

// RecentNotifications returns the user's newest notifications.
func (s *Service) RecentNotifications(ctx context.Context, user *models.User) ([]NotificationView, error) {
	ns, err := s.store.RecentNotifications(ctx, user.ID, recentNotifications)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationView{
			ID:        n.ID,
			Content:   n.Content,
			CreatedAt: n.CreatedAt.Format(notificationLayout),
			IsRead:    n.IsRead,
		})
	}
	return out, nil
}

func (s *Service) MarkNotificationsRead(ctx context.Context, user *models.User) error {
	_, err := s.store.MarkAllRead(ctx, user.ID)
	return err
}
