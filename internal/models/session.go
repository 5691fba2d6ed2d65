package models

import "time"

// Session is the server-side half of a login. The signed token handed to the
// client only carries the session id.
type Session struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Role        Role      `gorm:"size:20;not null" json:"role"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
