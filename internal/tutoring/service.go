// Package tutoring implements lessons, tasks, grading, materials and
// notifications on top of the store. Every lesson-scoped operation asks
// access.Decide before touching data.
package tutoring

import (
	"context"
	"time"

	"github.com/in-nis/matura-back/internal/access"
	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/storage"
)

type Service struct {
	store *db.Store
	files *storage.Local
	now   func() time.Time
}

func NewService(store *db.Store, files *storage.Local) *Service {
	return &Service{store: store, files: files, now: time.Now}
}

// WithClock replaces the service clock; tests use it to control timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// lessonFacts loads what access.Decide needs about a lesson for actor. A
// missing lesson is reported through the facts, not as an error.
func (s *Service) lessonFacts(ctx context.Context, actor *models.User, lessonID, taskID uint) (*models.Lesson, access.Facts, error) {
	var f access.Facts
	lesson, err := s.store.GetLesson(ctx, lessonID)
	switch {
	case err == nil:
		f.LessonExists = true
		f.LessonTeacherID = lesson.TeacherID
	case apperr.Is(err, apperr.KindNotFound):
		lesson = nil
	default:
		return nil, f, err
	}
	if actor.IsStudent() {
		if f.Enrolled, err = s.store.IsEnrolled(ctx, lessonID, actor.ID); err != nil {
			return nil, f, err
		}
	}
	if taskID != 0 {
		if f.TaskLinked, err = s.store.IsTaskLinked(ctx, lessonID, taskID); err != nil {
			return nil, f, err
		}
	}
	return lesson, f, nil
}

// authorize loads the facts and returns the lesson when actor may use c on it.
func (s *Service) authorize(ctx context.Context, actor *models.User, c access.Capability, lessonID, taskID uint) (*models.Lesson, error) {
	lesson, facts, err := s.lessonFacts(ctx, actor, lessonID, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.Decide(actor, facts, c).Err(); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *Service) notify(ctx context.Context, store *db.Store, userIDs []uint, content string) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := s.now()
	ns := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		ns = append(ns, models.Notification{UserID: id, Content: content, CreatedAt: now})
	}
	return store.AddNotifications(ctx, ns)
}
