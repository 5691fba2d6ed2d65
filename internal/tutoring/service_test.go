package tutoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/db/dbtest"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/storage"
	"github.com/in-nis/matura-back/internal/tutoring"
)

var fixedNow = time.Date(2025, 9, 3, 15, 30, 0, 0, time.UTC)

type fixture struct {
	ctx     context.Context
	store   *db.Store
	files   *storage.Local
	svc     *tutoring.Service
	teacher *models.User
	student *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := dbtest.NewStore(t)
	dir := t.TempDir()
	files := storage.NewLocal(dir+"/avatars", dir+"/zadania")
	return &fixture{
		ctx:     context.Background(),
		store:   store,
		files:   files,
		svc:     tutoring.NewService(store, files).WithClock(func() time.Time { return fixedNow }),
		teacher: dbtest.CreateUser(t, store, "nauczyciel", models.RoleTeacher),
		student: dbtest.CreateUser(t, store, "uczen", models.RoleStudent),
	}
}

// lesson creates a lesson owned by f.teacher with the given roster.
func (f *fixture) lesson(t *testing.T, students ...uint) *models.Lesson {
	t.Helper()
	l, err := f.svc.CreateLesson(f.ctx, f.teacher, tutoring.LessonInput{
		Topic:      "Funkcje",
		Date:       "2025-09-04",
		TimeFrom:   "08:00",
		TimeTo:     "08:45",
		StudentIDs: students,
	})
	require.NoError(t, err)
	return l
}

func assertKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), "unexpected error kind: %v", err)
	if msg != "" {
		assert.Equal(t, msg, err.Error())
	}
}

func notifications(t *testing.T, f *fixture, user *models.User) []tutoring.NotificationView {
	t.Helper()
	ns, err := f.svc.RecentNotifications(f.ctx, user)
	require.NoError(t, err)
	return ns
}
