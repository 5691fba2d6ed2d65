// Package dbtest opens throwaway sqlite stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
)

// NewStore returns a migrated in-memory database private to t.
func NewStore(t testing.TB) *db.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	gdb, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	gdb.Logger = logger.Default.LogMode(logger.Silent)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return db.New(gdb)
}

// CreateUser stores a user whose password equals its login.
func CreateUser(t testing.TB, store *db.Store, login string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Imię " + login, LastName: "Nazwisko " + login, Login: login, Role: role}
	require.NoError(t, u.SetPassword(login))
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }

// CreateTask stores a task; closed tasks get options A-D with "B" correct.
func CreateTask(t testing.TB, store *db.Store, author uint, taskType, topic string, number int) *models.Task {
	t.Helper()
	task := &models.Task{
		Subject:   "matematyka",
		Scope:     "podstawa",
		ExamYear:  2024,
		ExamType:  "maj",
		Number:    number,
		Type:      taskType,
		Topic:     topic,
		Body:      fmt.Sprintf("Treść zadania %d", number),
		CreatedBy: author,
	}
	if taskType == models.TaskTypeClosed {
		task.OptionA, task.OptionB, task.OptionC, task.OptionD = strPtr("1"), strPtr("2"), strPtr("3"), strPtr("4")
		task.CorrectOption = strPtr("B")
	}
	require.NoError(t, store.CreateTask(context.Background(), task))
	return task
}
