package db

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/in-nis/matura-back/internal/models"
)

// Store holds every query the application runs. Nothing outside this package
// builds SQL except the admin console.
type Store struct {
	db *gorm.DB
}

func New(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Open connects to postgres or sqlite depending on driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{})
}

// Migrate creates or updates all tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Task{},
		&models.TaskAttachment{},
		&models.TaskAssignment{},
		&models.SubmissionAttachment{},
		&models.Lesson{},
		&models.LessonStudent{},
		&models.LessonTask{},
		&models.LessonNote{},
		&models.Notification{},
		&models.Material{},
		&models.MaterialText{},
		&models.VocabularyItem{},
	)
}

func InitDB(driver, dsn string) *Store {
	gdb, err := Open(driver, dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(gdb); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Println("✅ Database connected and migrated")
	return New(gdb)
}

// DB exposes the underlying handle for the admin console.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Transaction runs fn against a Store bound to a single transaction. Any
// error returned by fn rolls the whole unit back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
