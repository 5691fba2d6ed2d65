package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Lesson struct {
	ID             uint            `gorm:"primaryKey"`
	Date           datatypes.Date  `gorm:"not null;index"`
	TimeFrom       *datatypes.Time
	TimeTo         *datatypes.Time
	Topic          string          `gorm:"size:255;not null"`
	TeacherComment *string         `gorm:"type:text"`
	TeacherID      uint            `gorm:"not null;index"`
	CreatedAt      time.Time
}

// LessonStudent is a roster row.
type LessonStudent struct {
	LessonID  uint `gorm:"primaryKey;autoIncrement:false"`
	StudentID uint `gorm:"primaryKey;autoIncrement:false"`
}

type LessonTask struct {
	LessonID uint `gorm:"primaryKey;autoIncrement:false"`
	TaskID   uint `gorm:"column:zadanie_id;primaryKey;autoIncrement:false"`
}

// LessonNote is a student's private note on a lesson, one per (lesson, student).
type LessonNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LessonID  uint      `gorm:"not null;uniqueIndex:uq_lesson_student_note" json:"lesson_id"`
	StudentID uint      `gorm:"not null;uniqueIndex:uq_lesson_student_note" json:"student_id"`
	Note      string    `gorm:"type:text;not null" json:"note"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// DateString formats the lesson date as YYYY-MM-DD.
func (l Lesson) DateString() string {
	return time.Time(l.Date).Format("2006-01-02")
}

// ClockString formats an optional time of day as HH:MM, "" when unset.
func ClockString(t *datatypes.Time) string {
	if t == nil {
		return ""
	}
	d := time.Duration(*t)
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
