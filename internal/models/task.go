package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/in-nis/matura-back/internal/apperr"
)

const (
	TaskTypeClosed = "zamkniete"
	TaskTypeOpen   = "otwarte"

	// ExamTypeOutside marks tasks that do not come from a dated exam sheet.
	ExamTypeOutside = "out"
)

// Task is an exam-style question ("zadanie").
type Task struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Subject       string    `gorm:"column:przedmiot;size:30;not null;index" json:"przedmiot"`
	Scope         string    `gorm:"column:zakres;size:20;not null" json:"zakres"`
	ExamYear      int       `gorm:"column:rok_arkusza;not null" json:"rok_arkusza"`
	ExamType      string    `gorm:"column:rodzaj_arkusza;size:50;not null" json:"rodzaj_arkusza"`
	Number        int       `gorm:"column:numer_zadania;not null" json:"numer_zadania"`
	Type          string    `gorm:"column:typ_zadania;size:20;not null" json:"typ_zadania"`
	Topic         string    `gorm:"column:dzial;size:100;not null" json:"dzial"`
	Body          string    `gorm:"column:tresc;type:text;not null" json:"tresc"`
	OptionA       *string   `gorm:"column:odp_a;type:text" json:"odp_a"`
	OptionB       *string   `gorm:"column:odp_b;type:text" json:"odp_b"`
	OptionC       *string   `gorm:"column:odp_c;type:text" json:"odp_c"`
	OptionD       *string   `gorm:"column:odp_d;type:text" json:"odp_d"`
	CorrectOption *string   `gorm:"column:poprawna_odp;size:1" json:"poprawna_odp"`
	CreatedBy     uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Task) TableName() string { return "zadania" }

func (t Task) IsClosed() bool { return t.Type == TaskTypeClosed }

// Title is the short label used in lesson task lists.
func (t Task) Title() string { return t.Subject + " – " + t.Topic }

// Validate enforces that a closed task carries all four options and the key.
func (t *Task) Validate() error {
	if !t.IsClosed() {
		return nil
	}
	var flds []apperr.FieldError
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"odp_a", t.OptionA},
		{"odp_b", t.OptionB},
		{"odp_c", t.OptionC},
		{"odp_d", t.OptionD},
		{"poprawna_odp", t.CorrectOption},
	} {
		if f.val == nil {
			flds = append(flds, apperr.FieldError{Field: f.name, Error: "pole wymagane dla zadania zamkniętego"})
		}
	}
	if len(flds) > 0 {
		return apperr.NewValidationError("Zadanie zamknięte musi mieć odpowiedzi A-D i poprawną odpowiedź", flds...)
	}
	return nil
}

// BeforeSave runs on every create and save so no write path can skip Validate.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	return t.Validate()
}

// TaskAttachment is a file stored for a task, referenced as "<task id>/<name>".
type TaskAttachment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TaskID   uint   `gorm:"column:zadanie_id;not null;index" json:"zadanie_id"`
	FileName string `gorm:"column:nazwa_pliku;size:255;uniqueIndex;not null" json:"nazwa_pliku"`
}

func (TaskAttachment) TableName() string { return "zadania_zalaczniki" }

// SubmissionAttachment is part of the schema, but no endpoint accepts student
// uploads yet.
type SubmissionAttachment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	TaskID   uint   `gorm:"column:zadanie_id;not null;index" json:"zadanie_id"`
	FileName string `gorm:"column:nazwa_pliku;size:255;not null" json:"nazwa_pliku"`
}

func (SubmissionAttachment) TableName() string { return "zadania_user_zalaczniki" }
