package tutoring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/excel"
	"github.com/in-nis/matura-back/internal/models"
)

// TaskInput is a task as submitted by the add and edit forms. Year and number
// stay strings until the exam type is known.
type TaskInput struct {
	Subject       string `form:"przedmiot" json:"przedmiot"`
	Scope         string `form:"zakres" json:"zakres"`
	Topic         string `form:"dzial" json:"dzial"`
	ExamType      string `form:"rodzaj_arkusza" json:"rodzaj_arkusza"`
	ExamYear      string `form:"rok_arkusza" json:"rok_arkusza"`
	Number        string `form:"numer_zadania" json:"numer_zadania"`
	Type          string `form:"typ_zadania" json:"typ_zadania"`
	Body          string `form:"tresc" json:"tresc"`
	OptionA       string `form:"odp_a" json:"odp_a"`
	OptionB       string `form:"odp_b" json:"odp_b"`
	OptionC       string `form:"odp_c" json:"odp_c"`
	OptionD       string `form:"odp_d" json:"odp_d"`
	CorrectOption string `form:"poprawna_odp" json:"poprawna_odp"`
}

// Upload is an optional file sent with a form.
type Upload struct {
	Name string
	Body io.Reader
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// apply checks in against the catalog and writes it onto t. The closed-task
// rule is left to the model hook.
func (in TaskInput) apply(t *models.Task) error {
	subject := strings.TrimSpace(in.Subject)
	if !models.ValidSubject(subject) {
		return apperr.NewValidationError("Niepoprawny przedmiot", apperr.FieldError{Field: "przedmiot", Error: "spoza katalogu"})
	}
	scope := strings.TrimSpace(in.Scope)
	if !models.ValidScope(scope) {
		return apperr.NewValidationError("Niepoprawny zakres", apperr.FieldError{Field: "zakres", Error: "spoza katalogu"})
	}
	topic := strings.TrimSpace(in.Topic)
	if !models.ValidSection(subject, topic) {
		return apperr.NewValidationError("Niepoprawny dział", apperr.FieldError{Field: "dzial", Error: "spoza katalogu"})
	}
	examType := strings.TrimSpace(in.ExamType)
	if examType == "" {
		return apperr.NewValidationError("Rodzaj arkusza jest wymagany", apperr.FieldError{Field: "rodzaj_arkusza", Error: "pole wymagane"})
	}
	taskType := strings.TrimSpace(in.Type)
	if taskType != models.TaskTypeClosed && taskType != models.TaskTypeOpen {
		return apperr.NewValidationError("Niepoprawny typ zadania", apperr.FieldError{Field: "typ_zadania", Error: "zamkniete lub otwarte"})
	}
	if strings.TrimSpace(in.Body) == "" {
		return apperr.NewValidationError("Treść zadania jest wymagana", apperr.FieldError{Field: "tresc", Error: "pole wymagane"})
	}

	year, number := 0, 0
	if examType != models.ExamTypeOutside {
		y, n := strings.TrimSpace(in.ExamYear), strings.TrimSpace(in.Number)
		if y == "" || n == "" {
			return apperr.BadRequest("Rok i numer zadania są wymagane dla arkuszy maturalnych")
		}
		var err error
		if year, err = strconv.Atoi(y); err != nil {
			return apperr.NewValidationError("Rok arkusza musi być liczbą", apperr.FieldError{Field: "rok_arkusza", Error: "nie jest liczbą"})
		}
		if number, err = strconv.Atoi(n); err != nil {
			return apperr.NewValidationError("Numer zadania musi być liczbą", apperr.FieldError{Field: "numer_zadania", Error: "nie jest liczbą"})
		}
	}

	t.Subject = subject
	t.Scope = scope
	t.Topic = topic
	t.ExamType = examType
	t.ExamYear = year
	t.Number = number
	t.Type = taskType
	t.Body = in.Body
	t.OptionA = optional(in.OptionA)
	t.OptionB = optional(in.OptionB)
	t.OptionC = optional(in.OptionC)
	t.OptionD = optional(in.OptionD)
	t.CorrectOption = optional(in.CorrectOption)
	return nil
}

// CreateTask validates and stores a task, then the optional attachment. A
// failed attachment write removes the task again.
func (s *Service) CreateTask(ctx context.Context, author *models.User, in TaskInput, file *Upload) (*models.Task, error) {
	task := &models.Task{CreatedBy: author.ID}
	if err := in.apply(task); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if err := tx.CreateTask(ctx, task); err != nil {
			return err
		}
		if file == nil || file.Name == "" {
			return nil
		}
		name, err := s.files.SaveTaskFile(task.ID, file.Name, file.Body)
		if err != nil {
			return apperr.BadRequest("Nie udało się zapisać załącznika")
		}
		return tx.AddTaskAttachment(ctx, &models.TaskAttachment{TaskID: task.ID, FileName: name})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// EditTask overwrites an existing task with the same checks as CreateTask.
func (s *Service) EditTask(ctx context.Context, taskID uint, in TaskInput) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := in.apply(task); err != nil {
		return nil, err
	}
	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// TaskPreview is a task with its attachments.
type TaskPreview struct {
	Task        models.Task             `json:"zadanie"`
	Attachments []models.TaskAttachment `json:"zalaczniki"`
}

func (s *Service) TaskPreview(ctx context.Context, taskID uint) (*TaskPreview, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	atts, err := s.store.ListTaskAttachments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &TaskPreview{Task: *task, Attachments: atts}, nil
}

func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasks(ctx)
}

// ImportTasks stores every row of a parsed sheet or none of them. Errors name
// the sheet row that failed.
func (s *Service) ImportTasks(ctx context.Context, author *models.User, rows []excel.Row) (int, error) {
	if len(rows) == 0 {
		return 0, apperr.BadRequest("Arkusz nie zawiera zadań")
	}
	tasks := make([]*models.Task, 0, len(rows))
	for _, r := range rows {
		t := &models.Task{CreatedBy: author.ID}
		if err := rowInput(r).apply(t); err != nil {
			return 0, rowError(r, err)
		}
		if err := t.Validate(); err != nil {
			return 0, rowError(r, err)
		}
		tasks = append(tasks, t)
	}

	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		for i, t := range tasks {
			if err := tx.CreateTask(ctx, t); err != nil {
				return rowError(rows[i], err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("📥 Imported %d tasks for user %d\n", len(tasks), author.ID)
	return len(tasks), nil
}

func rowInput(r excel.Row) TaskInput {
	return TaskInput{
		Subject:       r.Get("przedmiot"),
		Scope:         r.Get("zakres"),
		Topic:         r.Get("dzial"),
		ExamType:      r.Get("rodzaj_arkusza"),
		ExamYear:      r.Get("rok_arkusza"),
		Number:        r.Get("numer_zadania"),
		Type:          r.Get("typ_zadania"),
		Body:          r.Get("tresc"),
		OptionA:       r.Get("odp_a"),
		OptionB:       r.Get("odp_b"),
		OptionC:       r.Get("odp_c"),
		OptionD:       r.Get("odp_d"),
		CorrectOption: r.Get("poprawna_odp"),
	}
}

func rowError(r excel.Row, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindBadRequest {
		return err
	}
	return &apperr.Error{
		Kind:    apperr.KindBadRequest,
		Message: fmt.Sprintf("Wiersz %d: %s", r.Line, ae.Message),
		Fields:  ae.Fields,
		Err:     err,
	}
}
