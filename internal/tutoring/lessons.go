package tutoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/datatypes"

	"github.com/in-nis/matura-back/internal/access"
	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
)

const (
	msgLessonRequiredCreate = "Brak tematu lub daty lekcji"
	msgLessonRequiredUpdate = "Temat i data są wymagane"
	msgLessonBadFormat      = "Niepoprawny format daty lub godziny"
	msgNoteEmpty            = "Brak treści notatki"
	msgNoTasksSelected      = "Nie wybrano zadań"

	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// LessonInput is the editable part of a lesson as submitted by a teacher.
type LessonInput struct {
	Topic          string `form:"topic" json:"topic"`
	Date           string `form:"date" json:"date"`
	TimeFrom       string `form:"time_from" json:"time_from"`
	TimeTo         string `form:"time_to" json:"time_to"`
	TeacherComment string `form:"teacher_comment" json:"teacher_comment"`
	StudentIDs     []uint `form:"student_ids" json:"student_ids"`
}

// apply validates in and writes the parsed values onto l.
func (in LessonInput) apply(l *models.Lesson, missingMsg string) error {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" || strings.TrimSpace(in.Date) == "" {
		return apperr.BadRequest(missingMsg)
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return apperr.BadRequest(msgLessonBadFormat)
	}
	from, err := parseClock(in.TimeFrom)
	if err != nil {
		return apperr.BadRequest(msgLessonBadFormat)
	}
	to, err := parseClock(in.TimeTo)
	if err != nil {
		return apperr.BadRequest(msgLessonBadFormat)
	}

	l.Topic = topic
	l.Date = datatypes.Date(date)
	l.TimeFrom = from
	l.TimeTo = to
	l.TeacherComment = nil
	if c := strings.TrimSpace(in.TeacherComment); c != "" {
		l.TeacherComment = &c
	}
	return nil
}

// parseClock parses HH:MM; an empty value means no time.
func parseClock(v string) (*datatypes.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return nil, err
	}
	c := datatypes.NewTime(t.Hour(), t.Minute(), 0, 0)
	return &c, nil
}

// CreateLesson stores a lesson owned by teacher together with its roster.
// Ids that are not students are dropped.
func (s *Service) CreateLesson(ctx context.Context, teacher *models.User, in LessonInput) (*models.Lesson, error) {
	lesson := &models.Lesson{TeacherID: teacher.ID}
	if err := in.apply(lesson, msgLessonRequiredCreate); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if err := tx.CreateLesson(ctx, lesson); err != nil {
			return err
		}
		students, err := tx.StudentIDsAmong(ctx, in.StudentIDs)
		if err != nil {
			return err
		}
		if err := tx.AddStudents(ctx, lesson.ID, students); err != nil {
			return err
		}
		return s.notify(ctx, tx, students, fmt.Sprintf("Nowa lekcja: %s (%s)", lesson.Topic, lesson.DateString()))
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson overwrites topic, date, times and comment of a lesson the
// teacher owns.
func (s *Service) UpdateLesson(ctx context.Context, teacher *models.User, lessonID uint, in LessonInput) (*models.Lesson, error) {
	lesson, err := s.authorize(ctx, teacher, access.ManageLesson, lessonID, 0)
	if err != nil {
		return nil, err
	}
	if err := in.apply(lesson, msgLessonRequiredUpdate); err != nil {
		return nil, err
	}
	if err := s.store.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpsertNote writes the student's single note on the lesson.
func (s *Service) UpsertNote(ctx context.Context, student *models.User, lessonID uint, text string) (*models.LessonNote, error) {
	if _, err := s.authorize(ctx, student, access.WriteLessonNote, lessonID, 0); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.BadRequest(msgNoteEmpty)
	}
	note := &models.LessonNote{LessonID: lessonID, StudentID: student.ID, Note: text, UpdatedAt: s.now()}
	if err := s.store.UpsertNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// LinkTasks adds the given tasks to the lesson, skipping ones already linked
// and ids that match no task. It returns how many links were added.
func (s *Service) LinkTasks(ctx context.Context, teacher *models.User, lessonID uint, taskIDs []uint) (int, error) {
	if _, err := s.authorize(ctx, teacher, access.ManageLesson, lessonID, 0); err != nil {
		return 0, err
	}
	if len(taskIDs) == 0 {
		return 0, apperr.BadRequest(msgNoTasksSelected)
	}
	existing, err := s.store.ExistingTaskIDs(ctx, taskIDs)
	if err != nil {
		return 0, err
	}
	return s.store.LinkTasks(ctx, lessonID, existing)
}

// LessonItem is one row of the lessons list.
type LessonItem struct {
	Type           string  `json:"type"`
	LessonID       uint    `json:"lesson_id"`
	Date           string  `json:"date"`
	TimeFrom       string  `json:"time_from"`
	TimeTo         string  `json:"time_to"`
	Topic          string  `json:"topic"`
	TeacherComment *string `json:"teacher_comment"`
	StudentsCount  *int64  `json:"students_count,omitempty"`
	TasksCount     int64   `json:"tasks_count"`
	Note           *string `json:"note,omitempty"`
	CanAssignTasks bool    `json:"can_assign_tasks,omitempty"`
	CanComment     bool    `json:"can_comment,omitempty"`
	CanAddNotes    bool    `json:"can_add_notes,omitempty"`
}

// LessonsPage is everything the lessons screen shows.
type LessonsPage struct {
	Role     models.Role   `json:"role"`
	Lessons  []LessonItem  `json:"lessons"`
	Days     []string      `json:"days"`
	Students []models.User `json:"students"`
}

// ListLessons returns the teacher's own lessons, or for anyone else the
// lessons they are rostered on.
func (s *Service) ListLessons(ctx context.Context, actor *models.User) (*LessonsPage, error) {
	page := &LessonsPage{Role: actor.Role, Lessons: []LessonItem{}}

	if actor.IsTeacher() {
		rows, err := s.store.TeacherLessons(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			item := lessonItem(r.Lesson, "teacher")
			count := r.StudentsCount
			item.StudentsCount = &count
			item.TasksCount = r.TasksCount
			item.CanAssignTasks = true
			item.CanComment = true
			page.Lessons = append(page.Lessons, item)
		}
	} else {
		rows, err := s.store.StudentLessons(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			item := lessonItem(r.Lesson, "student")
			note := r.Note
			item.Note = &note
			item.TasksCount = r.TasksCount
			item.CanAddNotes = true
			page.Lessons = append(page.Lessons, item)
		}
	}

	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	page.Students = students

	start := now.With(s.now()).BeginningOfDay()
	for i := 0; i < 7; i++ {
		page.Days = append(page.Days, start.AddDate(0, 0, i).Format(dateLayout))
	}
	return page, nil
}

func lessonItem(l models.Lesson, kind string) LessonItem {
	return LessonItem{
		Type:           kind,
		LessonID:       l.ID,
		Date:           l.DateString(),
		TimeFrom:       models.ClockString(l.TimeFrom),
		TimeTo:         models.ClockString(l.TimeTo),
		Topic:          l.Topic,
		TeacherComment: l.TeacherComment,
	}
}

// LessonTaskItem is a task as listed on a lesson. Status is set for students only.
type LessonTaskItem struct {
	ID     uint                    `json:"id"`
	Title  string                  `json:"title"`
	Number int                     `json:"numer"`
	Status models.AssignmentStatus `json:"status,omitempty"`
}

// LessonDetail is the lesson page. Students see their own note; the owning
// teacher sees the roster and every student's note.
type LessonDetail struct {
	Lesson   LessonItem         `json:"lesson"`
	Tasks    []LessonTaskItem   `json:"tasks"`
	Note     *models.LessonNote `json:"note,omitempty"`
	Students []models.User      `json:"students,omitempty"`
	Notes    map[uint]string    `json:"notes,omitempty"`
}

func (s *Service) LessonDetail(ctx context.Context, actor *models.User, lessonID uint) (*LessonDetail, error) {
	lesson, err := s.authorize(ctx, actor, access.ViewLesson, lessonID, 0)
	if err != nil {
		return nil, err
	}
	kind := "teacher"
	if actor.IsStudent() {
		kind = "student"
	}
	detail := &LessonDetail{Lesson: lessonItem(*lesson, kind)}

	tasks, err := s.store.LessonTasks(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	var states map[uint]models.AssignmentState
	if actor.IsStudent() {
		if states, err = s.store.AssignmentStates(ctx, actor.ID, ids); err != nil {
			return nil, err
		}
		if detail.Note, err = s.store.GetNote(ctx, lessonID, actor.ID); err != nil {
			return nil, err
		}
	} else {
		if detail.Students, err = s.store.LessonStudents(ctx, lessonID); err != nil {
			return nil, err
		}
		notes, err := s.store.LessonNotes(ctx, lessonID)
		if err != nil {
			return nil, err
		}
		detail.Notes = make(map[uint]string, len(notes))
		for id, n := range notes {
			detail.Notes[id] = n.Note
		}
	}

	detail.Tasks = make([]LessonTaskItem, 0, len(tasks))
	for _, t := range tasks {
		item := LessonTaskItem{ID: t.ID, Title: t.Title(), Number: t.Number}
		if states != nil {
			item.Status = states[t.ID].Status
		}
		detail.Tasks = append(detail.Tasks, item)
	}
	return detail, nil
}

// LessonTaskPicker is what a teacher sees when linking tasks to a lesson.
type LessonTaskPicker struct {
	Lesson LessonItem    `json:"lesson"`
	Tasks  []models.Task `json:"zadania"`
	Linked []uint        `json:"linked"`
}

func (s *Service) LessonTaskPicker(ctx context.Context, teacher *models.User, lessonID uint) (*LessonTaskPicker, error) {
	lesson, err := s.authorize(ctx, teacher, access.ManageLesson, lessonID, 0)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	linked, err := s.store.LinkedTaskIDs(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return &LessonTaskPicker{Lesson: lessonItem(*lesson, "teacher"), Tasks: tasks, Linked: linked}, nil
}
