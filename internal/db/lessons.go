package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/in-nis/matura-back/internal/models"
)

// lessonOrder is shared by both listings: newest day first, then by start time.
const lessonOrder = "lessons.date DESC, lessons.time_from ASC, lessons.id ASC"

func (s *Store) CreateLesson(ctx context.Context, l *models.Lesson) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(l).Error, "creating lesson")
}

// UpdateLesson overwrites topic, date, times and comment.
func (s *Store) UpdateLesson(ctx context.Context, l *models.Lesson) error {
	err := s.db.WithContext(ctx).Model(&models.Lesson{}).
		Where("id = ?", l.ID).
		Select("date", "time_from", "time_to", "topic", "teacher_comment").
		Updates(l).Error
	return errors.Wrap(err, "updating lesson")
}

func (s *Store) GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	var l models.Lesson
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, notFound(err, "Lekcja nie istnieje")
	}
	return &l, nil
}

// AddStudents rosters the given students; already rostered ones are skipped.
func (s *Store) AddStudents(ctx context.Context, lessonID uint, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}
	rows := make([]models.LessonStudent, 0, len(studentIDs))
	for _, id := range studentIDs {
		rows = append(rows, models.LessonStudent{LessonID: lessonID, StudentID: id})
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	return errors.Wrap(err, "adding students")
}

func (s *Store) IsEnrolled(ctx context.Context, lessonID, studentID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.LessonStudent{}).
		Where("lesson_id = ? AND student_id = ?", lessonID, studentID).
		Count(&n).Error
	return n > 0, errors.Wrap(err, "checking roster")
}

// LessonStudents returns the roster ordered by last and first name.
func (s *Store) LessonStudents(ctx context.Context, lessonID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN lesson_students ON lesson_students.student_id = users.id").
		Where("lesson_students.lesson_id = ?", lessonID).
		Order("users.nazwisko, users.imie, users.id").
		Find(&users).Error
	return users, errors.Wrap(err, "listing roster")
}

func (s *Store) IsTaskLinked(ctx context.Context, lessonID, taskID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.LessonTask{}).
		Where("lesson_id = ? AND zadanie_id = ?", lessonID, taskID).
		Count(&n).Error
	return n > 0, errors.Wrap(err, "checking task link")
}

// LinkedTaskIDs returns the ids of the lesson's tasks in ascending order.
func (s *Store) LinkedTaskIDs(ctx context.Context, lessonID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.LessonTask{}).
		Where("lesson_id = ?", lessonID).
		Order("zadanie_id").
		Pluck("zadanie_id", &ids).Error
	return ids, errors.Wrap(err, "listing linked tasks")
}

// LessonTasks returns the lesson's tasks ordered like ListTasks.
func (s *Store) LessonTasks(ctx context.Context, lessonID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Joins("JOIN lesson_tasks ON lesson_tasks.zadanie_id = zadania.id").
		Where("lesson_tasks.lesson_id = ?", lessonID).
		Order("zadania.przedmiot, zadania.dzial, zadania.numer_zadania, zadania.id").
		Find(&tasks).Error
	return tasks, errors.Wrap(err, "listing lesson tasks")
}

// LinkTasks links the tasks not yet on the lesson and returns how many were added.
func (s *Store) LinkTasks(ctx context.Context, lessonID uint, taskIDs []uint) (int, error) {
	linked, err := s.LinkedTaskIDs(ctx, lessonID)
	if err != nil {
		return 0, err
	}
	have := make(map[uint]bool, len(linked))
	for _, id := range linked {
		have[id] = true
	}
	var rows []models.LessonTask
	for _, id := range taskIDs {
		if have[id] {
			continue
		}
		have[id] = true
		rows = append(rows, models.LessonTask{LessonID: lessonID, TaskID: id})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	return len(rows), errors.Wrap(err, "linking tasks")
}

// UpsertNote writes the single note for (lesson, student). A concurrent
// writer may overwrite it; the last write wins.
func (s *Store) UpsertNote(ctx context.Context, n *models.LessonNote) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"note", "updated_at"}),
		}).
		Create(n).Error
	return errors.Wrap(err, "saving note")
}

// GetNote returns the student's note on the lesson, or nil when there is none.
func (s *Store) GetNote(ctx context.Context, lessonID, studentID uint) (*models.LessonNote, error) {
	var notes []models.LessonNote
	err := s.db.WithContext(ctx).
		Where("lesson_id = ? AND student_id = ?", lessonID, studentID).
		Limit(1).
		Find(&notes).Error
	if err != nil || len(notes) == 0 {
		return nil, errors.Wrap(err, "loading note")
	}
	return &notes[0], nil
}

// LessonNotes returns every note on the lesson keyed by student id.
func (s *Store) LessonNotes(ctx context.Context, lessonID uint) (map[uint]models.LessonNote, error) {
	var notes []models.LessonNote
	if err := s.db.WithContext(ctx).Where("lesson_id = ?", lessonID).Find(&notes).Error; err != nil {
		return nil, errors.Wrap(err, "loading notes")
	}
	out := make(map[uint]models.LessonNote, len(notes))
	for _, n := range notes {
		out[n.StudentID] = n
	}
	return out, nil
}

// LessonSummary is a lesson with the counters shown in listings.
type LessonSummary struct {
	models.Lesson
	StudentsCount int64
	TasksCount    int64
	Note          string
}

// TeacherLessons returns the lessons created by teacherID, with roster and
// task counts, ordered by date descending then start time.
func (s *Store) TeacherLessons(ctx context.Context, teacherID uint) ([]LessonSummary, error) {
	var out []LessonSummary
	err := s.db.WithContext(ctx).Model(&models.Lesson{}).
		Select("lessons.*, "+
			"(SELECT COUNT(*) FROM lesson_students WHERE lesson_students.lesson_id = lessons.id) AS students_count, "+
			"(SELECT COUNT(*) FROM lesson_tasks WHERE lesson_tasks.lesson_id = lessons.id) AS tasks_count").
		Where("lessons.teacher_id = ?", teacherID).
		Order(lessonOrder).
		Scan(&out).Error
	return out, errors.Wrap(err, "listing teacher lessons")
}

// StudentLessons returns the lessons studentID is rostered on, with task
// count and the student's own note ("" when none), in the same order.
func (s *Store) StudentLessons(ctx context.Context, studentID uint) ([]LessonSummary, error) {
	var out []LessonSummary
	err := s.db.WithContext(ctx).Model(&models.Lesson{}).
		Select("lessons.*, "+
			"(SELECT COUNT(*) FROM lesson_tasks WHERE lesson_tasks.lesson_id = lessons.id) AS tasks_count, "+
			"COALESCE(lesson_notes.note, '') AS note").
		Joins("JOIN lesson_students ON lesson_students.lesson_id = lessons.id AND lesson_students.student_id = ?", studentID).
		Joins("LEFT JOIN lesson_notes ON lesson_notes.lesson_id = lessons.id AND lesson_notes.student_id = ?", studentID).
		Order(lessonOrder).
		Scan(&out).Error
	return out, errors.Wrap(err, "listing student lessons")
}
