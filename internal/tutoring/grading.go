package tutoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/in-nis/matura-back/internal/access"
	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
)

const (
	AssignSingle  = "single"
	AssignSection = "section"
	AssignAll     = "all"

	msgNoStudents    = "Nie wybrano uczniów"
	msgUnknownMode   = "Nieznany tryb przypisania"
	msgNoAnswer      = "Brak odpowiedzi"
	msgSectionNeeded = "Nie wybrano działu"
)

// AssignRequest selects students and tasks for bulk assignment.
type AssignRequest struct {
	UserIDs []uint `form:"user_ids" json:"user_ids"`
	Mode    string `form:"mode" json:"mode"`
	TaskID  uint   `form:"zadanie_id" json:"zadanie_id"`
	Topic   string `form:"dzial" json:"dzial"`
}

// AssignResult reports how many new rows each student received.
type AssignResult struct {
	Created map[uint]int `json:"created"`
	Total   int          `json:"total"`
}

// AssignTasks gives every selected student a "do zrobienia" row for each
// selected task they do not have yet. Existing rows keep their state.
func (s *Service) AssignTasks(ctx context.Context, teacher *models.User, req AssignRequest) (*AssignResult, error) {
	if len(req.UserIDs) == 0 {
		return nil, apperr.BadRequest(msgNoStudents)
	}

	var result *AssignResult
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		taskIDs, err := s.selectTasks(ctx, tx, req)
		if err != nil {
			return err
		}
		students, err := tx.StudentIDsAmong(ctx, req.UserIDs)
		if err != nil {
			return err
		}
		created, err := tx.AssignMissing(ctx, students, taskIDs)
		if err != nil {
			return err
		}

		result = &AssignResult{Created: created}
		var ns []models.Notification
		for _, id := range students {
			n := created[id]
			if n == 0 {
				continue
			}
			result.Total += n
			ns = append(ns, models.Notification{
				UserID:    id,
				Content:   fmt.Sprintf("Nowe zadania do zrobienia: %d (przypisał(a) %s)", n, teacher.DisplayName()),
				CreatedAt: s.now(),
			})
		}
		if len(ns) == 0 {
			return nil
		}
		return tx.AddNotifications(ctx, ns)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) selectTasks(ctx context.Context, store *db.Store, req AssignRequest) ([]uint, error) {
	switch req.Mode {
	case AssignSingle:
		t, err := store.GetTask(ctx, req.TaskID)
		if err != nil {
			return nil, err
		}
		return []uint{t.ID}, nil
	case AssignSection:
		topic := strings.TrimSpace(req.Topic)
		if topic == "" {
			return nil, apperr.BadRequest(msgSectionNeeded)
		}
		return store.TaskIDs(ctx, topic)
	case AssignAll:
		return store.TaskIDs(ctx, "")
	default:
		return nil, apperr.BadRequest(msgUnknownMode)
	}
}

// StudentTaskView is a lesson task as seen by a rostered student.
type StudentTaskView struct {
	LessonID    uint                    `json:"lesson_id"`
	Task        models.Task             `json:"zadanie"`
	Attachments []models.TaskAttachment `json:"zalaczniki"`
	State       models.AssignmentState  `json:"assignment"`
}

func (s *Service) StudentTaskView(ctx context.Context, student *models.User, lessonID, taskID uint) (*StudentTaskView, error) {
	if _, err := s.authorize(ctx, student, access.ViewLessonTask, lessonID, taskID); err != nil {
		return nil, err
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	atts, err := s.store.ListTaskAttachments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	state, err := s.store.AssignmentState(ctx, student.ID, taskID)
	if err != nil {
		return nil, err
	}
	return &StudentTaskView{LessonID: lessonID, Task: *task, Attachments: atts, State: state}, nil
}

// SubmitOpenAnswer records a free-text answer as "oddane", creating the
// assignment row if the student had none.
func (s *Service) SubmitOpenAnswer(ctx context.Context, student *models.User, lessonID, taskID uint, answer string) (models.AssignmentState, error) {
	if _, err := s.authorize(ctx, student, access.SubmitLessonTask, lessonID, taskID); err != nil {
		return models.AssignmentState{}, err
	}
	var stored *string
	if answer != "" {
		stored = &answer
	}
	if err := s.store.SaveOpenAnswer(ctx, student.ID, taskID, stored); err != nil {
		return models.AssignmentState{}, err
	}
	return models.AssignmentState{Assigned: true, Status: models.StatusSubmitted, Answer: stored}, nil
}

// ClosedResult is returned after grading a closed answer.
type ClosedResult struct {
	Correct       bool    `json:"correct"`
	CorrectAnswer *string `json:"correct_answer"`
}

// SubmitClosedAnswer grades answer against the task key. The comparison is
// exact; a task without a key grades every answer as wrong.
func (s *Service) SubmitClosedAnswer(ctx context.Context, student *models.User, taskID uint, answer string) (*ClosedResult, error) {
	if answer == "" {
		return nil, apperr.BadRequest(msgNoAnswer)
	}
	a, err := s.store.GetAssignment(ctx, student.ID, taskID)
	if err != nil {
		return nil, err
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	correct := task.CorrectOption != nil && answer == *task.CorrectOption
	a.Answer = &answer
	a.Status = models.StatusIncorrect
	if correct {
		a.Status = models.StatusCorrect
	}
	if err := s.store.UpdateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return &ClosedResult{Correct: correct, CorrectAnswer: task.CorrectOption}, nil
}

// ResolvePage is the answer screen for an assigned task.
type ResolvePage struct {
	Task         models.Task            `json:"zadanie"`
	Assignment   models.TaskAssignment  `json:"assignment"`
	Attachment   *models.TaskAttachment `json:"zalacznik"`
	IsClosed     bool                   `json:"is_closed"`
	AuthorAvatar string                 `json:"autor_avatar"`
}

func (s *Service) ResolveTask(ctx context.Context, student *models.User, taskID uint) (*ResolvePage, error) {
	a, err := s.store.GetAssignment(ctx, student.ID, taskID)
	if err != nil {
		return nil, err
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	atts, err := s.store.ListTaskAttachments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	page := &ResolvePage{
		Task:         *task,
		Assignment:   *a,
		IsClosed:     a.Status.Graded(),
		AuthorAvatar: s.files.AvatarPath(task.CreatedBy),
	}
	if len(atts) > 0 {
		page.Attachment = &atts[0]
	}
	return page, nil
}

// AssignedTask is one entry of the student's panel.
type AssignedTask struct {
	Task   models.Task             `json:"zadanie"`
	Status models.AssignmentStatus `json:"status"`
	Answer *string                 `json:"odpowiedz_usera"`
}

func (s *Service) StudentPanel(ctx context.Context, student *models.User) ([]AssignedTask, error) {
	rows, err := s.store.ListStudentAssignments(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	out := make([]AssignedTask, 0, len(rows))
	for _, r := range rows {
		out = append(out, AssignedTask{Task: r.Task, Status: r.Status, Answer: r.Answer})
	}
	return out, nil
}

// TaskTree groups a student's tasks by subject, scope and section.
type TaskTree map[string]map[string]map[string][]AssignedTask

func (s *Service) StudentTaskTree(ctx context.Context, student *models.User) (TaskTree, error) {
	tasks, err := s.StudentPanel(ctx, student)
	if err != nil {
		return nil, err
	}
	tree := TaskTree{}
	for _, t := range tasks {
		scopes, ok := tree[t.Task.Subject]
		if !ok {
			scopes = map[string]map[string][]AssignedTask{}
			tree[t.Task.Subject] = scopes
		}
		sections, ok := scopes[t.Task.Scope]
		if !ok {
			sections = map[string][]AssignedTask{}
			scopes[t.Task.Scope] = sections
		}
		sections[t.Task.Topic] = append(sections[t.Task.Topic], t)
	}
	return tree, nil
}

// AssignPage lists what a teacher can pick from when assigning tasks.
type AssignPage struct {
	Students []models.User `json:"students"`
	Tasks    []models.Task `json:"zadania"`
	Topics   []string      `json:"dzialy"`
}

func (s *Service) AssignPage(ctx context.Context) (*AssignPage, error) {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.store.DistinctTopics(ctx)
	if err != nil {
		return nil, err
	}
	return &AssignPage{Students: students, Tasks: tasks, Topics: topics}, nil
}
