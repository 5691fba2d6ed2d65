package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/in-nis/matura-back/internal/models"
)

var assignmentKey = []clause.Column{{Name: "user_id"}, {Name: "zadanie_id"}}

// GetAssignment returns the row for (user, task) or NotFound.
func (s *Store) GetAssignment(ctx context.Context, userID, taskID uint) (*models.TaskAssignment, error) {
	var a models.TaskAssignment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND zadanie_id = ?", userID, taskID).
		First(&a).Error
	if err != nil {
		return nil, notFound(err, "Zadanie nie zostało przypisane")
	}
	return &a, nil
}

// AssignmentState reports the state of (user, task); a missing row is the
// unassigned state, not an error.
func (s *Store) AssignmentState(ctx context.Context, userID, taskID uint) (models.AssignmentState, error) {
	a, err := s.GetAssignment(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StateOf(nil), nil
		}
		return models.AssignmentState{}, err
	}
	return models.StateOf(a), nil
}

// AssignmentStates returns the states of the given tasks for one user, keyed
// by task id. Tasks without a row map to the unassigned state.
func (s *Store) AssignmentStates(ctx context.Context, userID uint, taskIDs []uint) (map[uint]models.AssignmentState, error) {
	out := make(map[uint]models.AssignmentState, len(taskIDs))
	for _, id := range taskIDs {
		out[id] = models.StateOf(nil)
	}
	if len(taskIDs) == 0 {
		return out, nil
	}
	var rows []models.TaskAssignment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND zadanie_id IN ?", userID, taskIDs).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading assignment states")
	}
	for i := range rows {
		out[rows[i].TaskID] = models.StateOf(&rows[i])
	}
	return out, nil
}

// AssignMissing creates a "do zrobienia" row for every (user, task) pair that
// has none yet. Existing rows are left untouched. It returns how many rows were
// created per user.
func (s *Store) AssignMissing(ctx context.Context, userIDs, taskIDs []uint) (map[uint]int, error) {
	created := make(map[uint]int)
	if len(userIDs) == 0 || len(taskIDs) == 0 {
		return created, nil
	}
	var existing []models.TaskAssignment
	err := s.db.WithContext(ctx).
		Select("user_id", "zadanie_id").
		Where("user_id IN ? AND zadanie_id IN ?", userIDs, taskIDs).
		Find(&existing).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading assignments")
	}
	type pair struct{ user, task uint }
	have := make(map[pair]bool, len(existing))
	for _, a := range existing {
		have[pair{a.UserID, a.TaskID}] = true
	}

	var rows []models.TaskAssignment
	for _, u := range userIDs {
		for _, t := range taskIDs {
			if have[pair{u, t}] {
				continue
			}
			have[pair{u, t}] = true
			rows = append(rows, models.TaskAssignment{UserID: u, TaskID: t, Status: models.StatusTodo})
			created[u]++
		}
	}
	if len(rows) == 0 {
		return created, nil
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: assignmentKey, DoNothing: true}).
		CreateInBatches(rows, 200).Error
	if err != nil {
		return nil, errors.Wrap(err, "creating assignments")
	}
	return created, nil
}

// SaveOpenAnswer stores a free-text answer with status "oddane", creating the
// row when needed. The last write wins.
func (s *Store) SaveOpenAnswer(ctx context.Context, userID, taskID uint, answer *string) error {
	row := models.TaskAssignment{UserID: userID, TaskID: taskID, Status: models.StatusSubmitted, Answer: answer}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   assignmentKey,
			DoUpdates: clause.AssignmentColumns([]string{"status", "odpowiedz_usera"}),
		}).
		Create(&row).Error
	return errors.Wrap(err, "saving answer")
}

// UpdateAssignment overwrites status and answer of an existing row.
func (s *Store) UpdateAssignment(ctx context.Context, a *models.TaskAssignment) error {
	err := s.db.WithContext(ctx).Model(&models.TaskAssignment{}).
		Where("user_id = ? AND zadanie_id = ?", a.UserID, a.TaskID).
		Updates(map[string]interface{}{"status": a.Status, "odpowiedz_usera": a.Answer}).Error
	return errors.Wrap(err, "updating assignment")
}

// StudentAssignment is an assignment joined with its task.
type StudentAssignment struct {
	Task   models.Task
	Status models.AssignmentStatus
	Answer *string
}

// ListStudentAssignments returns the user's assignments with their tasks,
// ordered like ListTasks.
func (s *Store) ListStudentAssignments(ctx context.Context, userID uint) ([]StudentAssignment, error) {
	var rows []models.TaskAssignment
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "listing assignments")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	byTask := make(map[uint]models.TaskAssignment, len(rows))
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		byTask[r.TaskID] = r
		ids = append(ids, r.TaskID)
	}
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("przedmiot, dzial, numer_zadania, id").
		Find(&tasks).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading assigned tasks")
	}
	out := make([]StudentAssignment, 0, len(tasks))
	for _, t := range tasks {
		a := byTask[t.ID]
		out = append(out, StudentAssignment{Task: t, Status: a.Status, Answer: a.Answer})
	}
	return out, nil
}
