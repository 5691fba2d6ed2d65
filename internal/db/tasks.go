package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/in-nis/matura-back/internal/models"
)

// CreateTask inserts t. The closed-task check runs in the model's BeforeSave hook.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(t).Error, "creating task")
}

func (s *Store) SaveTask(ctx context.Context, t *models.Task) error {
	return errors.Wrap(s.db.WithContext(ctx).Save(t).Error, "saving task")
}

func (s *Store) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "Zadanie nie istnieje")
	}
	return &t, nil
}

// ListTasks returns every task ordered by subject, section and question number.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Order("przedmiot, dzial, numer_zadania, id").
		Find(&tasks).Error
	return tasks, errors.Wrap(err, "listing tasks")
}

// TaskIDs returns the ids of all tasks, or of the tasks in topic when it is
// not empty, in ascending order.
func (s *Store) TaskIDs(ctx context.Context, topic string) ([]uint, error) {
	var ids []uint
	q := s.db.WithContext(ctx).Model(&models.Task{})
	if topic != "" {
		q = q.Where("dzial = ?", topic)
	}
	err := q.Order("id").Pluck("id", &ids).Error
	return ids, errors.Wrap(err, "listing task ids")
}

// ExistingTaskIDs keeps only the ids that refer to stored tasks.
func (s *Store) ExistingTaskIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &out).Error
	return out, errors.Wrap(err, "resolving tasks")
}

// DistinctTopics returns each section that has at least one task, sorted.
func (s *Store) DistinctTopics(ctx context.Context) ([]string, error) {
	var topics []string
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Distinct("dzial").
		Order("dzial").
		Pluck("dzial", &topics).Error
	return topics, errors.Wrap(err, "listing topics")
}

func (s *Store) AddTaskAttachment(ctx context.Context, a *models.TaskAttachment) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(a).Error, "saving attachment")
}

func (s *Store) ListTaskAttachments(ctx context.Context, taskID uint) ([]models.TaskAttachment, error) {
	var out []models.TaskAttachment
	err := s.db.WithContext(ctx).Where("zadanie_id = ?", taskID).Order("id").Find(&out).Error
	return out, errors.Wrap(err, "listing attachments")
}
