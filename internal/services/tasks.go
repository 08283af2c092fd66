package services

import (
	"errors"
	"fmt"
	"time"

	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskService owns every task mutation. All lookups are scoped to the
// owning user; a task belonging to someone else is indistinguishable from
// a missing one.
type TaskService interface {
	ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error)
	CreateTask(db *gorm.DB, userID uuid.UUID, title string, description *string) (models.Task, error)
	UpdateTask(db *gorm.DB, userID, id uuid.UUID, patch models.TaskPatch) (models.Task, error)
	DeleteTask(db *gorm.DB, userID, id uuid.UUID) error
	SetCompleted(db *gorm.DB, userID, id uuid.UUID, completed bool) (models.Task, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// ListTasks returns the user's collection newest-first. Clients rely on
// this ordering and do not re-sort.
func (s *TaskServiceImpl) ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	result := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tasks)
	return tasks, result.Error
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, userID uuid.UUID, title string, description *string) (models.Task, error) {
	normalized, err := models.NormalizeTitle(title)
	if err != nil {
		return models.Task{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to generate task id: %w", err)
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          id,
		UserID:      userID,
		Title:       normalized,
		Description: models.NormalizeDescription(description),
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) getOwned(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	return task, err
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID, id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	task, err := s.getOwned(db, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	if patch.Title != nil {
		normalized, err := models.NormalizeTitle(*patch.Title)
		if err != nil {
			return models.Task{}, err
		}
		task.Title = normalized
	}
	if patch.Description != nil {
		task.Description = models.NormalizeDescription(patch.Description)
	}
	if patch.IsCompleted != nil {
		task.IsCompleted = *patch.IsCompleted
	}
	task.UpdatedAt = time.Now().UTC()

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// SetCompleted is idempotent: setting an already-matching state succeeds
// and returns the task unchanged except for updated_at.
func (s *TaskServiceImpl) SetCompleted(db *gorm.DB, userID, id uuid.UUID, completed bool) (models.Task, error) {
	task, err := s.getOwned(db, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	task.IsCompleted = completed
	task.UpdatedAt = time.Now().UTC()

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
