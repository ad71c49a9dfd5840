package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Hangeony/DOT-DAILY/internal/config"
	"github.com/Hangeony/DOT-DAILY/internal/database"
	"github.com/Hangeony/DOT-DAILY/internal/models"
	"gorm.io/gorm"
)

// TaskService owns the task status/date state machine. Every mutation is a
// single transactional update against the persisted row; the server, not the
// client, is the source of truth for the current status.
type TaskService struct {
	db  *database.DB
	cfg *config.Config
}

func NewTaskService(db *database.DB, cfg *config.Config) *TaskService {
	return &TaskService{db: db, cfg: cfg}
}

type CreateTaskRequest struct {
	Title    string              `json:"title"`
	Priority models.TaskPriority `json:"priority"`
	Date     string              `json:"date"`
}

type UpdateTaskRequest struct {
	Title    *string              `json:"title,omitempty"`
	Priority *models.TaskPriority `json:"priority,omitempty"`
	Date     *string              `json:"date,omitempty"`
	Status   *models.TaskStatus   `json:"status,omitempty"`
}

// List retrieves all non-archived tasks for a user.
func (s *TaskService) List(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Where("user_id = ? AND status <> ?", userID, models.TaskStatusArchive).
		Order("date ASC, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// ListByDate retrieves a single day's non-archived tasks. This is the
// default "today" view and rides the (user_id, date) index.
func (s *TaskService) ListByDate(userID uint, date string) ([]models.Task, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	var tasks []models.Task
	err := s.db.
		Where("user_id = ? AND date = ? AND status <> ?", userID, date, models.TaskStatusArchive).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// ListArchived retrieves the archive view, newest first.
func (s *TaskService) ListArchived(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Where("user_id = ? AND status = ?", userID, models.TaskStatusArchive).
		Order("updated_at DESC, created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// Create creates a task in the pending state.
func (s *TaskService) Create(userID uint, req *CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &models.ValidationError{Field: "title", Message: "제목을 입력해주세요."}
	}
	if !req.Priority.Valid() {
		return nil, &models.ValidationError{Field: "priority", Message: "우선순위는 must/should/remind 중 하나여야 합니다."}
	}
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}

	task := models.Task{
		UserID:   userID,
		Title:    title,
		Priority: req.Priority,
		Date:     req.Date,
		Status:   models.TaskStatusPending,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Update merges the provided fields into an owned task. Omitted fields are
// left unchanged. A task owned by someone else is indistinguishable from a
// missing one.
func (s *TaskService) Update(userID, taskID uint, req *UpdateTaskRequest) (*models.Task, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, &models.ValidationError{Field: "title", Message: "제목을 입력해주세요."}
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, &models.ValidationError{Field: "priority", Message: "우선순위는 must/should/remind 중 하나여야 합니다."}
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, &models.ValidationError{Field: "status", Message: "상태는 pending/success/retry/archive 중 하나여야 합니다."}
	}
	if req.Date != nil {
		if err := validateDate(*req.Date); err != nil {
			return nil, err
		}
	}

	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTaskNotFound
			}
			return err
		}

		if req.Title != nil {
			task.Title = strings.TrimSpace(*req.Title)
		}
		if req.Priority != nil {
			task.Priority = *req.Priority
		}
		if req.Date != nil {
			task.Date = *req.Date
		}
		if req.Status != nil {
			task.Status = *req.Status
		}

		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// ToggleCompletion flips completion based on the persisted status:
// success goes back to pending, every other status lands on success.
// The read and write share one transaction so a stale client view cannot
// toggle the wrong direction. 버전 컬럼이 없어 동시 토글은 last-write-wins.
func (s *TaskService) ToggleCompletion(userID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTaskNotFound
			}
			return err
		}

		if task.Status == models.TaskStatusSuccess {
			task.Status = models.TaskStatusPending
		} else {
			task.Status = models.TaskStatusSuccess
		}

		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// DeferToTomorrow moves a task to retry on tomorrow's date, regardless of
// its prior status. Tomorrow is one calendar day after today in the
// configured app timezone, not a UTC truncation.
func (s *TaskService) DeferToTomorrow(userID, taskID uint) (*models.Task, error) {
	tomorrow := s.today().AddDate(0, 0, 1).Format(models.DateLayout)

	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTaskNotFound
			}
			return err
		}

		task.Status = models.TaskStatusRetry
		task.Date = tomorrow
		task.RetryCount++

		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Archive sets status to archive. The date stays put so an archived task
// still remembers which day it was for.
func (s *TaskService) Archive(userID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTaskNotFound
			}
			return err
		}

		task.Status = models.TaskStatusArchive

		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// RestoreFromArchive moves a task back into the active pool: status pending,
// date normalized to today so it reappears in the current day's list.
func (s *TaskService) RestoreFromArchive(userID, taskID uint) (*models.Task, error) {
	today := s.today().Format(models.DateLayout)

	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTaskNotFound
			}
			return err
		}

		task.Status = models.TaskStatusPending
		task.Date = today

		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// Delete hard-deletes an owned task. A second delete of the same id reports
// ErrTaskNotFound rather than silently succeeding.
func (s *TaskService) Delete(userID, taskID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

// today is the current calendar date in the configured app timezone.
func (s *TaskService) today() time.Time {
	loc, err := time.LoadLocation(s.cfg.AppTimezone)
	if err != nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// validateDate rejects anything that is not a well-formed YYYY-MM-DD date.
func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return &models.ValidationError{Field: "date", Message: "날짜는 YYYY-MM-DD 형식이어야 합니다."}
	}
	return nil
}
