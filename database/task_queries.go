package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamserver/models"
)

// TasksByOperator returns all tasks created by the given operator, in
// insertion order.
func (s *Store) TasksByOperator(username string) ([]models.Task, error) {
	var tasks []models.Task
	result := s.db.Where("operator_id = ?", username).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, upstream(result.Error)
	}
	return tasks, nil
}

// CreateTask allocates a task id and stores the task with no output. The
// returned task is the persisted row.
func (s *Store) CreateTask(operatorID, implantID string, opcode models.Opcode, args models.JSONMap) (*models.Task, error) {
	task := models.Task{
		TaskID:     uuid.New().String(),
		OperatorID: operatorID,
		ImplantID:  implantID,
		Opcode:     opcode,
		Args:       args,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, upstream(err)
	}
	return &task, nil
}

// TaskByID returns the task with the given id, or nil if it does not exist.
func (s *Store) TaskByID(taskID string) (*models.Task, error) {
	var task models.Task
	result := s.db.Where("task_id = ?", taskID).First(&task)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, upstream(result.Error)
	}
	return &task, nil
}

// SetTaskOutput attaches a result to a task. Called from the implant-facing
// result path when an implant reports back.
func (s *Store) SetTaskOutput(taskID string, output string) error {
	return upstream(s.db.Model(&models.Task{}).Where("task_id = ?", taskID).
		Update("output", output).Error)
}

// DeleteTask removes a task permanently. No tombstone is kept.
func (s *Store) DeleteTask(taskID string) error {
	return upstream(s.db.Where("task_id = ?", taskID).Delete(&models.Task{}).Error)
}

// CountTasks returns the total number of stored tasks.
func (s *Store) CountTasks() (int64, error) {
	var n int64
	err := s.db.Model(&models.Task{}).Count(&n).Error
	return n, upstream(err)
}

// CountPendingTasks returns the number of tasks with no output yet.
func (s *Store) CountPendingTasks() (int64, error) {
	var n int64
	err := s.db.Model(&models.Task{}).Where("output IS NULL").Count(&n).Error
	return n, upstream(err)
}
