package models

import "time"

// Task is a unit of work queued for one implant on behalf of one operator.
// OperatorID never changes after creation; it is the sole authorization key
// for reading or deleting the task.
type Task struct {
	TaskID     string    `json:"task_id" gorm:"primaryKey;size:255"`
	OperatorID string    `json:"operator_id" gorm:"size:255;not null;index"`
	ImplantID  string    `json:"implant_id" gorm:"size:255;not null"`
	Opcode     Opcode    `json:"opcode"`
	Args       JSONMap   `json:"args" gorm:"type:text"`
	Output     *string   `json:"output" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
