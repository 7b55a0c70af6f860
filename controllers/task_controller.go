package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamserver/broker"
	"teamserver/database"
	"teamserver/errs"
	"teamserver/middleware"
	"teamserver/models"
)

// TaskController serves the task orchestration endpoints. Every operation
// runs behind the auth middleware and is scoped to the calling operator.
type TaskController struct {
	Store   *database.Store
	Gateway *broker.Gateway
	Log     *slog.Logger
}

// ListTasks returns the tasks the calling operator created. The read path
// fails soft: a store error yields an empty list, not a failure.
func (tc *TaskController) ListTasks(c *gin.Context) {
	operator := middleware.CurrentOperator(c)

	tasks, err := tc.Store.TasksByOperator(operator.Username)
	if err != nil {
		tc.Log.Warn("task listing failed", "operator", operator.Username, "error", err)
		tasks = nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "tasks": tasks})
}

// AddTask validates and stores a new task for an implant, then hands it to
// the dispatch gateway. Dispatch failure never rolls back creation.
func (tc *TaskController) AddTask(c *gin.Context) {
	operator := middleware.CurrentOperator(c)

	var req struct {
		ImplantID string         `json:"implant_id"`
		Opcode    any            `json:"opcode"`
		Args      models.JSONMap `json:"args"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request, no JSON body")
		return
	}

	var missing []string
	if req.ImplantID == "" {
		missing = append(missing, "implant_id")
	}
	if req.Opcode == nil {
		missing = append(missing, "opcode")
	}
	if req.Args == nil {
		missing = append(missing, "args")
	}
	if len(missing) > 0 {
		failWith(c, tc.Log, errs.Validation(missing...), "")
		return
	}

	opcode, ok := resolveOpcode(req.Opcode)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid task, unknown opcode")
		return
	}

	task, err := tc.Store.CreateTask(operator.Username, req.ImplantID, opcode, req.Args)
	if err != nil {
		failWith(c, tc.Log, err, "")
		return
	}

	tc.Gateway.TaskCreated(task)

	c.JSON(http.StatusOK, gin.H{"status": true, "task": task})
}

// GetTaskResult returns the stored output of a task. Existence is checked
// before ownership: another operator's task id yields Unauthorized, not
// Unknown.
func (tc *TaskController) GetTaskResult(c *gin.Context) {
	operator := middleware.CurrentOperator(c)

	task, err := tc.ownedTask(operator.Username, c.Param("task_id"))
	if err != nil {
		failWith(c, tc.Log, err, "Unknown task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "result": task.Output})
}

// DeleteTask removes a task the calling operator owns. Same existence and
// ownership checks as GetTaskResult; deletion is permanent.
func (tc *TaskController) DeleteTask(c *gin.Context) {
	operator := middleware.CurrentOperator(c)
	taskID := c.Param("task_id")

	if _, err := tc.ownedTask(operator.Username, taskID); err != nil {
		failWith(c, tc.Log, err, "Unknown task")
		return
	}
	if err := tc.Store.DeleteTask(taskID); err != nil {
		failWith(c, tc.Log, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true})
}

// ownedTask fetches a task and enforces the ownership invariant. Ownership
// is checked only after existence.
func (tc *TaskController) ownedTask(username, taskID string) (*models.Task, error) {
	task, err := tc.Store.TaskByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errs.ErrNotFound
	}
	if task.OperatorID != username {
		return nil, errs.ErrUnauthorized
	}
	return task, nil
}

// resolveOpcode accepts the opcode either as its name or its numeric wire
// value, matching what the different client versions send.
func resolveOpcode(raw any) (models.Opcode, bool) {
	switch v := raw.(type) {
	case string:
		return models.OpcodeByName(v)
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return models.OpcodeByValue(int(v))
	default:
		return 0, false
	}
}
