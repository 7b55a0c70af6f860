package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"teamserver/models"
)

// dispatchTimeout bounds each background hand-off to the broker.
const dispatchTimeout = 5 * time.Second

// Gateway fans task events out to the notification queue and the implant
// dispatch channel. All hand-offs are fire-and-forget: failures are logged
// and never roll back the triggering operation. A nil Gateway, Notifier or
// TaskQueue silently drops the corresponding hand-off, which keeps the
// server usable when the broker is down.
type Gateway struct {
	notifier *Notifier
	queue    *TaskQueue
	log      *slog.Logger
}

// NewGateway wires the gateway. Either backend may be nil.
func NewGateway(notifier *Notifier, queue *TaskQueue, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{notifier: notifier, queue: queue, log: log}
}

// OperatorQueue ensures the operator's notification queue exists and returns
// the broker coordinates handed back in the auth response. When the broker
// is unreachable the coordinates degrade to empty values.
func (g *Gateway) OperatorQueue(username string) (host string, port int, queue string) {
	if g == nil || g.notifier == nil {
		return "", 0, ""
	}
	name, err := g.notifier.DeclareOperatorQueue(username)
	if err != nil {
		g.log.Warn("declaring operator queue failed", "operator", username, "error", err)
		return "", 0, ""
	}
	return g.notifier.Host(), g.notifier.Port(), name
}

// TaskCreated dispatches a freshly stored task: the id goes onto the
// implant's Redis list and the full task onto the owner's notification
// queue.
func (g *Gateway) TaskCreated(task *models.Task) {
	if g == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if g.queue != nil {
			if err := g.queue.PushTask(ctx, task.ImplantID, task.TaskID); err != nil {
				g.log.Warn("task dispatch to implant queue failed",
					"task_id", task.TaskID, "implant_id", task.ImplantID, "error", err)
			}
		}
		if g.notifier != nil {
			body, err := json.Marshal(task)
			if err != nil {
				return
			}
			if err := g.notifier.Publish(ctx, operatorQueuePrefix+task.OperatorID, body); err != nil {
				g.log.Warn("task notification failed",
					"task_id", task.TaskID, "operator", task.OperatorID, "error", err)
			}
		}
	}()
}

// KillRequested records a kill instruction for the implant on the dispatch
// channel.
func (g *Gateway) KillRequested(implantID string) {
	if g == nil || g.queue == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := g.queue.SignalKill(ctx, implantID); err != nil {
			g.log.Warn("kill dispatch failed", "implant_id", implantID, "error", err)
		}
	}()
}
