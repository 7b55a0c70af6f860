package broker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TaskQueue pushes work toward implants through Redis lists. Each implant
// polls its own list; a separate kill key tells it to self-destruct even if
// it never drains the list.
type TaskQueue struct {
	client *redis.Client
}

// NewTaskQueue connects to Redis and verifies the connection.
func NewTaskQueue(addr, password string, db int) (*TaskQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &TaskQueue{client: client}, nil
}

func implantTaskKey(implantID string) string { return "implant:" + implantID + ":tasks" }
func implantKillKey(implantID string) string { return "implant:" + implantID + ":kill" }

// PushTask queues a task id for the implant.
func (q *TaskQueue) PushTask(ctx context.Context, implantID, taskID string) error {
	return q.client.LPush(ctx, implantTaskKey(implantID), taskID).Err()
}

// PopTask takes the oldest queued task id for the implant, blocking up to
// wait. Returns redis.Nil via the error when nothing arrived.
func (q *TaskQueue) PopTask(ctx context.Context, implantID string, wait time.Duration) (string, error) {
	values, err := q.client.BRPop(ctx, wait, implantTaskKey(implantID)).Result()
	if err != nil {
		return "", err
	}
	if len(values) != 2 {
		return "", redis.Nil
	}
	return values[1], nil
}

// SignalKill records a kill request for the implant. Best-effort: the key
// only guarantees the instruction is queued for delivery.
func (q *TaskQueue) SignalKill(ctx context.Context, implantID string) error {
	return q.client.Set(ctx, implantKillKey(implantID), "1", 0).Err()
}

// KillRequested reports whether a kill has been recorded for the implant.
func (q *TaskQueue) KillRequested(ctx context.Context, implantID string) (bool, error) {
	n, err := q.client.Exists(ctx, implantKillKey(implantID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the Redis connection.
func (q *TaskQueue) Close() error {
	if q == nil || q.client == nil {
		return nil
	}
	return q.client.Close()
}
