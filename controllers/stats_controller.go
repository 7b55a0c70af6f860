package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamserver/database"
)

// StatsController serves the server stats endpoint.
type StatsController struct {
	Store     *database.Store
	StartedAt time.Time
	Log       *slog.Logger
}

// Stats returns basic counters for operator dashboards. Counter failures
// degrade to zero rather than failing the whole response.
func (sc *StatsController) Stats(c *gin.Context) {
	operators := sc.count(sc.Store.CountOperators)
	implants := sc.count(sc.Store.CountImplants)
	tasks := sc.count(sc.Store.CountTasks)
	pending := sc.count(sc.Store.CountPendingTasks)

	c.JSON(http.StatusOK, gin.H{
		"status":         true,
		"operators":      operators,
		"implants":       implants,
		"tasks":          tasks,
		"pending_tasks":  pending,
		"uptime_seconds": int64(time.Since(sc.StartedAt).Seconds()),
	})
}

func (sc *StatsController) count(fn func() (int64, error)) int64 {
	n, err := fn()
	if err != nil {
		sc.Log.Warn("stats counter failed", "error", err)
		return 0
	}
	return n
}
