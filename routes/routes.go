package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"teamserver/broker"
	"teamserver/controllers"
	"teamserver/crypto"
	"teamserver/database"
	"teamserver/middleware"
)

// SetupRouter builds the operator API. Everything under /op except the
// initial token request sits behind the auth middleware.
func SetupRouter(store *database.Store, keys *crypto.ServerKeyPair, gateway *broker.Gateway, log *slog.Logger) *gin.Engine {
	r := gin.Default()

	auth := &controllers.AuthController{Store: store, Keys: keys, Gateway: gateway, Log: log}
	tasks := &controllers.TaskController{Store: store, Gateway: gateway, Log: log}
	implants := &controllers.ImplantController{Store: store, Gateway: gateway, Log: log}
	stats := &controllers.StatsController{Store: store, StartedAt: time.Now(), Log: log}

	// The token request authenticates via signed challenge headers, not a
	// bearer token.
	r.GET("/op/auth/token/request", auth.RequestToken)

	protected := r.Group("/op")
	protected.Use(middleware.Auth(store))
	{
		protected.GET("/auth/token/revoke", auth.RevokeToken)
		protected.GET("/auth/token/status", auth.TokenStatus)

		protected.GET("/tasks/list", tasks.ListTasks)
		protected.POST("/tasks/add", tasks.AddTask)
		protected.GET("/tasks/results/:task_id", tasks.GetTaskResult)
		protected.DELETE("/tasks/delete/:task_id", tasks.DeleteTask)

		protected.GET("/implant/list", implants.ListImplants)
		protected.GET("/implant/exists/:prefix", implants.ImplantExists)
		protected.GET("/implant/config/:implant_id", implants.GetImplantConfig)
		protected.POST("/implant/config/:implant_id", implants.UpdateImplantConfig)
		protected.DELETE("/implant/kill/:implant_id", implants.KillImplant)

		protected.GET("/stats", stats.Stats)
	}

	return r
}
