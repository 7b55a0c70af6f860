package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamserver/database"
	"teamserver/models"
)

// operatorKey is the gin context key the resolved operator is stored under.
const operatorKey = "operator"

// Auth gates every protected operator route. It extracts the bearer token,
// resolves it to an operator and puts the operator into the request context.
// All failures produce the same response; callers cannot tell a missing
// token from an expired one.
func Auth(store *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			reject(c)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		operator, err := store.OperatorByToken(token)
		if err != nil || operator == nil {
			reject(c)
			return
		}

		c.Set(operatorKey, operator)
		c.Next()
	}
}

func reject(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status": false,
		"msg":    "Not authenticated",
	})
}

// CurrentOperator returns the operator the middleware resolved for this
// request. Only valid on routes behind Auth.
func CurrentOperator(c *gin.Context) *models.Operator {
	return c.MustGet(operatorKey).(*models.Operator)
}
