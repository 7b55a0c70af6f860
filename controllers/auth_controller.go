package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamserver/broker"
	"teamserver/crypto"
	"teamserver/database"
	"teamserver/middleware"
)

// dummyVerifyKey is a throwaway verify key used when the claimed operator
// does not exist, so the unknown-operator path does the same work as the
// known-operator path.
const dummyVerifyKey = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

// AuthController serves the token lifecycle endpoints.
type AuthController struct {
	Store   *database.Store
	Keys    *crypto.ServerKeyPair
	Gateway *broker.Gateway
	Log     *slog.Logger
}

// RequestToken handles the challenge/response login. The client presents its
// username in X-ID and a signed, sealed copy of its login secret in
// X-Signature; a correct proof yields a bearer token plus the coordinates of
// the operator's notification queue.
func (ac *AuthController) RequestToken(c *gin.Context) {
	id := c.GetHeader("X-ID")
	signature := c.GetHeader("X-Signature")
	if id == "" || signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Unknown operator key"})
		return
	}

	operator, err := ac.Store.OperatorByUsername(id)
	if err != nil {
		failWith(c, ac.Log, err, "")
		return
	}

	// Run the full verification even for unknown operators so the failure
	// path costs the same regardless of which check trips.
	verifyKey := dummyVerifyKey
	secret := ""
	if operator != nil {
		verifyKey = operator.PublicKey
		secret = operator.LoginSecret
	}

	plaintext, verr := crypto.VerifyChallenge(ac.Keys, verifyKey, signature)
	if verr != nil || operator == nil || !crypto.SecretsEqual(plaintext, secret) {
		fail(c, http.StatusBadRequest, "Unable to verify signature")
		return
	}

	token, err := ac.Store.IssueOrReuseToken(operator)
	if err != nil {
		failWith(c, ac.Log, err, "")
		return
	}

	rmqHost, rmqPort, rmqQueue := ac.Gateway.OperatorQueue(operator.Username)

	c.JSON(http.StatusOK, gin.H{
		"status":    true,
		"token":     token,
		"rmq_host":  rmqHost,
		"rmq_port":  rmqPort,
		"rmq_queue": rmqQueue,
	})
}

// RevokeToken invalidates the caller's current token.
func (ac *AuthController) RevokeToken(c *gin.Context) {
	operator := middleware.CurrentOperator(c)
	if err := ac.Store.RevokeToken(operator); err != nil {
		failWith(c, ac.Log, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true})
}

// TokenStatus reports whether the presented token is still valid. Reaching
// this handler at all means the middleware accepted it.
func (ac *AuthController) TokenStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": true})
}
