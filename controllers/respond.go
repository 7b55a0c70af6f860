package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamserver/errs"
)

// fail writes the uniform failure envelope.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"status": false, "msg": msg})
}

// failWith maps a domain error onto the wire. notFoundMsg names the missing
// resource kind; anything unrecognized collapses to a generic internal
// failure so no internals leak to the caller.
func failWith(c *gin.Context, log *slog.Logger, err error, notFoundMsg string) {
	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, "Invalid task, missing fields: "+strings.Join(verr.Fields, ", "))
	case errors.Is(err, errs.ErrNotFound):
		fail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, errs.ErrUnauthorized):
		fail(c, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, errs.ErrAuthentication):
		fail(c, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, errs.ErrUpstream):
		log.Error("upstream failure", "error", err)
		fail(c, http.StatusServiceUnavailable, "Upstream unavailable, retry")
	default:
		log.Error("unexpected failure", "error", err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
