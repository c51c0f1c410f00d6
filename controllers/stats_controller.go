package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"municipalink/audit"
)

// GetStats returns the dashboard figures, recomputed on every call
func (ctl *Controller) GetStats(c *gin.Context) {
	stats, err := ctl.Reports.Dashboard(c.Request.Context(), ctl.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetAuditLogs lists recent writes. ?entityType=, ?entityId= and ?limit=
// narrow the result.
func (ctl *Controller) GetAuditLogs(c *gin.Context) {
	opts := audit.ListOptions{EntityType: c.Query("entityType")}
	if v, err := strconv.ParseUint(c.Query("entityId"), 10, 64); err == nil {
		opts.EntityID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.Limit = v
	}

	logs, err := audit.List(c.Request.Context(), ctl.DB, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Health reports whether both database handles answer
func (ctl *Controller) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}

	sqlDB, err := ctl.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err == nil {
		err = ctl.Reports.Ping(ctx)
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		body = gin.H{"status": "unavailable"}
	}
	c.JSON(status, body)
}
