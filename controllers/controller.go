package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"municipalink/audit"
	"municipalink/database"
	"municipalink/middleware"
	"municipalink/utils"
)

// Controller carries the dependencies shared by every handler.
type Controller struct {
	DB      *gorm.DB
	Reports *database.Reports
	Now     func() time.Time
}

// New builds a Controller around an already opened database.
func New(db *gorm.DB, reports *database.Reports) *Controller {
	return &Controller{DB: db, Reports: reports, Now: time.Now}
}

func (ctl *Controller) now() time.Time {
	if ctl.Now == nil {
		return time.Now()
	}
	return ctl.Now()
}

func (ctl *Controller) today() string {
	return utils.FormatDate(ctl.now())
}

// FlexID accepts an id sent either as a JSON number or as a string, which
// is how the dashboard forms post them.
type FlexID uint

func (id *FlexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = FlexID(v)
	return nil
}

// resourceID reads the target id from the path, then ?id=, then the body.
func resourceID(c *gin.Context, bodyID FlexID) (uint, bool) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	if raw == "" {
		return uint(bodyID), bodyID != 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// respondError maps domain errors to their status and hides everything else
// behind a 500.
func respondError(c *gin.Context, err error) {
	for sentinel, status := range errorStatus {
		if errors.Is(err, sentinel) {
			c.JSON(status, gin.H{"error": sentinel.Error()})
			return
		}
	}

	_ = c.Error(err)
	utils.Logger.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.KeyRequestID),
		"path":       c.FullPath(),
		"error":      err.Error(),
	}).Error("Unhandled server error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

// notFound turns gorm's missing-row error into the resource's sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func actorID(c *gin.Context) *uint {
	if c.GetBool(middleware.KeyDemo) {
		return nil
	}
	v, ok := c.Get(middleware.KeyUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

func record(c *gin.Context, tx *gorm.DB, action, entityType string, entityID uint, description string) error {
	return audit.WriteLog(tx, audit.LogOptions{
		UserID:      actorID(c),
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IP:          c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
}
