// Package audit records API writes in the audit_logs table.
package audit

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"municipalink/database"
)

type LogOptions struct {
	UserID      *uint
	Action      string
	EntityType  string
	EntityID    uint
	Description string
	IP          string
	UserAgent   string
}

// WriteLog inserts one audit row using db, which may be a transaction.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	entry := database.AuditLog{
		UserID:      opts.UserID,
		Action:      opts.Action,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Description: opts.Description,
		IP:          opts.IP,
		UserAgent:   truncate(opts.UserAgent, 255),
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// ListOptions narrows List. Zero values mean no filter.
type ListOptions struct {
	EntityType string
	EntityID   uint
	Limit      int
}

// List returns the most recent audit rows first.
func List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]database.AuditLog, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	q := db.WithContext(ctx).Model(&database.AuditLog{})
	if opts.EntityType != "" {
		q = q.Where("entity_type = ?", opts.EntityType)
	}
	if opts.EntityID != 0 {
		q = q.Where("entity_id = ?", opts.EntityID)
	}

	logs := []database.AuditLog{}
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
