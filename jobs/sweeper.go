// Package jobs holds the periodic status sweeps run next to the API.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"municipalink/database"
	"municipalink/utils"
)

// SweepTimeout bounds one scheduled run.
const SweepTimeout = 2 * time.Minute

// Sweeper moves payments and rentals whose dates have passed to their
// overdue and expired states.
type Sweeper struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSweeper returns a Sweeper working on db. A nil now uses time.Now.
func NewSweeper(db *gorm.DB, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{db: db, now: now}
}

// MarkOverduePayments flags pending payments due before today as overdue
// and returns how many changed.
func (s *Sweeper) MarkOverduePayments(ctx context.Context) (int64, error) {
	today := utils.FormatDate(s.now())
	res := s.db.WithContext(ctx).
		Model(&database.Paiement{}).
		Where("status = ? AND due_date < ?", database.PaymentStatusPending, today).
		Update("status", database.PaymentStatusOverdue)
	if res.Error != nil {
		return 0, fmt.Errorf("mark overdue payments: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ExpireRentals closes active rentals that ended before today and frees
// their Biens. It returns how many rentals expired.
func (s *Sweeper) ExpireRentals(ctx context.Context) (int64, error) {
	today := utils.FormatDate(s.now())

	var expired []database.Location
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "bien_id").
			Where("status = ? AND end_date <> '' AND end_date < ?", database.LocationStatusActive, today).
			Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(expired))
		biens := map[uint]struct{}{}
		for _, l := range expired {
			ids = append(ids, l.ID)
			biens[l.BienID] = struct{}{}
		}

		if err := tx.Model(&database.Location{}).
			Where("id IN ?", ids).
			Update("status", database.LocationStatusExpired).Error; err != nil {
			return err
		}
		for bienID := range biens {
			if err := database.SyncBienStatus(tx, bienID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("expire rentals: %w", err)
	}
	return int64(len(expired)), nil
}

// Run performs both sweeps once.
func (s *Sweeper) Run(ctx context.Context) error {
	overdue, err := s.MarkOverduePayments(ctx)
	if err != nil {
		return err
	}
	expired, err := s.ExpireRentals(ctx)
	if err != nil {
		return err
	}
	if overdue > 0 || expired > 0 {
		utils.Logger.WithField("overdue_payments", overdue).
			WithField("expired_rentals", expired).
			Info("Status sweep applied")
	}
	return nil
}

// Schedule registers s on a new cron scheduler, sweeps once right away and
// starts the scheduler. The caller stops it on shutdown.
func Schedule(spec string, s *Sweeper) (*cron.Cron, error) {
	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), SweepTimeout)
		defer cancel()
		if err := s.Run(ctx); err != nil {
			utils.Logger.WithError(err).Error("Scheduled status sweep failed")
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, sweep); err != nil {
		return nil, fmt.Errorf("schedule sweep %q: %w", spec, err)
	}
	sweep()
	c.Start()
	return c, nil
}
