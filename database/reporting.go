package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DashboardStats is the flat statistics object shown on the dashboard.
type DashboardStats struct {
	TotalBiens        int64   `json:"totalBiens"`
	BiensLoues        int64   `json:"biensLoues"`
	BiensVendus       int64   `json:"biensVendus"`
	BiensDisponibles  int64   `json:"biensDisponibles"`
	RevenusMensuels   float64 `json:"revenusMensuels"`
	RevenusAnnuels    float64 `json:"revenusAnnuels"`
	PaiementsEnRetard int64   `json:"paiementsEnRetard"`
	ContratsActifs    int64   `json:"contratsActifs"`
}

// Reports runs raw scalar queries against the reporting handle.
type Reports struct {
	db *sql.DB
}

func NewReports(db *sql.DB) *Reports {
	return &Reports{db: db}
}

// Ping checks that the reporting handle can reach the database.
func (r *Reports) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Dashboard computes every figure from scratch. revenusAnnuels sums the
// payments marked paid with a paidDate inside now's calendar year.
func (r *Reports) Dashboard(ctx context.Context, now time.Time) (DashboardStats, error) {
	var s DashboardStats

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	nextYear := time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	queries := []struct {
		name string
		dest any
		sql  string
		args []any
	}{
		{"totalBiens", &s.TotalBiens, `SELECT COUNT(*) FROM biens`, nil},
		{"biensLoues", &s.BiensLoues, `SELECT COUNT(*) FROM biens WHERE status = $1`, []any{BienStatusLoue}},
		{"biensVendus", &s.BiensVendus, `SELECT COUNT(*) FROM biens WHERE status = $1`, []any{BienStatusVendu}},
		{"biensDisponibles", &s.BiensDisponibles, `SELECT COUNT(*) FROM biens WHERE status = $1`, []any{BienStatusDisponible}},
		{"revenusMensuels", &s.RevenusMensuels, `SELECT COALESCE(SUM(monthly_rent), 0) FROM locations WHERE status = $1`, []any{LocationStatusActive}},
		{"revenusAnnuels", &s.RevenusAnnuels, `SELECT COALESCE(SUM(amount), 0) FROM paiements WHERE status = $1 AND paid_date >= $2 AND paid_date < $3`, []any{PaymentStatusPaid, yearStart, nextYear}},
		{"paiementsEnRetard", &s.PaiementsEnRetard, `SELECT COUNT(*) FROM paiements WHERE status = $1`, []any{PaymentStatusOverdue}},
		{"contratsActifs", &s.ContratsActifs, `SELECT COUNT(*) FROM locations WHERE status = $1`, []any{LocationStatusActive}},
	}

	for _, q := range queries {
		if err := r.db.QueryRowContext(ctx, q.sql, q.args...).Scan(q.dest); err != nil {
			return DashboardStats{}, fmt.Errorf("stats %s: %w", q.name, err)
		}
	}
	return s, nil
}
