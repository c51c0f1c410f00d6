package database

import (
	"time"
)

// User is a back-office account. Users are deactivated, never deleted.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	Role         string     `gorm:"size:20;not null" json:"role"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"-"`
}

// Bien is a municipal property: a café, a garden, a commercial unit or a
// land parcel.
type Bien struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	Address     string    `gorm:"size:255" json:"address"`
	Surface     float64   `json:"surface"`
	Description string    `gorm:"type:text" json:"description"`
	MonthlyRent *float64  `json:"monthlyRent"`
	SalePrice   *float64  `json:"salePrice"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

func (Bien) TableName() string { return "biens" }

// Location is a rental contract between a tenant and a Bien.
type Location struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BienID         uint      `gorm:"not null;index" json:"bienId"`
	Locataire      string    `gorm:"size:255;not null" json:"locataire"`
	LocatairePhone string    `gorm:"size:50" json:"locatairePhone"`
	LocataireEmail string    `gorm:"size:255" json:"locataireEmail"`
	StartDate      string    `gorm:"size:10;not null" json:"startDate"`
	EndDate        string    `gorm:"size:10;not null;index" json:"endDate"`
	MonthlyRent    float64   `gorm:"not null" json:"monthlyRent"`
	Status         string    `gorm:"size:20;not null;index" json:"status"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`
}

func (Location) TableName() string { return "locations" }

// Vente records the sale of a Bien. Sales are append-only.
type Vente struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BienID     uint      `gorm:"not null;index" json:"bienId"`
	BuyerName  string    `gorm:"size:255;not null" json:"buyerName"`
	BuyerPhone string    `gorm:"size:50" json:"buyerPhone"`
	BuyerEmail string    `gorm:"size:255" json:"buyerEmail"`
	SalePrice  float64   `gorm:"not null" json:"salePrice"`
	SaleDate   string    `gorm:"size:10;not null" json:"saleDate"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (Vente) TableName() string { return "ventes" }

// Paiement is one billing period owed on a rental.
type Paiement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LocationID uint      `gorm:"not null;index" json:"locationId"`
	Amount     float64   `gorm:"not null" json:"amount"`
	DueDate    string    `gorm:"size:10;not null;index" json:"dueDate"`
	PaidDate   *string   `gorm:"size:10" json:"paidDate"`
	Status     string    `gorm:"size:20;not null;index" json:"status"`
	Month      string    `gorm:"size:50" json:"month"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"-"`
}

func (Paiement) TableName() string { return "paiements" }

// Constants for status values
const (
	BienTypeCafe    = "cafe"
	BienTypeJardin  = "jardin"
	BienTypeLocal   = "local"
	BienTypeTerrain = "terrain"

	BienStatusDisponible = "disponible"
	BienStatusLoue       = "loue"
	BienStatusVendu      = "vendu"

	LocationStatusActive     = "active"
	LocationStatusExpired    = "expired"
	LocationStatusTerminated = "terminated"

	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
	PaymentStatusOverdue = "overdue"

	// User roles
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleFinance  = "finance"
)
