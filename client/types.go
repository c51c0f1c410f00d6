package client

import (
	"encoding/json"
	"time"
)

// User is a back-office account. The demo account reports its id as "0".
type User struct {
	ID        json.Number `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      string      `json:"role"`
	IsActive  bool        `json:"isActive"`
	LastLogin *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

// Section is a dashboard entry the signed-in role may open.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type LoginResult struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token"`
	Expiry  int64  `json:"expiry,omitempty"`
}

type MeResult struct {
	User     User      `json:"user"`
	Sections []Section `json:"sections"`
}

type Bien struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Address     string    `json:"address"`
	Surface     float64   `json:"surface"`
	Description string    `json:"description"`
	MonthlyRent *float64  `json:"monthlyRent"`
	SalePrice   *float64  `json:"salePrice"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BienInput struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Status      string   `json:"status,omitempty"`
	Address     string   `json:"address"`
	Surface     float64  `json:"surface"`
	Description string   `json:"description"`
	MonthlyRent *float64 `json:"monthlyRent"`
	SalePrice   *float64 `json:"salePrice"`
}

type Location struct {
	ID             uint      `json:"id"`
	BienID         uint      `json:"bienId"`
	BienName       string    `json:"bienName"`
	Locataire      string    `json:"locataire"`
	LocatairePhone string    `json:"locatairePhone"`
	LocataireEmail string    `json:"locataireEmail"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	MonthlyRent    float64   `json:"monthlyRent"`
	Status         string    `json:"status"`
	RemainingTime  string    `json:"remainingTime"`
	CreatedAt      time.Time `json:"createdAt"`
}

type LocationInput struct {
	BienID         uint    `json:"bienId"`
	Locataire      string  `json:"locataire"`
	LocatairePhone string  `json:"locatairePhone"`
	LocataireEmail string  `json:"locataireEmail"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	MonthlyRent    float64 `json:"monthlyRent"`
	Status         string  `json:"status,omitempty"`
}

type Vente struct {
	ID         uint      `json:"id"`
	BienID     uint      `json:"bienId"`
	BienName   string    `json:"bienName"`
	BuyerName  string    `json:"buyerName"`
	BuyerPhone string    `json:"buyerPhone"`
	BuyerEmail string    `json:"buyerEmail"`
	SalePrice  float64   `json:"salePrice"`
	SaleDate   string    `json:"saleDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

type VenteInput struct {
	BienID     uint    `json:"bienId"`
	BuyerName  string  `json:"buyerName"`
	BuyerPhone string  `json:"buyerPhone"`
	BuyerEmail string  `json:"buyerEmail"`
	SalePrice  float64 `json:"salePrice"`
	SaleDate   string  `json:"saleDate"`
}

type Paiement struct {
	ID         uint      `json:"id"`
	LocationID uint      `json:"locationId"`
	BienName   string    `json:"bienName"`
	Locataire  string    `json:"locataire"`
	Amount     float64   `json:"amount"`
	DueDate    string    `json:"dueDate"`
	PaidDate   *string   `json:"paidDate"`
	Status     string    `json:"status"`
	Month      string    `json:"month"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PaiementInput struct {
	LocationID uint    `json:"locationId"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"dueDate"`
	PaidDate   *string `json:"paidDate,omitempty"`
	Status     string  `json:"status,omitempty"`
	Month      string  `json:"month"`
}

// PaiementUpdate confirms or reschedules a payment. A nil PaidDate on a
// paid status lets the server stamp today.
type PaiementUpdate struct {
	PaidDate *string `json:"paidDate,omitempty"`
	Status   string  `json:"status"`
}

type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type Stats struct {
	TotalBiens        int64   `json:"totalBiens"`
	BiensLoues        int64   `json:"biensLoues"`
	BiensVendus       int64   `json:"biensVendus"`
	BiensDisponibles  int64   `json:"biensDisponibles"`
	RevenusMensuels   float64 `json:"revenusMensuels"`
	RevenusAnnuels    float64 `json:"revenusAnnuels"`
	PaiementsEnRetard int64   `json:"paiementsEnRetard"`
	ContratsActifs    int64   `json:"contratsActifs"`
}

type AuditLog struct {
	ID          uint      `json:"id"`
	UserID      *uint     `json:"userId"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    uint      `json:"entityId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Created is the body of every 201 answer.
type Created struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// Message is the body of update and delete answers.
type Message struct {
	Message string `json:"message"`
}
