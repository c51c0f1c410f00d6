package controllers

import (
	"errors"
	"net/http"
)

var (
	ErrBienNotFound     = errors.New("Bien not found")
	ErrBienUnavailable  = errors.New("Bien is not available")
	ErrBienSold         = errors.New("Bien is already sold")
	ErrBienInUse        = errors.New("Bien is still referenced by rentals or sales")
	ErrBienStatusFixed  = errors.New("Bien status follows its active rental or sale")
	ErrLocationNotFound = errors.New("Location not found")
	ErrVenteNotFound    = errors.New("Vente not found")
	ErrPaiementNotFound = errors.New("Paiement not found")
	ErrPaymentSettled   = errors.New("A paid payment cannot change status")
	ErrPaymentOverdue   = errors.New("An overdue payment can only be marked paid")
	ErrUserNotFound     = errors.New("User not found")
	ErrEmailTaken       = errors.New("Email already in use")
	ErrSelfLockout      = errors.New("You cannot remove your own admin access")
)

var errorStatus = map[error]int{
	ErrBienNotFound:     http.StatusNotFound,
	ErrLocationNotFound: http.StatusNotFound,
	ErrVenteNotFound:    http.StatusNotFound,
	ErrPaiementNotFound: http.StatusNotFound,
	ErrUserNotFound:     http.StatusNotFound,
	ErrBienUnavailable:  http.StatusConflict,
	ErrBienSold:         http.StatusConflict,
	ErrBienInUse:        http.StatusConflict,
	ErrBienStatusFixed:  http.StatusConflict,
	ErrPaymentSettled:   http.StatusConflict,
	ErrPaymentOverdue:   http.StatusConflict,
	ErrEmailTaken:       http.StatusConflict,
	ErrSelfLockout:      http.StatusConflict,
}
