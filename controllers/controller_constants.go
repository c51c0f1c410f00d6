package controllers

import (
	"municipalink/database"
)

// Entity names written to the audit log
const (
	entityBien     = "bien"
	entityLocation = "location"
	entityVente    = "vente"
	entityPaiement = "paiement"
	entityUser     = "user"
)

// Status aliases used by the handlers
const (
	BienStatusDisponible = database.BienStatusDisponible
	BienStatusLoue       = database.BienStatusLoue
	BienStatusVendu      = database.BienStatusVendu

	LocationStatusActive     = database.LocationStatusActive
	LocationStatusTerminated = database.LocationStatusTerminated

	PaymentStatusPaid    = database.PaymentStatusPaid
	PaymentStatusPending = database.PaymentStatusPending
	PaymentStatusOverdue = database.PaymentStatusOverdue
)
