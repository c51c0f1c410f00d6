package database

import (
	"gorm.io/gorm"
)

// SyncBienStatus recomputes a Bien's status from its rentals. A sold Bien
// keeps its status; otherwise it is "loue" while an active rental exists and
// "disponible" when none does. Callers run it inside the transaction that
// changed the rentals.
func SyncBienStatus(tx *gorm.DB, bienID uint) error {
	var bien Bien
	if err := tx.Select("id", "status").First(&bien, bienID).Error; err != nil {
		return err
	}
	if bien.Status == BienStatusVendu {
		return nil
	}

	var active int64
	if err := tx.Model(&Location{}).
		Where("bien_id = ? AND status = ?", bienID, LocationStatusActive).
		Count(&active).Error; err != nil {
		return err
	}

	status := BienStatusDisponible
	if active > 0 {
		status = BienStatusLoue
	}
	if status == bien.Status {
		return nil
	}
	return tx.Model(&Bien{}).Where("id = ?", bienID).Update("status", status).Error
}
