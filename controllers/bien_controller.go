package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"municipalink/database"
)

// BienRequest is the full body of a Bien create or update
type BienRequest struct {
	ID          FlexID   `json:"id"`
	Name        string   `json:"name" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=cafe jardin local terrain"`
	Status      string   `json:"status" binding:"omitempty,oneof=disponible loue vendu"`
	Address     string   `json:"address" binding:"required"`
	Surface     float64  `json:"surface" binding:"gte=0"`
	Description string   `json:"description"`
	MonthlyRent *float64 `json:"monthlyRent" binding:"omitempty,gte=0"`
	SalePrice   *float64 `json:"salePrice" binding:"omitempty,gte=0"`
}

// GetBiens lists every Bien, newest first, or returns one when ?id= is set.
// ?status= and ?type= narrow the list.
func (ctl *Controller) GetBiens(c *gin.Context) {
	if c.Query("id") != "" {
		ctl.GetBien(c)
		return
	}

	q := ctl.DB.WithContext(c.Request.Context())
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if typ := c.Query("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}

	biens := []database.Bien{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&biens).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, biens)
}

// GetBien returns a single Bien
func (ctl *Controller) GetBien(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid bien id")
		return
	}

	var bien database.Bien
	if err := ctl.DB.WithContext(c.Request.Context()).First(&bien, id).Error; err != nil {
		respondError(c, notFound(err, ErrBienNotFound))
		return
	}
	c.JSON(http.StatusOK, bien)
}

// CreateBien inserts a new Bien. A missing status means "disponible".
func (ctl *Controller) CreateBien(c *gin.Context) {
	var req BienRequest
	if !bindJSON(c, &req) {
		return
	}

	bien := database.Bien{Status: BienStatusDisponible}
	req.apply(&bien)

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bien).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionCreate, entityBien, bien.ID, "Bien created: "+bien.Name)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Bien created", "id": bien.ID})
}

// UpdateBien replaces every field of an existing Bien. The status can only
// be changed by hand while no sale or active rental decides it.
func (ctl *Controller) UpdateBien(c *gin.Context) {
	var req BienRequest
	if !bindJSON(c, &req) {
		return
	}
	id, ok := resourceID(c, req.ID)
	if !ok {
		badRequest(c, "Invalid bien id")
		return
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var bien database.Bien
		if err := tx.First(&bien, id).Error; err != nil {
			return notFound(err, ErrBienNotFound)
		}
		if req.Status != "" && req.Status != bien.Status {
			derived, err := derivedStatus(tx, bien.ID)
			if err != nil {
				return err
			}
			if derived != "" && derived != req.Status {
				return ErrBienStatusFixed
			}
		}
		req.apply(&bien)
		if err := tx.Save(&bien).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionUpdate, entityBien, bien.ID, "Bien updated: "+bien.Name)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bien updated"})
}

// DeleteBien removes a Bien that no rental or sale refers to
func (ctl *Controller) DeleteBien(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid bien id")
		return
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var bien database.Bien
		if err := tx.First(&bien, id).Error; err != nil {
			return notFound(err, ErrBienNotFound)
		}

		var rentals, sales int64
		if err := tx.Model(&database.Location{}).Where("bien_id = ?", id).Count(&rentals).Error; err != nil {
			return err
		}
		if err := tx.Model(&database.Vente{}).Where("bien_id = ?", id).Count(&sales).Error; err != nil {
			return err
		}
		if rentals+sales > 0 {
			return ErrBienInUse
		}

		if err := tx.Delete(&bien).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionDelete, entityBien, bien.ID, "Bien deleted: "+bien.Name)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bien deleted"})
}

func (r BienRequest) apply(b *database.Bien) {
	b.Name = r.Name
	b.Type = r.Type
	if r.Status != "" {
		b.Status = r.Status
	}
	b.Address = r.Address
	b.Surface = r.Surface
	b.Description = r.Description
	b.MonthlyRent = r.MonthlyRent
	b.SalePrice = r.SalePrice
}

// derivedStatus returns the status a Bien's sale or active rental imposes,
// or "" when neither exists.
func derivedStatus(tx *gorm.DB, bienID uint) (string, error) {
	var n int64
	if err := tx.Model(&database.Vente{}).Where("bien_id = ?", bienID).Count(&n).Error; err != nil {
		return "", err
	}
	if n > 0 {
		return BienStatusVendu, nil
	}
	if err := tx.Model(&database.Location{}).
		Where("bien_id = ? AND status = ?", bienID, LocationStatusActive).
		Count(&n).Error; err != nil {
		return "", err
	}
	if n > 0 {
		return BienStatusLoue, nil
	}
	return "", nil
}
