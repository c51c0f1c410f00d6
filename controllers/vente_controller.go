package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"municipalink/database"
)

// VenteRequest is the body of a sale
type VenteRequest struct {
	BienID     FlexID  `json:"bienId" binding:"required"`
	BuyerName  string  `json:"buyerName" binding:"required"`
	BuyerPhone string  `json:"buyerPhone"`
	BuyerEmail string  `json:"buyerEmail" binding:"omitempty,email"`
	SalePrice  float64 `json:"salePrice" binding:"gt=0"`
	SaleDate   string  `json:"saleDate" binding:"required,datetime=2006-01-02"`
}

// VenteRow is a sale joined with its Bien's name
type VenteRow struct {
	database.Vente
	BienName string `json:"bienName"`
}

func (ctl *Controller) venteQuery(c *gin.Context) *gorm.DB {
	return ctl.DB.WithContext(c.Request.Context()).
		Table("ventes").
		Select("ventes.*, biens.name AS bien_name").
		Joins("JOIN biens ON biens.id = ventes.bien_id")
}

// GetVentes lists sales, newest first, or returns one when ?id= is set
func (ctl *Controller) GetVentes(c *gin.Context) {
	if c.Query("id") != "" {
		ctl.GetVente(c)
		return
	}

	rows := []VenteRow{}
	if err := ctl.venteQuery(c).Order("ventes.created_at DESC").Order("ventes.id DESC").Scan(&rows).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetVente returns a single sale
func (ctl *Controller) GetVente(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid vente id")
		return
	}

	var row VenteRow
	res := ctl.venteQuery(c).Where("ventes.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, ErrVenteNotFound)
		return
	}
	c.JSON(http.StatusOK, row)
}

// CreateVente records a sale and marks the Bien "vendu" in one transaction.
// A Bien can only be sold once. Its active rentals end with the sale.
func (ctl *Controller) CreateVente(c *gin.Context) {
	var req VenteRequest
	if !bindJSON(c, &req) {
		return
	}

	vente := database.Vente{
		BienID:     uint(req.BienID),
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
		BuyerEmail: req.BuyerEmail,
		SalePrice:  req.SalePrice,
		SaleDate:   req.SaleDate,
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var bien database.Bien
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bien, vente.BienID).Error; err != nil {
			return notFound(err, ErrBienNotFound)
		}
		if bien.Status == BienStatusVendu {
			return ErrBienSold
		}

		if err := tx.Create(&vente).Error; err != nil {
			return err
		}
		if err := tx.Model(&bien).Update("status", BienStatusVendu).Error; err != nil {
			return err
		}
		ended := tx.Model(&database.Location{}).
			Where("bien_id = ? AND status = ?", bien.ID, LocationStatusActive).
			Update("status", LocationStatusTerminated)
		if ended.Error != nil {
			return ended.Error
		}

		desc := "Vente created for " + bien.Name
		if ended.RowsAffected > 0 {
			desc += fmt.Sprintf(", %d active rental(s) terminated", ended.RowsAffected)
		}
		return record(c, tx, database.AuditActionCreate, entityVente, vente.ID, desc)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vente created", "id": vente.ID})
}
