package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"municipalink/database"
	"municipalink/utils"
)

// LocationRequest is the body of a rental create
type LocationRequest struct {
	BienID         FlexID  `json:"bienId" binding:"required"`
	Locataire      string  `json:"locataire" binding:"required"`
	LocatairePhone string  `json:"locatairePhone"`
	LocataireEmail string  `json:"locataireEmail" binding:"omitempty,email"`
	StartDate      string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate        string  `json:"endDate" binding:"required,datetime=2006-01-02"`
	MonthlyRent    float64 `json:"monthlyRent" binding:"gt=0"`
	Status         string  `json:"status" binding:"omitempty,oneof=active expired terminated"`
}

// LocationUpdateRequest is the body of a rental update. The Bien of a
// rental never changes.
type LocationUpdateRequest struct {
	ID             FlexID  `json:"id"`
	Locataire      string  `json:"locataire" binding:"required"`
	LocatairePhone string  `json:"locatairePhone"`
	LocataireEmail string  `json:"locataireEmail" binding:"omitempty,email"`
	StartDate      string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate        string  `json:"endDate" binding:"required,datetime=2006-01-02"`
	MonthlyRent    float64 `json:"monthlyRent" binding:"gt=0"`
	Status         string  `json:"status" binding:"required,oneof=active expired terminated"`
}

// LocationRow is a rental joined with its Bien's name
type LocationRow struct {
	database.Location
	BienName      string `json:"bienName"`
	RemainingTime string `json:"remainingTime" gorm:"-"`
}

func (ctl *Controller) locationQuery(c *gin.Context) *gorm.DB {
	return ctl.DB.WithContext(c.Request.Context()).
		Table("locations").
		Select("locations.*, biens.name AS bien_name").
		Joins("JOIN biens ON biens.id = locations.bien_id")
}

// GetLocations lists rentals with their Bien name and remaining time,
// newest first, or returns one when ?id= is set.
func (ctl *Controller) GetLocations(c *gin.Context) {
	if c.Query("id") != "" {
		ctl.GetLocation(c)
		return
	}

	q := ctl.locationQuery(c)
	if status := c.Query("status"); status != "" {
		q = q.Where("locations.status = ?", status)
	}
	if bienID := c.Query("bienId"); bienID != "" {
		q = q.Where("locations.bien_id = ?", bienID)
	}

	rows := []LocationRow{}
	if err := q.Order("locations.created_at DESC").Order("locations.id DESC").Scan(&rows).Error; err != nil {
		respondError(c, err)
		return
	}

	now := ctl.now()
	for i := range rows {
		rows[i].RemainingTime = utils.RemainingTime(rows[i].EndDate, now)
	}
	c.JSON(http.StatusOK, rows)
}

// GetLocation returns a single rental
func (ctl *Controller) GetLocation(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid location id")
		return
	}

	var row LocationRow
	res := ctl.locationQuery(c).Where("locations.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, ErrLocationNotFound)
		return
	}
	row.RemainingTime = utils.RemainingTime(row.EndDate, ctl.now())
	c.JSON(http.StatusOK, row)
}

// CreateLocation records a rental and marks its Bien "loue" in the same
// transaction. The Bien row is locked so two concurrent rentals cannot both
// take it.
func (ctl *Controller) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.EndDate < req.StartDate {
		badRequest(c, "endDate must not be before startDate")
		return
	}
	if req.Status == "" {
		req.Status = LocationStatusActive
	}

	loc := database.Location{
		BienID:         uint(req.BienID),
		Locataire:      req.Locataire,
		LocatairePhone: req.LocatairePhone,
		LocataireEmail: req.LocataireEmail,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		MonthlyRent:    req.MonthlyRent,
		Status:         req.Status,
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if loc.Status == LocationStatusActive {
			if err := lockRentableBien(tx, loc.BienID, 0); err != nil {
				return err
			}
		} else if err := tx.Select("id").First(&database.Bien{}, loc.BienID).Error; err != nil {
			return notFound(err, ErrBienNotFound)
		}

		if err := tx.Create(&loc).Error; err != nil {
			return err
		}
		if err := database.SyncBienStatus(tx, loc.BienID); err != nil {
			return err
		}
		return record(c, tx, database.AuditActionCreate, entityLocation, loc.ID, "Location created for "+loc.Locataire)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Location created", "id": loc.ID})
}

// UpdateLocation replaces a rental's terms and keeps its Bien's status in
// step with the rental status.
func (ctl *Controller) UpdateLocation(c *gin.Context) {
	var req LocationUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	id, ok := resourceID(c, req.ID)
	if !ok {
		badRequest(c, "Invalid location id")
		return
	}
	if req.EndDate < req.StartDate {
		badRequest(c, "endDate must not be before startDate")
		return
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var loc database.Location
		if err := tx.First(&loc, id).Error; err != nil {
			return notFound(err, ErrLocationNotFound)
		}

		if req.Status == LocationStatusActive && loc.Status != LocationStatusActive {
			if err := lockRentableBien(tx, loc.BienID, loc.ID); err != nil {
				return err
			}
		}

		loc.Locataire = req.Locataire
		loc.LocatairePhone = req.LocatairePhone
		loc.LocataireEmail = req.LocataireEmail
		loc.StartDate = req.StartDate
		loc.EndDate = req.EndDate
		loc.MonthlyRent = req.MonthlyRent
		loc.Status = req.Status
		if err := tx.Save(&loc).Error; err != nil {
			return err
		}
		if err := database.SyncBienStatus(tx, loc.BienID); err != nil {
			return err
		}
		return record(c, tx, database.AuditActionUpdate, entityLocation, loc.ID, "Location updated for "+loc.Locataire)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// DeleteLocation removes a rental with its payments and frees the Bien when
// no other active rental holds it.
func (ctl *Controller) DeleteLocation(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid location id")
		return
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var loc database.Location
		if err := tx.First(&loc, id).Error; err != nil {
			return notFound(err, ErrLocationNotFound)
		}
		if err := tx.Where("location_id = ?", loc.ID).Delete(&database.Paiement{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&loc).Error; err != nil {
			return err
		}
		if err := database.SyncBienStatus(tx, loc.BienID); err != nil {
			return err
		}
		return record(c, tx, database.AuditActionDelete, entityLocation, loc.ID, "Location deleted for "+loc.Locataire)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted"})
}

// lockRentableBien locks the Bien row and checks that it is neither sold
// nor held by another active rental than exceptID.
func lockRentableBien(tx *gorm.DB, bienID, exceptID uint) error {
	var bien database.Bien
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bien, bienID).Error; err != nil {
		return notFound(err, ErrBienNotFound)
	}
	if bien.Status == BienStatusVendu {
		return ErrBienSold
	}

	var active int64
	q := tx.Model(&database.Location{}).Where("bien_id = ? AND status = ?", bienID, LocationStatusActive)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return ErrBienUnavailable
	}
	return nil
}
