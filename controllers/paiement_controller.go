package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"municipalink/database"
)

// PaiementRequest is the body of a payment create
type PaiementRequest struct {
	LocationID FlexID  `json:"locationId" binding:"required"`
	Amount     float64 `json:"amount" binding:"gt=0"`
	DueDate    string  `json:"dueDate" binding:"required,datetime=2006-01-02"`
	PaidDate   *string `json:"paidDate" binding:"omitempty,datetime=2006-01-02"`
	Status     string  `json:"status" binding:"omitempty,oneof=paid pending overdue"`
	Month      string  `json:"month" binding:"required"`
}

// PaiementUpdateRequest confirms or reschedules a payment
type PaiementUpdateRequest struct {
	ID       FlexID  `json:"id"`
	PaidDate *string `json:"paidDate" binding:"omitempty,datetime=2006-01-02"`
	Status   string  `json:"status" binding:"required,oneof=paid pending overdue"`
}

// PaiementRow is a payment joined with its rental's tenant and Bien name
type PaiementRow struct {
	database.Paiement
	BienName  string `json:"bienName"`
	Locataire string `json:"locataire"`
}

func (ctl *Controller) paiementQuery(c *gin.Context) *gorm.DB {
	return ctl.DB.WithContext(c.Request.Context()).
		Table("paiements").
		Select("paiements.*, biens.name AS bien_name, locations.locataire AS locataire").
		Joins("JOIN locations ON locations.id = paiements.location_id").
		Joins("JOIN biens ON biens.id = locations.bien_id")
}

// GetPaiements lists payments by due date, latest first, or returns one
// when ?id= is set. ?locationId= and ?status= narrow the list.
func (ctl *Controller) GetPaiements(c *gin.Context) {
	if c.Query("id") != "" {
		ctl.GetPaiement(c)
		return
	}

	q := ctl.paiementQuery(c)
	if locationID := c.Query("locationId"); locationID != "" {
		q = q.Where("paiements.location_id = ?", locationID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("paiements.status = ?", status)
	}

	rows := []PaiementRow{}
	if err := q.Order("paiements.due_date DESC").Order("paiements.id DESC").Scan(&rows).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetPaiement returns a single payment
func (ctl *Controller) GetPaiement(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid paiement id")
		return
	}

	var row PaiementRow
	res := ctl.paiementQuery(c).Where("paiements.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, ErrPaiementNotFound)
		return
	}
	c.JSON(http.StatusOK, row)
}

// CreatePaiement adds a billing period to an existing rental
func (ctl *Controller) CreatePaiement(c *gin.Context) {
	var req PaiementRequest
	if !bindJSON(c, &req) {
		return
	}

	p := database.Paiement{
		LocationID: uint(req.LocationID),
		Amount:     req.Amount,
		DueDate:    req.DueDate,
		Status:     req.Status,
		Month:      req.Month,
	}
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
	p.PaidDate = ctl.paidDateFor(p.Status, req.PaidDate)

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&database.Location{}, p.LocationID).Error; err != nil {
			return notFound(err, ErrLocationNotFound)
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionCreate, entityPaiement, p.ID, "Paiement created: "+p.Month)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Paiement created", "id": p.ID})
}

// UpdatePaiement changes a payment's status and paid date. Once paid, a
// payment stays paid, and an overdue one can only become paid.
func (ctl *Controller) UpdatePaiement(c *gin.Context) {
	var req PaiementUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	id, ok := resourceID(c, req.ID)
	if !ok {
		badRequest(c, "Invalid paiement id")
		return
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var p database.Paiement
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err, ErrPaiementNotFound)
		}
		if p.Status == PaymentStatusPaid && req.Status != PaymentStatusPaid {
			return ErrPaymentSettled
		}
		if p.Status == PaymentStatusOverdue && req.Status == PaymentStatusPending {
			return ErrPaymentOverdue
		}

		paidDate := ctl.paidDateFor(req.Status, req.PaidDate)
		if err := tx.Model(&p).Updates(map[string]interface{}{
			"status":    req.Status,
			"paid_date": paidDate,
		}).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionUpdate, entityPaiement, p.ID, "Paiement "+p.Month+" set to "+req.Status)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Paiement updated"})
}

// paidDateFor stamps today on a paid payment sent without a date and
// clears the date of unpaid ones.
func (ctl *Controller) paidDateFor(status string, paidDate *string) *string {
	if status != PaymentStatusPaid {
		return nil
	}
	if paidDate == nil || *paidDate == "" {
		today := ctl.today()
		return &today
	}
	return paidDate
}
