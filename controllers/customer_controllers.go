package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
	"github.com/sahrati/reservation-backend/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetAllCustomers -> customer list, most recent first.
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := cc.DB.Order("created_at DESC").Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// DeleteCustomer removes a customer and every reservation booked under
// their email. Destructive and irreversible.
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("customer_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("customer id must be a number"))
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_email = ?", customer.Email).
			Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Customer %d (%s) deleted with their reservations", customer.ID, customer.Email)
	utils.RespondJSON(c, http.StatusOK, "Customer deleted", gin.H{"customer_id": customer.ID})
}
