package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
	"github.com/sahrati/reservation-backend/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetStats returns the dashboard headline numbers for a date (today when
// omitted): confirmed bookings, their revenue, total tables, and how
// many distinct tables are taken that day.
func (dc *DashboardController) GetStats(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format(models.DateLayout))

	var reservationsToday int64
	if err := dc.DB.Model(&models.Reservation{}).
		Where("reservation_date = ? AND status = ?", date, models.ReservationStatusConfirmed).
		Count(&reservationsToday).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var revenueToday float64
	if err := dc.DB.Model(&models.Reservation{}).
		Where("reservation_date = ? AND status = ?", date, models.ReservationStatusConfirmed).
		Select("COALESCE(SUM(revenue), 0)").
		Scan(&revenueToday).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalTables int64
	if err := dc.DB.Model(&models.Table{}).Count(&totalTables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var occupiedTables int64
	if err := dc.DB.Model(&models.Reservation{}).
		Where("reservation_date = ? AND status = ?", date, models.ReservationStatusConfirmed).
		Distinct("table_number").
		Count(&occupiedTables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"reservations_today":    reservationsToday,
		"revenue_today":         revenueToday,
		"total_tables":          totalTables,
		"occupied_tables_today": occupiedTables,
	})
}

// GetTableStatusCounts -> the table status card.
func (dc *DashboardController) GetTableStatusCounts(c *gin.Context) {
	counts := gin.H{}
	for _, status := range []string{
		models.TableStatusAvailable,
		models.TableStatusReserved,
		models.TableStatusOccupied,
		models.TableStatusMaintenance,
	} {
		var n int64
		if err := dc.DB.Model(&models.Table{}).Where("status = ?", status).Count(&n).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		counts[status] = n
	}
	utils.RespondJSON(c, http.StatusOK, "Table status counts", counts)
}

// GetUpcomingReservations -> next confirmed bookings from today onward.
func (dc *DashboardController) GetUpcomingReservations(c *gin.Context) {
	today := time.Now().Format(models.DateLayout)

	var reservations []models.Reservation
	if err := dc.DB.
		Where("reservation_date >= ? AND status = ?", today, models.ReservationStatusConfirmed).
		Order("reservation_date ASC").
		Order("reservation_time ASC").
		Limit(10).
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Upcoming reservations", reservations)
}

// GetRecentCustomers -> the recent customers card.
func (dc *DashboardController) GetRecentCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := dc.DB.Order("created_at DESC").Limit(5).Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent customers", customers)
}
