package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
	"github.com/sahrati/reservation-backend/services"
	"github.com/sahrati/reservation-backend/utils"
)

type ReservationController struct {
	DB      *gorm.DB
	Engine  *services.ReservationService
	Resolve *services.AvailabilityService
}

func NewReservationController(db *gorm.DB, engine *services.ReservationService, resolve *services.AvailabilityService) *ReservationController {
	return &ReservationController{DB: db, Engine: engine, Resolve: resolve}
}

// CreateReservation books a table. Omitting table_number lets the engine
// pick one; providing it asks for that exact table.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		CustomerName  string  `json:"customer_name" binding:"required"`
		CustomerEmail string  `json:"customer_email" binding:"required,email"`
		CustomerPhone *string `json:"customer_phone"`
		Date          string  `json:"reservation_date" binding:"required"`
		Time          string  `json:"reservation_time" binding:"required"`
		Persons       int     `json:"persons" binding:"required"`
		Revenue       float64 `json:"revenue"`
		TableNumber   *int    `json:"table_number"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := rc.Engine.CreateReservation(services.ReservationInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Date:          req.Date,
		Time:          req.Time,
		Persons:       req.Persons,
		Revenue:       req.Revenue,
		TableNumber:   req.TableNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %d booked for %s (table %d)", res.ID, res.CustomerEmail, res.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", res)
}

// UpdateReservation edits an existing booking: move it to another table
// or adjust the recorded revenue.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, err := reservationID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		TableNumber *int     `json:"table_number"`
		Revenue     *float64 `json:"revenue"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.TableNumber == nil && req.Revenue == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	res, err := rc.Engine.UpdateReservation(id, services.ReservationUpdate{
		TableNumber: req.TableNumber,
		Revenue:     req.Revenue,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %d updated (table %d)", res.ID, res.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", res)
}

// ApproveReservation -> pending becomes confirmed.
func (rc *ReservationController) ApproveReservation(c *gin.Context) {
	id, err := reservationID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.Engine.ApproveReservation(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation approved", gin.H{"id": id})
}

// CancelReservation -> any non-terminal status becomes cancelled.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := reservationID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.Engine.CancelReservation(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{"id": id})
}

// GetAvailableTables answers the booking form's dropdown: which tables
// can seat the party at the requested slot.
func (rc *ReservationController) GetAvailableTables(c *gin.Context) {
	date := c.Query("date")
	timeStr := c.Query("time")
	persons, err := strconv.Atoi(c.DefaultQuery("persons", "1"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("persons must be a number"))
		return
	}

	tables, err := rc.Resolve.AvailableTables(date, timeStr, persons)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}

// ListReservations supports the calendar views: a single date, a date
// range, or one table's bookings on a date.
func (rc *ReservationController) ListReservations(c *gin.Context) {
	query := rc.DB.Model(&models.Reservation{}).
		Order("reservation_date ASC").
		Order("reservation_time ASC")

	date := c.Query("date")
	start := c.Query("start")
	end := c.Query("end")
	tableStr := c.Query("table")

	switch {
	case tableStr != "" && date != "":
		tableNumber, err := strconv.Atoi(tableStr)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("table must be a number"))
			return
		}
		query = query.Where("table_number = ? AND reservation_date = ?", tableNumber, date)
	case date != "":
		query = query.Where("reservation_date = ?", date)
	case start != "" && end != "":
		query = query.Where("reservation_date >= ? AND reservation_date <= ?", start, end)
	default:
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("provide date, start+end, or table+date"))
		return
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID -> detail for the reservation modal.
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, err := reservationID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var res models.Reservation
	if err := rc.DB.First(&res, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", res)
}

func reservationID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("reservation_id"), 10, 32)
	if err != nil {
		return 0, errors.New("reservation id must be a number")
	}
	return uint(id), nil
}
