package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/events"
	"github.com/sahrati/reservation-backend/models"
	"github.com/sahrati/reservation-backend/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> add a new table to the floor.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber int    `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
		Status      string `json:"status"` // optional, default "available"
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be at least 1"))
		return
	}
	if req.Status != "" && !models.ValidTableStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown table status"))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      models.TableStatusAvailable,
	}
	if req.Status != "" {
		table.Status = req.Status
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("New table created: %d (capacity=%d, status=%s)", table.TableNumber, table.Capacity, table.Status)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> the full catalog, ordered by table number.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTableStatus -> operator override of the status flag. This is the
// only table write outside the engine; availability itself is computed
// from reservations, so flipping reserved/occupied here never blocks a
// booking. Setting maintenance does.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableNumber, err := strconv.Atoi(c.Param("table_number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table number must be a number"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidTableStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown table status"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table.Status = body.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(table)
	events.BroadcastDashboardUpdate(nil)
	utils.InfoLogger.Printf("Table %d status changed to %s", table.TableNumber, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// GetTableByNumber -> detail plus that table's reservations for a date.
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	tableNumber, err := strconv.Atoi(c.Param("table_number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table number must be a number"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	data := gin.H{"table": table}
	if date := c.Query("date"); date != "" {
		var reservations []models.Reservation
		if err := tc.DB.
			Where("table_number = ? AND reservation_date = ?", tableNumber, date).
			Order("reservation_time ASC").
			Find(&reservations).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		data["reservations"] = reservations
	}

	utils.RespondJSON(c, http.StatusOK, "Table detail", data)
}

// DeleteTable refuses while reservations still reference the table.
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableNumber, err := strconv.Atoi(c.Param("table_number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table number must be a number"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var refs int64
	if err := tc.DB.Model(&models.Reservation{}).
		Where("table_number = ?", tableNumber).
		Count(&refs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if refs > 0 {
		utils.RespondError(c, http.StatusConflict,
			errors.New("table still has reservations referencing it"))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"table_number": table.TableNumber})
}
