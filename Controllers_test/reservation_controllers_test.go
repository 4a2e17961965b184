package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/controllers"
	"github.com/sahrati/reservation-backend/models"
	"github.com/sahrati/reservation-backend/services"
	"github.com/sahrati/reservation-backend/utils"
)

func setupTestDBForReservations(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Table{},
		&models.Customer{},
		&models.Reservation{},
		&models.EmailTemplate{},
		&models.EmailLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupReservationRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	availability := services.NewAvailabilityService(db)
	engine := services.NewReservationService(db, availability, nil)
	engine.Picker = services.FirstPicker{}
	engine.DefaultStatus = models.ReservationStatusConfirmed

	reservationCtrl := controllers.NewReservationController(db, engine, availability)
	router.POST("/reservations", reservationCtrl.CreateReservation)
	router.GET("/reservations", reservationCtrl.ListReservations)
	router.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	router.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	router.POST("/reservations/:reservation_id/approve", reservationCtrl.ApproveReservation)
	router.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)
	router.GET("/tables/available", reservationCtrl.GetAvailableTables)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateReservationEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t, "http_create")
	db.Create(&models.Table{TableNumber: 5, Capacity: 4, Status: models.TableStatusAvailable})

	router := setupReservationRouter(db)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"customer_name":    "Lina Haddad",
		"customer_email":   "lina@example.com",
		"reservation_date": "2025-06-20",
		"reservation_time": "18:00",
		"persons":          3,
		"revenue":          80,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Reservation created", response["message"])

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(5), data["table_number"])
	assert.Equal(t, "confirmed", data["status"])

	// The customer was upserted along the way.
	var customer models.Customer
	assert.NoError(t, db.Where("email = ?", "lina@example.com").First(&customer).Error)
}

func TestCreateReservationConflictEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t, "http_conflict")
	db.Create(&models.Table{TableNumber: 5, Capacity: 4, Status: models.TableStatusAvailable})

	router := setupReservationRouter(db)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"customer_name":    "Lina Haddad",
		"customer_email":   "lina@example.com",
		"reservation_date": "2025-06-20",
		"reservation_time": "18:00",
		"persons":          3,
		"table_number":     5,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same table, 30 minutes into the seating window.
	w = postJSON(t, router, "/reservations", map[string]interface{}{
		"customer_name":    "Omar Said",
		"customer_email":   "omar@example.com",
		"reservation_date": "2025-06-20",
		"reservation_time": "18:30",
		"persons":          2,
		"table_number":     5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// No table at all for a party this size.
	w = postJSON(t, router, "/reservations", map[string]interface{}{
		"customer_name":    "Omar Said",
		"customer_email":   "omar@example.com",
		"reservation_date": "2025-06-21",
		"reservation_time": "18:00",
		"persons":          10,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelAndAvailabilityEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t, "http_cancel")
	db.Create(&models.Table{TableNumber: 5, Capacity: 4, Status: models.TableStatusAvailable})

	router := setupReservationRouter(db)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"customer_name":    "Lina Haddad",
		"customer_email":   "lina@example.com",
		"reservation_date": "2025-06-20",
		"reservation_time": "18:00",
		"persons":          3,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	id := response["data"].(map[string]interface{})["id"].(float64)

	// Slot is taken.
	req, _ := http.NewRequest("GET", "/tables/available?date=2025-06-20&time=18:30&persons=2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response["data"])

	// Cancel frees it.
	w = postJSON(t, router, fmt.Sprintf("/reservations/%.0f/cancel", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/tables/available?date=2025-06-20&time=18:30&persons=2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tables := response["data"].([]interface{})
	assert.Len(t, tables, 1)

	// Cancelling again still succeeds.
	w = postJSON(t, router, fmt.Sprintf("/reservations/%.0f/cancel", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Approving a cancelled reservation is rejected.
	w = postJSON(t, router, fmt.Sprintf("/reservations/%.0f/approve", id), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateReservationEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t, "http_update")
	db.Create(&models.Table{TableNumber: 1, Capacity: 4, Status: models.TableStatusAvailable})
	db.Create(&models.Table{TableNumber: 2, Capacity: 4, Status: models.TableStatusAvailable})

	router := setupReservationRouter(db)

	w := postJSON(t, router, "/reservations", map[string]interface{}{
		"customer_name":    "Lina Haddad",
		"customer_email":   "lina@example.com",
		"reservation_date": "2025-06-20",
		"reservation_time": "18:00",
		"persons":          3,
		"table_number":     1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	id := response["data"].(map[string]interface{})["id"].(float64)

	// Move to table 2 and bump the revenue.
	body, _ := json.Marshal(map[string]interface{}{"table_number": 2, "revenue": 95})
	req, _ := http.NewRequest("PATCH", fmt.Sprintf("/reservations/%.0f", id), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["table_number"])
	assert.Equal(t, float64(95), data["revenue"])

	// Moving back fails once the old slot is taken by someone else.
	db.Create(&models.Reservation{
		CustomerEmail: "omar@example.com", CustomerName: "Omar Said",
		ReservationDate: "2025-06-20", ReservationTime: "18:30",
		Persons: 2, TableNumber: 1, Status: models.ReservationStatusConfirmed,
	})
	body, _ = json.Marshal(map[string]interface{}{"table_number": 1})
	req, _ = http.NewRequest("PATCH", fmt.Sprintf("/reservations/%.0f", id), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// An empty patch is rejected.
	body, _ = json.Marshal(map[string]interface{}{})
	req, _ = http.NewRequest("PATCH", fmt.Sprintf("/reservations/%.0f", id), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReservationsEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t, "http_list")
	db.Create(&models.Table{TableNumber: 1, Capacity: 4, Status: models.TableStatusAvailable})
	db.Create(&models.Reservation{
		CustomerEmail: "a@example.com", CustomerName: "A",
		ReservationDate: "2025-06-20", ReservationTime: "18:00",
		Persons: 2, TableNumber: 1, Status: models.ReservationStatusConfirmed,
	})
	db.Create(&models.Reservation{
		CustomerEmail: "b@example.com", CustomerName: "B",
		ReservationDate: "2025-06-22", ReservationTime: "19:00",
		Persons: 2, TableNumber: 1, Status: models.ReservationStatusConfirmed,
	})

	router := setupReservationRouter(db)

	req, _ := http.NewRequest("GET", "/reservations?date=2025-06-20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"], 1)

	req, _ = http.NewRequest("GET", "/reservations?start=2025-06-19&end=2025-06-23", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"], 2)

	// Missing filters are rejected.
	req, _ = http.NewRequest("GET", "/reservations", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
