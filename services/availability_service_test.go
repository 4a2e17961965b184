package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
)

// setupServiceDB opens a named in-memory SQLite database so each test
// gets its own isolated store.
func setupServiceDB(t *testing.T, name string) *gorm.DB {
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

func seedTables(t *testing.T, db *gorm.DB, tables ...models.Table) {
	t.Helper()
	for i := range tables {
		if err := db.Create(&tables[i]).Error; err != nil {
			t.Fatalf("failed to seed table: %v", err)
		}
	}
}

func seedReservation(t *testing.T, db *gorm.DB, tableNumber int, date, timeStr, status string) models.Reservation {
	t.Helper()
	res := models.Reservation{
		CustomerEmail:   "seed@example.com",
		CustomerName:    "Seed Customer",
		ReservationDate: date,
		ReservationTime: timeStr,
		Persons:         2,
		TableNumber:     tableNumber,
		Status:          status,
	}
	if err := db.Create(&res).Error; err != nil {
		t.Fatalf("failed to seed reservation: %v", err)
	}
	return res
}

func TestAvailableTablesFiltersCapacityAndMaintenance(t *testing.T) {
	db := setupServiceDB(t, "avail_filters")
	seedTables(t, db,
		models.Table{TableNumber: 1, Capacity: 2, Status: models.TableStatusAvailable},
		models.Table{TableNumber: 2, Capacity: 4, Status: models.TableStatusAvailable},
		models.Table{TableNumber: 3, Capacity: 6, Status: models.TableStatusMaintenance},
		models.Table{TableNumber: 4, Capacity: 6, Status: models.TableStatusOccupied},
	)

	svc := NewAvailabilityService(db)
	tables, err := svc.AvailableTables("2025-06-20", "18:00", 4)
	assert.NoError(t, err)

	// Table 1 is too small, table 3 is under maintenance. Table 4 stays
	// eligible: occupied is an operational flag, not a booking block.
	numbers := tableNumbers(tables)
	assert.Equal(t, []int{2, 4}, numbers)
}

func TestAvailableTablesExcludesOverlappingConfirmed(t *testing.T) {
	db := setupServiceDB(t, "avail_overlap")
	seedTables(t, db,
		models.Table{TableNumber: 1, Capacity: 4, Status: models.TableStatusAvailable},
		models.Table{TableNumber: 2, Capacity: 4, Status: models.TableStatusAvailable},
	)
	seedReservation(t, db, 1, "2025-06-20", "18:00", models.ReservationStatusConfirmed)

	svc := NewAvailabilityService(db)

	// 18:30 falls inside table 1's 2-hour seating window.
	tables, err := svc.AvailableTables("2025-06-20", "18:30", 2)
	assert.NoError(t, err)
	assert.Equal(t, []int{2}, tableNumbers(tables))

	// 19:59 is still inside the window.
	tables, err = svc.AvailableTables("2025-06-20", "19:59", 2)
	assert.NoError(t, err)
	assert.Equal(t, []int{2}, tableNumbers(tables))

	// 20:00 is the first minute outside it.
	tables, err = svc.AvailableTables("2025-06-20", "20:00", 2)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, tableNumbers(tables))

	// The window also blocks earlier requests that would run into 18:00.
	tables, err = svc.AvailableTables("2025-06-20", "16:30", 2)
	assert.NoError(t, err)
	assert.Equal(t, []int{2}, tableNumbers(tables))

	// A different date is unaffected.
	tables, err = svc.AvailableTables("2025-06-21", "18:00", 2)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, tableNumbers(tables))
}

func TestAvailableTablesIgnoresPendingAndCancelled(t *testing.T) {
	db := setupServiceDB(t, "avail_status")
	seedTables(t, db,
		models.Table{TableNumber: 1, Capacity: 4, Status: models.TableStatusAvailable},
	)
	seedReservation(t, db, 1, "2025-06-20", "18:00", models.ReservationStatusPending)
	seedReservation(t, db, 1, "2025-06-20", "18:30", models.ReservationStatusCancelled)

	svc := NewAvailabilityService(db)
	tables, err := svc.AvailableTables("2025-06-20", "18:00", 2)
	assert.NoError(t, err)
	assert.Equal(t, []int{1}, tableNumbers(tables))
}

func TestAvailableTablesValidatesInput(t *testing.T) {
	db := setupServiceDB(t, "avail_validate")
	svc := NewAvailabilityService(db)

	_, err := svc.AvailableTables("2025-06-20", "18:00", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AvailableTables("20-06-2025", "18:00", 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AvailableTables("2025-06-20", "6pm", 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckTableConflicts(t *testing.T) {
	db := setupServiceDB(t, "check_table")
	seedTables(t, db,
		models.Table{TableNumber: 5, Capacity: 4, Status: models.TableStatusAvailable},
		models.Table{TableNumber: 6, Capacity: 2, Status: models.TableStatusMaintenance},
	)
	seedReservation(t, db, 5, "2025-06-20", "18:00", models.ReservationStatusConfirmed)

	svc := NewAvailabilityService(db)

	_, err := svc.CheckTable(5, "2025-06-20", "18:30", 2)
	assert.ErrorIs(t, err, ErrTableConflict)

	_, err = svc.CheckTable(5, "2025-06-20", "21:00", 6)
	assert.ErrorIs(t, err, ErrTableConflict) // capacity

	_, err = svc.CheckTable(6, "2025-06-20", "21:00", 2)
	assert.ErrorIs(t, err, ErrTableConflict) // maintenance

	_, err = svc.CheckTable(99, "2025-06-20", "21:00", 2)
	assert.ErrorIs(t, err, ErrNotFound)

	table, err := svc.CheckTable(5, "2025-06-20", "21:00", 4)
	assert.NoError(t, err)
	assert.Equal(t, 5, table.TableNumber)
}

func TestIntervalsOverlap(t *testing.T) {
	cases := []struct {
		a, b, dur int
		want      bool
	}{
		{1080, 1080, 120, true},  // same minute
		{1080, 1110, 120, true},  // 30 min apart
		{1080, 1199, 120, true},  // one minute short of the window
		{1080, 1200, 120, false}, // exactly the window apart
		{1200, 1080, 120, false}, // symmetric
		{1080, 1110, 30, false},  // shorter seating duration
	}
	for _, tc := range cases {
		got := intervalsOverlap(tc.a, tc.b, tc.dur)
		assert.Equal(t, tc.want, got, "a=%d b=%d dur=%d", tc.a, tc.b, tc.dur)
	}
}

func tableNumbers(tables []models.Table) []int {
	numbers := make([]int, 0, len(tables))
	for _, t := range tables {
		numbers = append(numbers, t.TableNumber)
	}
	return numbers
}
