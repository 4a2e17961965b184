package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/config"
	"github.com/sahrati/reservation-backend/models"
)

// AvailabilityService answers "which tables can seat this party at this
// slot". It is read-only: availability always derives from live
// reservation rows, never from the cached table status column. The only
// table status it honors is maintenance, which removes a table from the
// candidate set entirely.
type AvailabilityService struct {
	db              *gorm.DB
	SeatingDuration int // minutes a table stays occupied per reservation
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{
		db:              db,
		SeatingDuration: config.SeatingDurationMinutes(),
	}
}

// AvailableTables returns every table with enough seats that has no
// confirmed reservation overlapping the requested seating interval,
// ordered by table number for determinism.
func (s *AvailabilityService) AvailableTables(date, timeStr string, persons int) ([]models.Table, error) {
	reqMinutes, err := s.validateSlot(date, timeStr, persons)
	if err != nil {
		return nil, err
	}

	busy, err := s.busyTables(date, reqMinutes)
	if err != nil {
		return nil, err
	}

	var candidates []models.Table
	if err := s.db.
		Where("capacity >= ? AND status <> ?", persons, models.TableStatusMaintenance).
		Order("table_number ASC").
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	available := make([]models.Table, 0, len(candidates))
	for _, t := range candidates {
		if !busy[t.TableNumber] {
			available = append(available, t)
		}
	}
	return available, nil
}

// CheckTable revalidates one explicitly chosen table for a slot. It
// returns ErrNotFound when the table does not exist and ErrTableConflict
// when the table cannot take the booking anymore.
func (s *AvailabilityService) CheckTable(tableNumber int, date, timeStr string, persons int) (*models.Table, error) {
	reqMinutes, err := s.validateSlot(date, timeStr, persons)
	if err != nil {
		return nil, err
	}

	var table models.Table
	if err := s.db.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: table %d", ErrNotFound, tableNumber)
		}
		return nil, err
	}

	if table.Status == models.TableStatusMaintenance {
		return nil, fmt.Errorf("%w: table %d is under maintenance", ErrTableConflict, tableNumber)
	}
	if table.Capacity < persons {
		return nil, fmt.Errorf("%w: table %d seats %d, party of %d", ErrTableConflict, tableNumber, table.Capacity, persons)
	}

	taken, err := s.slotTaken(tableNumber, date, reqMinutes)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: table %d already booked around %s", ErrTableConflict, tableNumber, timeStr)
	}
	return &table, nil
}

// busyTables collects the table numbers holding a confirmed reservation
// whose seating interval overlaps the requested one on that date.
func (s *AvailabilityService) busyTables(date string, reqMinutes int) (map[int]bool, error) {
	var rows []models.Reservation
	if err := s.db.
		Select("table_number, reservation_time").
		Where("reservation_date = ? AND status = ?", date, models.ReservationStatusConfirmed).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	busy := make(map[int]bool)
	for _, r := range rows {
		m, err := minutesOfDay(r.ReservationTime)
		if err != nil {
			log.Printf("skipping reservation with malformed time %q on %s", r.ReservationTime, date)
			continue
		}
		if intervalsOverlap(reqMinutes, m, s.SeatingDuration) {
			busy[r.TableNumber] = true
		}
	}
	return busy, nil
}

// slotTaken reports whether a single table has an overlapping confirmed
// reservation for the slot.
func (s *AvailabilityService) slotTaken(tableNumber int, date string, reqMinutes int) (bool, error) {
	var rows []models.Reservation
	if err := s.db.
		Select("reservation_time").
		Where("table_number = ? AND reservation_date = ? AND status = ?",
			tableNumber, date, models.ReservationStatusConfirmed).
		Find(&rows).Error; err != nil {
		return false, fmt.Errorf("failed to load reservations for table %d: %w", tableNumber, err)
	}
	for _, r := range rows {
		m, err := minutesOfDay(r.ReservationTime)
		if err != nil {
			continue
		}
		if intervalsOverlap(reqMinutes, m, s.SeatingDuration) {
			return true, nil
		}
	}
	return false, nil
}

func (s *AvailabilityService) validateSlot(date, timeStr string, persons int) (int, error) {
	if persons < 1 {
		return 0, fmt.Errorf("%w: party size must be at least 1", ErrInvalidInput)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return 0, fmt.Errorf("%w: bad date %q", ErrInvalidInput, date)
	}
	reqMinutes, err := minutesOfDay(timeStr)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidInput, timeStr)
	}
	return reqMinutes, nil
}

func minutesOfDay(timeStr string) (int, error) {
	t, err := time.Parse(models.TimeLayout, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// intervalsOverlap reports whether two seating intervals of the same
// duration, starting at minutes a and b of the day, intersect.
func intervalsOverlap(a, b, duration int) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < duration
}
