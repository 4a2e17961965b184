package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/config"
	"github.com/sahrati/reservation-backend/events"
	"github.com/sahrati/reservation-backend/models"
)

// ReservationInput carries one booking request. TableNumber nil means
// auto-assignment.
type ReservationInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Date          string
	Time          string
	Persons       int
	Revenue       float64
	TableNumber   *int
}

// ReservationService is the allocation engine: it owns every mutation of
// reservation rows. Creation, approval and cancellation all go through
// here; nothing else in the app writes to the reservations table.
type ReservationService struct {
	db           *gorm.DB
	availability *AvailabilityService
	notifier     Notifier

	// Picker selects among eligible tables during auto-assignment.
	// Swap in FirstPicker for deterministic behaviour in tests.
	Picker TablePicker

	// DefaultStatus is the status a fresh booking starts in.
	DefaultStatus string

	locks *slotLocks
}

func NewReservationService(db *gorm.DB, availability *AvailabilityService, notifier Notifier) *ReservationService {
	return &ReservationService{
		db:            db,
		availability:  availability,
		notifier:      notifier,
		Picker:        RandomPicker{},
		DefaultStatus: config.DefaultReservationStatus(),
		locks:         newSlotLocks(),
	}
}

// CreateReservation books a table for the requested slot. With an
// explicit table choice the table is revalidated at call time; without
// one an eligible table is picked by the configured strategy. The busy
// re-check and the insert run under a per-(table, date) lock so two
// concurrent requests can never both claim the same slot.
func (s *ReservationService) CreateReservation(input ReservationInput) (*models.Reservation, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	var res *models.Reservation
	var err error
	if input.TableNumber != nil {
		res, err = s.createWithChosenTable(input, *input.TableNumber)
	} else {
		res, err = s.createWithAutoAssign(input)
	}
	if err != nil {
		return nil, err
	}

	if res.Status == models.ReservationStatusConfirmed {
		s.notifyAsync(res, models.EmailTypeConfirmation)
	}
	events.BroadcastReservationCreate(*res)
	events.BroadcastDashboardUpdate(map[string]string{"date": res.ReservationDate})

	log.Printf("Reservation %d created: table %d on %s %s for %d (status=%s)",
		res.ID, res.TableNumber, res.ReservationDate, res.ReservationTime, res.Persons, res.Status)
	return res, nil
}

// ApproveReservation moves a pending reservation to confirmed. Approving
// an already confirmed reservation is a no-op success; a cancelled one
// cannot come back.
func (s *ReservationService) ApproveReservation(id uint) error {
	var res models.Reservation
	if err := s.db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return err
	}

	switch res.Status {
	case models.ReservationStatusConfirmed:
		return nil
	case models.ReservationStatusCancelled:
		return fmt.Errorf("%w: reservation %d is cancelled", ErrInvalidTransition, id)
	}

	// Approval makes the reservation count against the table's slot, so
	// the no-overlap invariant has to be re-checked under the same lock
	// creation uses.
	lock := s.locks.lock(res.TableNumber, res.ReservationDate)
	defer lock.Unlock()

	reqMinutes, err := minutesOfDay(res.ReservationTime)
	if err != nil {
		return fmt.Errorf("%w: bad time %q", ErrInvalidInput, res.ReservationTime)
	}
	taken, err := s.availability.slotTaken(res.TableNumber, res.ReservationDate, reqMinutes)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: table %d already confirmed around %s",
			ErrTableConflict, res.TableNumber, res.ReservationTime)
	}

	res.Status = models.ReservationStatusConfirmed
	if err := s.db.Save(&res).Error; err != nil {
		return fmt.Errorf("failed to approve reservation %d: %w", id, err)
	}

	s.notifyAsync(&res, models.EmailTypeConfirmation)
	events.BroadcastReservationUpdate(res)
	events.BroadcastDashboardUpdate(map[string]string{"date": res.ReservationDate})
	log.Printf("Reservation %d approved", id)
	return nil
}

// CancelReservation moves a reservation to cancelled, the terminal
// state. Cancelling twice is a no-op success. The freed slot reappears in
// availability automatically since availability is computed from live
// confirmed rows.
func (s *ReservationService) CancelReservation(id uint) error {
	var res models.Reservation
	if err := s.db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return err
	}

	if res.Status == models.ReservationStatusCancelled {
		return nil
	}

	res.Status = models.ReservationStatusCancelled
	if err := s.db.Save(&res).Error; err != nil {
		return fmt.Errorf("failed to cancel reservation %d: %w", id, err)
	}

	s.notifyAsync(&res, models.EmailTypeCancel)
	events.BroadcastReservationUpdate(res)
	events.BroadcastDashboardUpdate(map[string]string{"date": res.ReservationDate})
	log.Printf("Reservation %d cancelled", id)
	return nil
}

// ReservationUpdate carries the editable fields of an existing booking.
// Nil fields are left unchanged.
type ReservationUpdate struct {
	TableNumber *int
	Revenue     *float64
}

// UpdateReservation edits a live booking: move it to another table or
// adjust the recorded revenue. A table move revalidates the destination
// under its slot lock; the old slot frees itself since availability is
// computed from live rows.
func (s *ReservationService) UpdateReservation(id uint, upd ReservationUpdate) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.db.First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return nil, err
	}

	if res.Status == models.ReservationStatusCancelled {
		return nil, fmt.Errorf("%w: reservation %d is cancelled", ErrInvalidTransition, id)
	}

	if upd.Revenue != nil {
		if *upd.Revenue < 0 {
			return nil, fmt.Errorf("%w: revenue cannot be negative", ErrInvalidInput)
		}
		res.Revenue = *upd.Revenue
	}

	if upd.TableNumber != nil && *upd.TableNumber != res.TableNumber {
		lock := s.locks.lock(*upd.TableNumber, res.ReservationDate)
		defer lock.Unlock()

		if _, err := s.availability.CheckTable(*upd.TableNumber, res.ReservationDate, res.ReservationTime, res.Persons); err != nil {
			return nil, err
		}
		res.TableNumber = *upd.TableNumber
	}

	if err := s.db.Save(&res).Error; err != nil {
		return nil, fmt.Errorf("failed to update reservation %d: %w", id, err)
	}

	events.BroadcastReservationUpdate(res)
	events.BroadcastDashboardUpdate(map[string]string{"date": res.ReservationDate})
	log.Printf("Reservation %d updated: table %d, revenue %.2f", id, res.TableNumber, res.Revenue)
	return &res, nil
}

func (s *ReservationService) createWithChosenTable(input ReservationInput, tableNumber int) (*models.Reservation, error) {
	lock := s.locks.lock(tableNumber, input.Date)
	defer lock.Unlock()

	if _, err := s.availability.CheckTable(tableNumber, input.Date, input.Time, input.Persons); err != nil {
		return nil, err
	}
	return s.insert(input, tableNumber)
}

func (s *ReservationService) createWithAutoAssign(input ReservationInput) (*models.Reservation, error) {
	candidates, err := s.availability.AvailableTables(input.Date, input.Time, input.Persons)
	if err != nil {
		return nil, err
	}

	// The picked table may be taken between the candidate query and the
	// lock acquisition; drop it and try the next pick.
	for len(candidates) > 0 {
		idx := s.Picker.Pick(candidates)
		table := candidates[idx]

		lock := s.locks.lock(table.TableNumber, input.Date)
		if _, err := s.availability.CheckTable(table.TableNumber, input.Date, input.Time, input.Persons); err != nil {
			lock.Unlock()
			if errors.Is(err, ErrTableConflict) {
				candidates = append(candidates[:idx], candidates[idx+1:]...)
				continue
			}
			return nil, err
		}

		res, err := s.insert(input, table.TableNumber)
		lock.Unlock()
		return res, err
	}

	return nil, fmt.Errorf("%w: no table seats %d at %s %s",
		ErrNoTableAvailable, input.Persons, input.Date, input.Time)
}

// insert writes the customer upsert and the reservation row in one
// transaction, so a failure leaves both stores untouched.
func (s *ReservationService) insert(input ReservationInput, tableNumber int) (*models.Reservation, error) {
	res := models.Reservation{
		CustomerEmail:   input.CustomerEmail,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		ReservationDate: input.Date,
		ReservationTime: input.Time,
		Persons:         input.Persons,
		TableNumber:     tableNumber,
		Revenue:         input.Revenue,
		Status:          s.DefaultStatus,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.upsertCustomer(tx, input); err != nil {
			return err
		}
		return tx.Create(&res).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return &res, nil
}

// upsertCustomer guarantees one customer row per email. An existing row
// is reused untouched; name and phone on it are never overwritten by a
// later booking.
func (s *ReservationService) upsertCustomer(tx *gorm.DB, input ReservationInput) error {
	customer := models.Customer{
		FullName: input.CustomerName,
		Email:    input.CustomerEmail,
		Phone:    input.CustomerPhone,
	}
	err := tx.
		Where(models.Customer{Email: input.CustomerEmail}).
		FirstOrCreate(&customer).Error
	if err != nil {
		// Two first-time bookings for one email can race the unique
		// index; the loser just reuses the winner's row.
		if ferr := tx.Where("email = ?", input.CustomerEmail).First(&customer).Error; ferr == nil {
			return nil
		}
		return fmt.Errorf("failed to upsert customer %s: %w", input.CustomerEmail, err)
	}
	return nil
}

func (s *ReservationService) validateInput(input *ReservationInput) error {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)

	if input.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if input.CustomerEmail == "" || !strings.Contains(input.CustomerEmail, "@") {
		return fmt.Errorf("%w: valid customer email is required", ErrInvalidInput)
	}
	if input.Revenue < 0 {
		return fmt.Errorf("%w: revenue cannot be negative", ErrInvalidInput)
	}
	if _, err := s.availability.validateSlot(input.Date, input.Time, input.Persons); err != nil {
		return err
	}
	return nil
}

// notifyAsync fires the notification without blocking the booking flow.
// Delivery failures are logged by the mailer and never reach the caller.
func (s *ReservationService) notifyAsync(res *models.Reservation, emailType string) {
	if s.notifier == nil {
		return
	}
	in := NotificationInput{
		ReservationID: res.ID,
		ToEmail:       res.CustomerEmail,
		CustomerName:  res.CustomerName,
		Date:          res.ReservationDate,
		Time:          res.ReservationTime,
		Persons:       res.Persons,
		Type:          emailType,
	}
	go func() {
		if err := s.notifier.Send(in); err != nil {
			log.Printf("notification for reservation %d failed: %v", in.ReservationID, err)
		}
	}()
}
