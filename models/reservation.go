package models

import "time"

// Reservation statuses.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// Layouts for the date and time columns. Dates and times are stored as
// plain strings ('YYYY-MM-DD' / 'HH:MM') in the venue's local calendar.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Reservation denormalizes the customer fields at booking time so that a
// later customer edit never rewrites booking history.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CustomerEmail   string    `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	CustomerName    string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   *string   `gorm:"type:varchar(50)" json:"customer_phone,omitempty"`
	ReservationDate string    `gorm:"type:varchar(10);not null;index:idx_table_slot" json:"reservation_date"`
	ReservationTime string    `gorm:"type:varchar(5);not null" json:"reservation_time"`
	Persons         int       `gorm:"not null" json:"persons"`
	TableNumber     int       `gorm:"not null;index:idx_table_slot" json:"table_number"`
	Revenue         float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"revenue"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}
