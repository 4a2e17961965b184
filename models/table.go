package models

import "time"

// Table statuses. Maintenance tables are never offered for booking;
// the other statuses are operational flags set by staff.
const (
	TableStatusAvailable   = "available"
	TableStatusReserved    = "reserved"
	TableStatusOccupied    = "occupied"
	TableStatusMaintenance = "maintenance"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"uniqueIndex;not null" json:"table_number"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Status      string    `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// ValidTableStatus reports whether s is one of the known table statuses.
func ValidTableStatus(s string) bool {
	switch s {
	case TableStatusAvailable, TableStatusReserved, TableStatusOccupied, TableStatusMaintenance:
		return true
	}
	return false
}
