package models

import "time"

// Email types sent by the mailer.
const (
	EmailTypeConfirmation = "confirmation"
	EmailTypeCancel       = "cancel"
)

// EmailTemplate holds the editable templates from the settings page.
// BodyHTML supports {{name}}, {{date}}, {{time}} and {{persons}} tokens.
type EmailTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"type"`
	FromEmail string    `gorm:"type:varchar(255);not null" json:"from_email"`
	Subject   string    `gorm:"type:varchar(255);not null" json:"subject"`
	BodyHTML  string    `gorm:"type:text;not null" json:"body_html"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// EmailLog records every delivery attempt, successful or not. Delivery is
// best-effort; the log is the only place failures are visible.
type EmailLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID uint      `gorm:"not null;index" json:"reservation_id"`
	ToEmail       string    `gorm:"type:varchar(255);not null" json:"to_email"`
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`
	Status        string    `gorm:"type:varchar(20);not null" json:"status"` // sent | failed
	ResponseInfo  string    `gorm:"type:text" json:"response_info"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
