package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
)

// NotificationInput is the message handed to the dispatcher when a
// reservation is confirmed or cancelled.
type NotificationInput struct {
	ReservationID uint
	ToEmail       string
	CustomerName  string
	Date          string
	Time          string
	Persons       int
	Type          string // models.EmailTypeConfirmation | models.EmailTypeCancel
}

// Notifier is the boundary the allocation engine fires notifications
// through. Delivery is best-effort; the engine never blocks on it.
type Notifier interface {
	Send(input NotificationInput) error
}

const resendEndpoint = "https://api.resend.com/emails"

// Mailer delivers reservation emails through the Resend HTTP API and
// records every attempt in the emails_log table.
type Mailer struct {
	DB       *gorm.DB
	APIKey   string
	Endpoint string
	Client   *http.Client
}

func NewMailer(db *gorm.DB) *Mailer {
	return &Mailer{
		DB:       db,
		APIKey:   os.Getenv("RESEND_API_KEY"),
		Endpoint: resendEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send renders the template for the email type and posts it. The error
// return is for the log only; callers fire Send from a goroutine and
// drop it.
func (m *Mailer) Send(input NotificationInput) error {
	tmpl, err := m.template(input.Type)
	if err != nil {
		m.logAttempt(input, "failed", err.Error())
		return err
	}

	replacer := strings.NewReplacer(
		"{{name}}", input.CustomerName,
		"{{date}}", input.Date,
		"{{time}}", input.Time,
		"{{persons}}", strconv.Itoa(input.Persons),
	)

	payload := resendRequest{
		From:    tmpl.FromEmail,
		To:      []string{input.ToEmail},
		Subject: replacer.Replace(tmpl.Subject),
		HTML:    replacer.Replace(tmpl.BodyHTML),
	}

	if err := m.post(payload); err != nil {
		m.logAttempt(input, "failed", err.Error())
		return err
	}

	m.logAttempt(input, "sent", "")
	return nil
}

func (m *Mailer) post(payload resendRequest) error {
	if m.APIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is not set")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend responded with status %d", resp.StatusCode)
	}
	return nil
}

func (m *Mailer) template(emailType string) (*models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	if err := m.DB.Where("type = ?", emailType).First(&tmpl).Error; err != nil {
		return nil, fmt.Errorf("email template %q not found: %w", emailType, err)
	}
	return &tmpl, nil
}

func (m *Mailer) logAttempt(input NotificationInput, status, info string) {
	entry := models.EmailLog{
		ReservationID: input.ReservationID,
		ToEmail:       input.ToEmail,
		Type:          input.Type,
		Status:        status,
		ResponseInfo:  info,
	}
	if err := m.DB.Create(&entry).Error; err != nil {
		log.Printf("failed to write email log for reservation %d: %v", input.ReservationID, err)
	}
}

// SeedEmailTemplates inserts the default confirmation and cancellation
// templates when none exist yet, so a fresh database can send mail
// before anyone touches the settings page.
func SeedEmailTemplates(db *gorm.DB) error {
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "Sahrati <reservations@sahrati.com>"
	}

	defaults := []models.EmailTemplate{
		{
			Type:      models.EmailTypeConfirmation,
			FromEmail: from,
			Subject:   "Your reservation at Sahrati is confirmed!",
			BodyHTML: "<h1>Reservation Confirmed</h1>" +
				"<p>Hi {{name}},</p>" +
				"<p>Your reservation for {{persons}} people on {{date}} at {{time}} has been confirmed at Sahrati.</p>" +
				"<p>We look forward to serving you!</p>",
		},
		{
			Type:      models.EmailTypeCancel,
			FromEmail: from,
			Subject:   "Your reservation at Sahrati has been cancelled",
			BodyHTML: "<h1>Reservation Cancelled</h1>" +
				"<p>Hi {{name}},</p>" +
				"<p>We regret to inform you that your reservation on {{date}} at {{time}} has been cancelled.</p>" +
				"<p>If this was unintentional, feel free to rebook anytime.</p>",
		},
	}

	for _, tmpl := range defaults {
		if err := db.Where(models.EmailTemplate{Type: tmpl.Type}).
			FirstOrCreate(&tmpl).Error; err != nil {
			return fmt.Errorf("failed to seed %s template: %w", tmpl.Type, err)
		}
	}
	return nil
}
