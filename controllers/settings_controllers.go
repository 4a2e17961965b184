package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/models"
	"github.com/sahrati/reservation-backend/utils"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// GetEmailTemplates -> both templates for the settings page.
func (sc *SettingsController) GetEmailTemplates(c *gin.Context) {
	var templates []models.EmailTemplate
	if err := sc.DB.Order("type ASC").Find(&templates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Email templates", templates)
}

// UpdateEmailTemplate edits sender, subject or body of one template.
func (sc *SettingsController) UpdateEmailTemplate(c *gin.Context) {
	emailType := c.Param("type")
	if emailType != models.EmailTypeConfirmation && emailType != models.EmailTypeCancel {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown template type"))
		return
	}

	var req struct {
		FromEmail string `json:"from_email"`
		Subject   string `json:"subject"`
		BodyHTML  string `json:"body_html"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tmpl models.EmailTemplate
	if err := sc.DB.Where("type = ?", emailType).First(&tmpl).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.FromEmail != "" {
		tmpl.FromEmail = req.FromEmail
	}
	if req.Subject != "" {
		tmpl.Subject = req.Subject
	}
	if req.BodyHTML != "" {
		tmpl.BodyHTML = req.BodyHTML
	}

	if err := sc.DB.Save(&tmpl).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Email template %s updated", emailType)
	utils.RespondJSON(c, http.StatusOK, "Email template updated", tmpl)
}

// GetEmailLogs -> delivery history for a reservation.
func (sc *SettingsController) GetEmailLogs(c *gin.Context) {
	query := sc.DB.Model(&models.EmailLog{}).Order("created_at DESC")
	if id := c.Query("reservation_id"); id != "" {
		query = query.Where("reservation_id = ?", id)
	}

	var logs []models.EmailLog
	if err := query.Limit(100).Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Email logs", logs)
}
