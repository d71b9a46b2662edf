package controllers

import (
	"errors"
	"net/http"
	"time"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddTimeEntryInput defines the expected JSON structure for logging time
type AddTimeEntryInput struct {
	EntryDate       *time.Time `json:"date"`
	DurationMinutes *int       `json:"durationMinutes"`
	Description     string     `json:"description"`
}

// AddTimeEntry logs time against a visit and refreshes the visit's total
// duration in the same transaction.
func AddTimeEntry(c *gin.Context) {
	accountID, exists := c.Get("accountId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account ID not found in context")
		return
	}

	accountUUID, err := uuid.Parse(accountID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid account ID format")
		return
	}

	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var input AddTimeEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// All validation happens before the transaction opens
	if input.EntryDate == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Date is required")
		return
	}
	if input.DurationMinutes == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Duration is required")
		return
	}
	if *input.DurationMinutes < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Duration cannot be negative")
		return
	}

	visit, err := services.ScopedVisit(config.DB, accountUUID, visitUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	entry := models.TimeEntry{
		EntryDate:       *input.EntryDate,
		DurationMinutes: *input.DurationMinutes,
		Description:     input.Description,
	}

	if err := services.RecordTimeEntry(config.DB, visit.ID, &entry); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record time entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetTimeEntries lists a visit's time entries
func GetTimeEntries(c *gin.Context) {
	accountID, exists := c.Get("accountId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account ID not found in context")
		return
	}

	accountUUID, err := uuid.Parse(accountID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid account ID format")
		return
	}

	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	if _, err := services.ScopedVisit(config.DB, accountUUID, visitUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var entries []models.TimeEntry
	if err := config.DB.Where("service_visit_id = ?", visitUUID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve time entries")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// DeleteTimeEntry removes a time entry and refreshes the visit's total
// duration in the same transaction.
func DeleteTimeEntry(c *gin.Context) {
	accountID, exists := c.Get("accountId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account ID not found in context")
		return
	}

	accountUUID, err := uuid.Parse(accountID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid account ID format")
		return
	}

	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	entryUUID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time entry ID format")
		return
	}

	if _, err := services.ScopedTimeEntry(config.DB, accountUUID, visitUUID, entryUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Time entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := services.RemoveTimeEntry(config.DB, visitUUID, entryUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Time entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete time entry")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Time entry deleted successfully"})
}
