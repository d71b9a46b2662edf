package controllers

import (
	"net/http"
	"time"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardOverview struct {
	TotalCustomers   int64         `json:"totalCustomers"`
	VisitsThisMonth  int64         `json:"visitsThisMonth"`
	MinutesThisMonth int64         `json:"minutesThisMonth"`
	CustomersDue     int           `json:"customersDue"`
	RecentVisits     []RecentVisit `json:"recentVisits"`
}

type RecentVisit struct {
	CustomerName    string    `json:"customerName"`
	VisitDate       time.Time `json:"visitDate"`
	DurationMinutes int       `json:"durationMinutes"`
}

func GetDashboardOverview(c *gin.Context) {
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

	var totalCustomers int64
	config.DB.Model(&models.Customer{}).
		Where("user_id = ?", accountUUID).
		Count(&totalCustomers)

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var visitsThisMonth int64
	config.DB.Model(&models.ServiceVisit{}).
		Where("user_id = ? AND visit_date >= ?", accountUUID, firstOfMonth).
		Count(&visitsThisMonth)

	var minutesThisMonth int64
	config.DB.Model(&models.ServiceVisit{}).
		Where("user_id = ? AND visit_date >= ?", accountUUID, firstOfMonth).
		Select("COALESCE(SUM(total_duration_minutes), 0)").
		Scan(&minutesThisMonth)

	reminders := services.NewReminderService(config.DB)
	dueCustomers, err := reminders.CustomersDueForService(accountUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute due customers")
		return
	}

	var recent []RecentVisit
	config.DB.Model(&models.ServiceVisit{}).
		Joins("JOIN customers ON customers.id = service_visits.customer_id").
		Where("service_visits.user_id = ?", accountUUID).
		Order("service_visits.visit_date DESC").
		Limit(5).
		Select("customers.name AS customer_name, service_visits.visit_date, service_visits.total_duration_minutes AS duration_minutes").
		Scan(&recent)

	c.JSON(http.StatusOK, DashboardOverview{
		TotalCustomers:   totalCustomers,
		VisitsThisMonth:  visitsThisMonth,
		MinutesThisMonth: minutesThisMonth,
		CustomersDue:     len(dueCustomers),
		RecentVisits:     recent,
	})
}
