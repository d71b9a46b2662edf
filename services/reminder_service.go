// services/reminder_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendServiceDueReminders)

	c.Start()
	log.Println("Service-due reminder scheduler started")
}

func (s *ReminderService) SendServiceDueReminders() {
	log.Println("Starting service-due reminder processing...")

	var accounts []models.User
	if err := s.db.Find(&accounts, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch accounts: %v", err)
		return
	}

	for _, account := range accounts {
		s.ProcessAccountReminders(account.ID)
	}

	log.Println("Service-due reminder processing completed")
}

func (s *ReminderService) ProcessAccountReminders(accountID uuid.UUID) {
	dueCustomers, err := s.CustomersDueForService(accountID)
	if err != nil {
		log.Printf("Account %s: Failed to get due customers: %v", accountID, err)
		return
	}

	s.sendReminders(accountID, dueCustomers)
}

// CustomersDueForService returns the account's customers whose last visit is
// at least service_interval_days ago. A customer with no visits yet is
// measured from its creation date.
func (s *ReminderService) CustomersDueForService(accountID uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.
		Where("user_id = ? AND is_active = ? AND service_interval_days IS NOT NULL", accountID, true).
		Find(&customers).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	var due []models.Customer
	for _, customer := range customers {
		lastVisit := customer.CreatedAt
		var visit models.ServiceVisit
		err := s.db.Where("customer_id = ?", customer.ID).
			Order("visit_date DESC").
			First(&visit).Error
		if err == nil {
			lastVisit = visit.VisitDate
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Account %s: Failed to read last visit for customer %s: %v",
				accountID, customer.ID, err)
			continue
		}

		if utils.DaysBetween(lastVisit, now) >= *customer.ServiceIntervalDays {
			due = append(due, customer)
		}
	}

	return due, nil
}

func (s *ReminderService) sendReminders(accountID uuid.UUID, customers []models.Customer) {
	for _, customer := range customers {
		message := fmt.Sprintf(
			"Hi %s, it's been a while since your last service visit. Reply to this message to schedule your next one!",
			customer.Name)

		// WhatsApp if the phone is in E.164 format, else plain SMS
		channel := "sms"
		var to string
		if strings.HasPrefix(customer.Phone, "+") {
			to = "whatsapp:" + customer.Phone
			channel = "whatsapp"
		} else {
			to = customer.Phone
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetBody(message)

		if channel == "whatsapp" {
			params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
		} else {
			params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
		}

		resp, err := s.client.Api.CreateMessage(params)
		status := "sent"
		errorMsg := ""

		if err != nil {
			log.Printf("Failed to send reminder to %s: %v", customer.Phone, err)
			status = "failed"
			errorMsg = err.Error()
		} else if resp.Sid != nil {
			log.Printf("Reminder sent to %s, SID: %s", customer.Phone, *resp.Sid)
		} else {
			log.Printf("Reminder sent to %s, but no SID returned", customer.Phone)
		}

		reminderLog := models.ReminderLog{
			UserID:       accountID,
			CustomerID:   customer.ID,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       time.Now(),
		}

		if err := s.db.Create(&reminderLog).Error; err != nil {
			log.Printf("Failed to log reminder for customer %s: %v", customer.ID, err)
		}
	}
}
