package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name                string  `json:"name" binding:"required"`
	Phone               string  `json:"phone" binding:"required"`
	Address             string  `json:"address" binding:"required"`
	Email               *string `json:"email"` // Pointer to allow null
	ServiceIntervalDays *int    `json:"serviceInterval"`
	Notes               string  `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name                *string `json:"name"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	Email               *string `json:"email"`
	ServiceIntervalDays *int    `json:"serviceInterval"`
	Notes               *string `json:"notes"`
	IsActive            *bool   `json:"isActive"`
}

// CustomerWithVisitCount is a customer row plus a read-side visit count
type CustomerWithVisitCount struct {
	models.Customer
	VisitCount int64 `json:"visitCount"`
}

// CreateCustomer creates a new customer for the account
func CreateCustomer(c *gin.Context) {
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

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	name, empty := utils.TrimmedOrEmpty(input.Name)
	if empty {
		utils.RespondWithError(c, http.StatusBadRequest, "Name is required")
		return
	}
	phone, empty := utils.TrimmedOrEmpty(input.Phone)
	if empty {
		utils.RespondWithError(c, http.StatusBadRequest, "Phone is required")
		return
	}
	address, empty := utils.TrimmedOrEmpty(input.Address)
	if empty {
		utils.RespondWithError(c, http.StatusBadRequest, "Address is required")
		return
	}

	// Validate phone format
	if !utils.ValidatePhone(phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	customer := models.Customer{
		ID:                  uuid.New(),
		UserID:              accountUUID,
		Name:                name,
		Phone:               phone,
		Address:             address,
		ServiceIntervalDays: input.ServiceIntervalDays,
		Notes:               input.Notes,
		IsActive:            true,
	}

	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves the account's customers, optionally filtered by a
// free-text search (name, phone or address) and an exact service interval.
func GetCustomers(c *gin.Context) {
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

	// Owner predicate is unconditional; filters only ever narrow it
	query := config.DB.Model(&models.Customer{}).
		Where("customers.user_id = ?", accountUUID)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"(LOWER(customers.name) LIKE ? OR LOWER(customers.phone) LIKE ? OR LOWER(customers.address) LIKE ?)",
			pattern, pattern, pattern)
	}

	if intervalParam := c.Query("serviceInterval"); intervalParam != "" {
		interval, err := strconv.Atoi(intervalParam)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "serviceInterval must be an integer")
			return
		}
		query = query.Where("customers.service_interval_days = ?", interval)
	}

	var customers []CustomerWithVisitCount
	if err := query.
		Select("customers.*, (SELECT COUNT(*) FROM service_visits WHERE service_visits.customer_id = customers.id AND service_visits.deleted_at IS NULL) AS visit_count").
		Order("customers.name ASC").
		Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
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

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	customer, err := services.ScopedCustomer(config.DB, accountUUID, customerUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
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

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := services.ScopedCustomer(config.DB, accountUUID, customerUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided; absent fields stay untouched
	if input.Name != nil {
		name, empty := utils.TrimmedOrEmpty(*input.Name)
		if empty {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		customer.Name = name
	}
	if input.Phone != nil {
		phone, empty := utils.TrimmedOrEmpty(*input.Phone)
		if empty || !utils.ValidatePhone(phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.Phone = phone
	}
	if input.Address != nil {
		address, empty := utils.TrimmedOrEmpty(*input.Address)
		if empty {
			utils.RespondWithError(c, http.StatusBadRequest, "Address cannot be empty")
			return
		}
		customer.Address = address
	}
	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}
	if input.ServiceIntervalDays != nil {
		customer.ServiceIntervalDays = input.ServiceIntervalDays
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer
func DeleteCustomer(c *gin.Context) {
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

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", accountUUID, customerUUID).
		Delete(&models.Customer{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
