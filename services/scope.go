// services/scope.go
package services

import (
	"fieldpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ownership-chain checks. Every targeted read or write goes through one of
// these before anything is disclosed or mutated. A record that exists but
// belongs to another account comes back as gorm.ErrRecordNotFound, the same
// as a record that does not exist, so callers cannot probe other tenants.

// ScopedCustomer returns the customer only if it is owned by accountID.
func ScopedCustomer(db *gorm.DB, accountID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := db.Where("user_id = ? AND id = ?", accountID, customerID).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ScopedVisit returns the visit only if accountID owns it. A visit proves
// ownership either through its own user_id or through its customer's — a
// visit may be scoped before its customer link is populated, so either
// signal is accepted.
func ScopedVisit(db *gorm.DB, accountID, visitID uuid.UUID) (*models.ServiceVisit, error) {
	ownedCustomers := db.Model(&models.Customer{}).
		Select("id").
		Where("user_id = ?", accountID)

	var visit models.ServiceVisit
	if err := db.Where("id = ? AND (user_id = ? OR customer_id IN (?))",
		visitID, accountID, ownedCustomers).
		First(&visit).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

// ScopedTimeEntry authorizes via the entry's parent visit; time entries
// carry no owner column of their own.
func ScopedTimeEntry(db *gorm.DB, accountID, visitID, entryID uuid.UUID) (*models.TimeEntry, error) {
	if _, err := ScopedVisit(db, accountID, visitID); err != nil {
		return nil, err
	}

	var entry models.TimeEntry
	if err := db.Where("service_visit_id = ? AND id = ?", visitID, entryID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
