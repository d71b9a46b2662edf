package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceVisit struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Denormalized owner so a visit can be scoped without joining its customer
	UserID uuid.UUID `gorm:"type:uuid;index"`

	VisitDate time.Time `gorm:"not null"`
	Notes     string

	// Derived: always the sum of this visit's time entry durations
	TotalDurationMinutes int `gorm:"not null;default:0"`

	TimeEntries []TimeEntry `gorm:"foreignKey:ServiceVisitID"`

	gorm.Model
}

func (v *ServiceVisit) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
