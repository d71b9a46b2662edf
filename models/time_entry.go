package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ServiceVisitID uuid.UUID `gorm:"type:uuid;index;not null"`

	EntryDate       time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	Description     string

	gorm.Model
}

func (e *TimeEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
