// services/timelog.go
package services

import (
	"fieldpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Time entry writes and the visit's total_duration_minutes must move
// together: every mutation runs in one transaction that re-sums all of the
// visit's entries rather than incrementing, so the stored total can never
// drift from the entries that actually committed.

// RecordTimeEntry inserts the entry under visitID and refreshes the visit
// total atomically. The caller must have scoped visitID first.
func RecordTimeEntry(db *gorm.DB, visitID uuid.UUID, entry *models.TimeEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := lockVisit(tx, visitID); err != nil {
			return err
		}

		entry.ServiceVisitID = visitID
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		return refreshVisitTotal(tx, visitID)
	})
}

// RemoveTimeEntry deletes the entry and refreshes the visit total atomically.
func RemoveTimeEntry(db *gorm.DB, visitID, entryID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := lockVisit(tx, visitID); err != nil {
			return err
		}

		result := tx.Where("service_visit_id = ? AND id = ?", visitID, entryID).
			Delete(&models.TimeEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return refreshVisitTotal(tx, visitID)
	})
}

// lockVisit takes the visit's row lock so concurrent writers to the same
// visit serialize; writers to different visits do not contend. SQLite has no
// row locks and its single-writer transactions already serialize, so the
// clause is only issued on postgres.
func lockVisit(tx *gorm.DB, visitID uuid.UUID) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var visit models.ServiceVisit
	return q.Where("id = ?", visitID).First(&visit).Error
}

func refreshVisitTotal(tx *gorm.DB, visitID uuid.UUID) error {
	var total int64
	if err := tx.Model(&models.TimeEntry{}).
		Where("service_visit_id = ?", visitID).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&total).Error; err != nil {
		return err
	}

	return tx.Model(&models.ServiceVisit{}).
		Where("id = ?", visitID).
		Update("total_duration_minutes", total).Error
}
