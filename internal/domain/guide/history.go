package guide

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistoryEntry is one row of the append-only lifecycle audit log.
// Entries are never updated or deleted; the first entry (CREATED) is written
// in the same transaction that creates the guide.
type StatusHistoryEntry struct {
	ID        int64     `gorm:"column:history_id;primaryKey;autoIncrement"`
	GuideID   int64     `gorm:"column:guide_id"`
	Status    Status    `gorm:"column:status"`
	UpdatedBy uuid.UUID `gorm:"column:updated_by;type:uuid"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the database table name
func (StatusHistoryEntry) TableName() string {
	return "guide_status_history"
}

// NewStatusHistoryEntry builds an audit entry for a status transition
func NewStatusHistoryEntry(guideID int64, status Status, actor uuid.UUID) *StatusHistoryEntry {
	return &StatusHistoryEntry{
		GuideID:   guideID,
		Status:    status,
		UpdatedBy: actor,
		UpdatedAt: time.Now(),
	}
}
