package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ScanLog rows are append-only. There is deliberately no update or
// delete method on ScanLogDAO.
type ScanLog struct {
	ID uint `gorm:"primaryKey"`

	EventID    uint   `gorm:"not null;index"`
	OperatorID uint   `gorm:"not null"`
	Credential string `gorm:"not null"`
	Checkpoint string `gorm:"not null"`

	Outcome      string `gorm:"not null;index"`
	ErrorMessage string

	ParticipantID  *uint
	RegistrationID *uint

	CreatedAt time.Time `gorm:"not null;index"`
}

type ScanLogDAO struct {
	db *gorm.DB
}

func NewScanLogDAO(db *gorm.DB) *ScanLogDAO {
	return &ScanLogDAO{
		db: db,
	}
}

func (d *ScanLogDAO) Insert(ctx context.Context, log ScanLog) (ScanLog, error) {
	result := d.db.WithContext(ctx).Create(&log)
	if result.Error != nil {
		return ScanLog{}, result.Error
	}

	return log, nil
}

// FindByEvent lists entries for an event, newest first, optionally
// filtered by outcome.
func (d *ScanLogDAO) FindByEvent(ctx context.Context, eventID uint, outcome string, limit, offset int) ([]ScanLog, error) {
	var logs []ScanLog

	query := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)

	if outcome != "" {
		query = query.Where("outcome = ?", outcome)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
