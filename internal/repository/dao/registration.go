package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationExists   = errors.New("participant is already registered for the event")
	ErrVersionConflict      = errors.New("registration was modified concurrently")
)

type CheckIn struct {
	Checkpoint string    `json:"checkpoint"`
	OperatorID uint      `json:"operator_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type Registration struct {
	ID uint `gorm:"primaryKey"`

	EventID       uint `gorm:"not null;uniqueIndex:idx_registrations_event_participant"`
	ParticipantID uint `gorm:"not null;uniqueIndex:idx_registrations_event_participant"`

	Status     string  `gorm:"not null"` // "pending", "approved", "rejected" or "checked_in"
	Credential *string `gorm:"uniqueIndex"`

	CheckIns []CheckIn `gorm:"serializer:json"`

	// Version is bumped on every check-in write; the scan path updates
	// with "WHERE id = ? AND version = ?" so lost updates are impossible.
	Version int `gorm:"not null;default:0"`

	ApprovedBy     *uint
	ApprovedAt     *time.Time
	RejectedReason string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

func (d *RegistrationDAO) Insert(ctx context.Context, registration Registration) (Registration, error) {
	result := d.db.WithContext(ctx).Create(&registration)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Registration{}, ErrRegistrationExists
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id uint) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).First(&registration, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByCredential(ctx context.Context, eventID uint, cred string) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).
		First(&registration, "event_id = ? AND credential = ?", eventID, cred)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

// UpdateStatus persists an approval or rejection outcome.
func (d *RegistrationDAO) UpdateStatus(ctx context.Context, registration Registration) (Registration, error) {
	result := d.db.WithContext(ctx).
		Model(&Registration{ID: registration.ID}).
		Select("status", "credential", "approved_by", "approved_at", "rejected_reason", "updated_at").
		Updates(&registration)
	if result.Error != nil {
		return Registration{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Registration{}, ErrRegistrationNotFound
	}

	return d.FindByID(ctx, registration.ID)
}

// UpdateCheckIns replaces the check-in history and status with a
// compare-and-swap on the version column. ErrVersionConflict means
// another scan committed first; the caller reloads and re-evaluates.
func (d *RegistrationDAO) UpdateCheckIns(ctx context.Context, id uint, version int, checkIns []CheckIn, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("id = ? AND version = ?", id, version).
		Select("check_ins", "status", "version", "updated_at").
		Updates(&Registration{
			CheckIns: checkIns,
			Status:   status,
			Version:  version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}
