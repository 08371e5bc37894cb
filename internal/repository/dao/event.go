package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrUnknownCheckpoint = errors.New("checkpoint does not belong to the event")
)

const checkpointRegistration = "Registration"

type Event struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`

	Checkpoints         []string `gorm:"serializer:json;not null"`
	UnlockedCheckpoints []string `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// UnlockCheckpoint adds checkpoint to the event's unlocked set in a
// single transaction under a row lock. Unlocking any checkpoint other
// than "Registration" locks every other non-"Registration" checkpoint
// in the same write, so at most one of them is ever unlocked no matter
// how admin calls interleave.
func (d *EventDAO) UnlockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if !contains(event.Checkpoints, checkpoint) {
			return ErrUnknownCheckpoint
		}

		var unlocked []string
		if checkpoint == checkpointRegistration {
			unlocked = append(unlocked, event.UnlockedCheckpoints...)
			if !contains(unlocked, checkpoint) {
				unlocked = append(unlocked, checkpoint)
			}
		} else {
			// "Registration" survives; the previous active checkpoint
			// does not.
			if contains(event.UnlockedCheckpoints, checkpointRegistration) {
				unlocked = append(unlocked, checkpointRegistration)
			}
			unlocked = append(unlocked, checkpoint)
		}

		event.UnlockedCheckpoints = unlocked

		return tx.Select("unlocked_checkpoints", "updated_at").Save(&event).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// LockCheckpoint removes checkpoint from the event's unlocked set.
func (d *EventDAO) LockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		if !contains(event.Checkpoints, checkpoint) {
			return ErrUnknownCheckpoint
		}

		var unlocked []string
		for _, cp := range event.UnlockedCheckpoints {
			if cp != checkpoint {
				unlocked = append(unlocked, cp)
			}
		}

		event.UnlockedCheckpoints = unlocked

		return tx.Select("unlocked_checkpoints", "updated_at").Save(&event).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}

	return false
}
