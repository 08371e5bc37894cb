package repository

import (
	"context"
	"fmt"

	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/repository/dao"
)

var (
	ErrEventNotFound     = dao.ErrEventNotFound
	ErrUnknownCheckpoint = dao.ErrUnknownCheckpoint
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	UnlockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (dao.Event, error)
	LockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Name:                event.Name,
		Checkpoints:         event.Checkpoints,
		UnlockedCheckpoints: event.UnlockedCheckpoints,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) UnlockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error) {
	updated, err := r.dao.UnlockCheckpoint(ctx, eventID, checkpoint)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.UnlockCheckpoint -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) LockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error) {
	updated, err := r.dao.LockCheckpoint(ctx, eventID, checkpoint)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.LockCheckpoint -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:                  e.ID,
		Name:                e.Name,
		Checkpoints:         e.Checkpoints,
		UnlockedCheckpoints: e.UnlockedCheckpoints,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}
