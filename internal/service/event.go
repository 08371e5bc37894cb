package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/venuepass/checkin-api/internal/domain"
)

var (
	ErrCheckpointsEmpty      = errors.New("an event needs at least one checkpoint")
	ErrFirstCheckpoint       = errors.New(`the first checkpoint must be "Registration"`)
	ErrDuplicateCheckpoint   = errors.New("checkpoint names must be unique")
	ErrReservedCheckpointPos = errors.New(`"Registration" may only appear first`)
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

// CreateEvent validates the checkpoint flow and persists the event.
// The flow is immutable afterwards; scanning order is taken from it
// verbatim. "Registration" starts out unlocked so approved participants
// can be admitted immediately.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := validateCheckpoints(event.Checkpoints); err != nil {
		return domain.Event{}, err
	}

	event.UnlockedCheckpoints = []string{domain.CheckpointRegistration}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func validateCheckpoints(checkpoints []string) error {
	if len(checkpoints) == 0 {
		return ErrCheckpointsEmpty
	}
	if checkpoints[0] != domain.CheckpointRegistration {
		return ErrFirstCheckpoint
	}

	seen := make(map[string]bool, len(checkpoints))
	for i, cp := range checkpoints {
		if i > 0 && cp == domain.CheckpointRegistration {
			return ErrReservedCheckpointPos
		}
		if seen[cp] {
			return ErrDuplicateCheckpoint
		}
		seen[cp] = true
	}

	return nil
}
