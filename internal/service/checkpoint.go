package service

import (
	"context"
	"fmt"

	"github.com/venuepass/checkin-api/internal/domain"
)

type CheckpointEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	UnlockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error)
	LockCheckpoint(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error)
}

// CheckpointService manages which checkpoints of an event are currently
// scannable. The single-active-checkpoint invariant (at most one
// unlocked checkpoint besides "Registration") is enforced by the
// repository inside one transaction, never as a sequence of calls.
type CheckpointService struct {
	repo CheckpointEventRepository
}

func NewCheckpointService(repo CheckpointEventRepository) *CheckpointService {
	return &CheckpointService{
		repo: repo,
	}
}

func (s *CheckpointService) Unlock(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error) {
	event, err := s.repo.UnlockCheckpoint(ctx, eventID, checkpoint)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UnlockCheckpoint -> %w", err)
	}

	return event, nil
}

func (s *CheckpointService) Lock(ctx context.Context, eventID uint, checkpoint string) (domain.Event, error) {
	event, err := s.repo.LockCheckpoint(ctx, eventID, checkpoint)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.LockCheckpoint -> %w", err)
	}

	return event, nil
}

func (s *CheckpointService) IsUnlocked(ctx context.Context, eventID uint, checkpoint string) (bool, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event.IsUnlocked(checkpoint), nil
}
