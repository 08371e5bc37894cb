package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/repository"
)

type fakeEventStore struct {
	mu     sync.Mutex
	nextID uint
	events map[uint]domain.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{nextID: 1, events: make(map[uint]domain.Event)}
}

func (s *fakeEventStore) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.nextID
	s.nextID++
	s.events[event.ID] = event

	return event, nil
}

func (s *fakeEventStore) FindByID(_ context.Context, id uint) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func TestCreateEvent(t *testing.T) {
	svc := NewEventService(newFakeEventStore())

	event, err := svc.CreateEvent(context.Background(), domain.Event{
		Name:        "Spring Gala",
		Checkpoints: []string{"Registration", "Lunch", "Dinner"},
	})
	require.NoError(t, err)
	require.NotZero(t, event.ID)

	// Only "Registration" starts out unlocked.
	require.Equal(t, []string{"Registration"}, event.UnlockedCheckpoints)
}

func TestCreateEventValidation(t *testing.T) {
	svc := NewEventService(newFakeEventStore())

	tests := []struct {
		name        string
		checkpoints []string
		wantErr     error
	}{
		{
			name:        "empty flow",
			checkpoints: nil,
			wantErr:     ErrCheckpointsEmpty,
		},
		{
			name:        "missing registration first",
			checkpoints: []string{"Lunch", "Dinner"},
			wantErr:     ErrFirstCheckpoint,
		},
		{
			name:        "duplicate checkpoint",
			checkpoints: []string{"Registration", "Lunch", "Lunch"},
			wantErr:     ErrDuplicateCheckpoint,
		},
		{
			name:        "registration repeated later",
			checkpoints: []string{"Registration", "Lunch", "Registration"},
			wantErr:     ErrReservedCheckpointPos,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(context.Background(), domain.Event{
				Name:        "Spring Gala",
				Checkpoints: tt.checkpoints,
			})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetEventNotFound(t *testing.T) {
	svc := NewEventService(newFakeEventStore())

	_, err := svc.GetEvent(context.Background(), 404)
	require.ErrorIs(t, err, ErrEventNotFound)
}
