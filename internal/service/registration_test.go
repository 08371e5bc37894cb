package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/pkg/credential"
	"github.com/venuepass/checkin-api/internal/repository"
)

type fakeRegistrationStore struct {
	mu     sync.Mutex
	nextID uint
	regs   map[uint]domain.Registration
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{nextID: 1, regs: make(map[uint]domain.Registration)}
}

func (s *fakeRegistrationStore) Create(_ context.Context, registration domain.Registration) (domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, reg := range s.regs {
		if reg.EventID == registration.EventID && reg.ParticipantID == registration.ParticipantID {
			return domain.Registration{}, repository.ErrRegistrationExists
		}
	}

	registration.ID = s.nextID
	s.nextID++
	s.regs[registration.ID] = registration

	return registration, nil
}

func (s *fakeRegistrationStore) FindByID(_ context.Context, id uint) (domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[id]
	if !ok {
		return domain.Registration{}, repository.ErrRegistrationNotFound
	}

	return reg, nil
}

func (s *fakeRegistrationStore) UpdateStatus(_ context.Context, registration domain.Registration) (domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.regs[registration.ID]; !ok {
		return domain.Registration{}, repository.ErrRegistrationNotFound
	}

	s.regs[registration.ID] = registration

	return registration, nil
}

func newRegistrationService(t *testing.T) (*RegistrationService, *fakeRegistrationStore, *credential.Issuer) {
	t.Helper()

	issuer, err := credential.NewIssuer("test-secret")
	require.NoError(t, err)

	store := newFakeRegistrationStore()
	evtRepo := &fakeEventRepo{events: map[uint]domain.Event{
		1: {ID: 1, Name: "Spring Gala", Checkpoints: []string{"Registration", "Lunch"}},
	}}
	userRepo := &fakeUserRepo{users: map[uint]domain.User{
		10: {ID: 10, Name: "Alice", Role: domain.RoleParticipant},
	}}

	return NewRegistrationService(store, evtRepo, userRepo, issuer), store, issuer
}

func TestSubmitRegistration(t *testing.T) {
	svc, _, _ := newRegistrationService(t)

	participant := domain.User{ID: 10, Role: domain.RoleParticipant}

	reg, err := svc.Submit(context.Background(), 1, participant)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationPending, reg.Status)
	require.Empty(t, reg.Credential)

	// A second registration for the same (event, participant) conflicts.
	_, err = svc.Submit(context.Background(), 1, participant)
	require.ErrorIs(t, err, ErrRegistrationExists)
}

func TestSubmitRegistrationRequiresParticipantRole(t *testing.T) {
	svc, _, _ := newRegistrationService(t)

	_, err := svc.Submit(context.Background(), 1, domain.User{ID: 20, Role: domain.RoleVolunteer})
	require.ErrorIs(t, err, ErrParticipantRole)
}

func TestSubmitRegistrationUnknownEvent(t *testing.T) {
	svc, _, _ := newRegistrationService(t)

	_, err := svc.Submit(context.Background(), 404, domain.User{ID: 10, Role: domain.RoleParticipant})
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestApproveRegistration(t *testing.T) {
	svc, _, issuer := newRegistrationService(t)
	organizer := domain.User{ID: 30, Role: domain.RoleOrganizer}

	reg, err := svc.Submit(context.Background(), 1, domain.User{ID: 10, Role: domain.RoleParticipant})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), reg.ID, organizer)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, organizer.ID, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	// The minted credential verifies and binds participant to event.
	claims, ok := issuer.Verify(approved.Credential)
	require.True(t, ok)
	require.Equal(t, uint(10), claims.ParticipantID)
	require.Equal(t, uint(1), claims.EventID)

	// Approval is final; approving again fails.
	_, err = svc.Approve(context.Background(), reg.ID, organizer)
	require.ErrorIs(t, err, ErrRegistrationFinal)
}

func TestRejectRegistration(t *testing.T) {
	svc, _, _ := newRegistrationService(t)
	organizer := domain.User{ID: 30, Role: domain.RoleOrganizer}

	reg, err := svc.Submit(context.Background(), 1, domain.User{ID: 10, Role: domain.RoleParticipant})
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), reg.ID, "no seats left", organizer)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationRejected, rejected.Status)
	require.Equal(t, "no seats left", rejected.RejectedReason)
	require.Empty(t, rejected.Credential)

	// Rejection is final too.
	_, err = svc.Approve(context.Background(), reg.ID, organizer)
	require.ErrorIs(t, err, ErrRegistrationFinal)
}

func TestGetRegistrationNotFound(t *testing.T) {
	svc, _, _ := newRegistrationService(t)

	_, err := svc.Get(context.Background(), 404)
	require.ErrorIs(t, err, ErrRegistrationNotFound)
}
