package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/repository"
)

var (
	ErrRegistrationExists = repository.ErrRegistrationExists
	ErrRegistrationFinal  = errors.New("registration is no longer pending")
	ErrParticipantRole    = errors.New("only participants can register for an event")
)

type CredentialIssuer interface {
	Issue(participantID, eventID uint) (string, error)
}

type RegistrationStore interface {
	Create(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
	UpdateStatus(ctx context.Context, registration domain.Registration) (domain.Registration, error)
}

type RegistrationService struct {
	repo     RegistrationStore
	evtRepo  ScanEventRepository
	userRepo ScanUserRepository
	issuer   CredentialIssuer
}

func NewRegistrationService(repo RegistrationStore, evtRepo ScanEventRepository, userRepo ScanUserRepository, issuer CredentialIssuer) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		evtRepo:  evtRepo,
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Submit creates a pending registration for a participant. The
// credential is not minted until approval.
func (s *RegistrationService) Submit(ctx context.Context, eventID uint, participant domain.User) (domain.Registration, error) {
	if participant.Role != domain.RoleParticipant {
		return domain.Registration{}, ErrParticipantRole
	}

	if _, err := s.evtRepo.FindByID(ctx, eventID); err != nil {
		return domain.Registration{}, fmt.Errorf("s.evtRepo.FindByID -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Registration{
		EventID:       eventID,
		ParticipantID: participant.ID,
		Status:        domain.RegistrationPending,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Approve finalizes a pending registration and mints its credential.
// The credential is stored verbatim; it is both the participant's proof
// and the scan path's lookup key.
func (s *RegistrationService) Approve(ctx context.Context, registrationID uint, approver domain.User) (domain.Registration, error) {
	reg, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if reg.Status != domain.RegistrationPending {
		return domain.Registration{}, ErrRegistrationFinal
	}

	cred, err := s.issuer.Issue(reg.ParticipantID, reg.EventID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.issuer.Issue -> %w", err)
	}

	now := time.Now().UTC()
	reg.Status = domain.RegistrationApproved
	reg.Credential = cred
	reg.ApprovedBy = &approver.ID
	reg.ApprovedAt = &now

	updated, err := s.repo.UpdateStatus(ctx, reg)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

func (s *RegistrationService) Reject(ctx context.Context, registrationID uint, reason string, approver domain.User) (domain.Registration, error) {
	reg, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if reg.Status != domain.RegistrationPending {
		return domain.Registration{}, ErrRegistrationFinal
	}

	reg.Status = domain.RegistrationRejected
	reg.RejectedReason = reason
	reg.ApprovedBy = &approver.ID

	updated, err := s.repo.UpdateStatus(ctx, reg)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

func (s *RegistrationService) Get(ctx context.Context, registrationID uint) (domain.Registration, error) {
	reg, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return reg, nil
}
