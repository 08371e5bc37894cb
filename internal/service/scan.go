package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/pkg/credential"
	"github.com/venuepass/checkin-api/internal/repository"
)

var (
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrEventNotFound        = repository.ErrEventNotFound
	ErrUnknownCheckpoint    = repository.ErrUnknownCheckpoint
)

// maxScanRetries bounds the compare-and-swap loop. Each retry reloads
// the registration and re-runs every business check, so a concurrent
// duplicate scan converges to already_checked_in rather than spinning.
const maxScanRetries = 3

type CredentialVerifier interface {
	Verify(token string) (credential.Claims, bool)
}

type ScanRegistrationRepository interface {
	FindByCredential(ctx context.Context, eventID uint, cred string) (domain.Registration, error)
	AppendCheckIn(ctx context.Context, registration domain.Registration, status string) error
}

type ScanEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type ScanUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type ScanAuditor interface {
	Record(log domain.ScanLog)
}

// ScanService turns a presented credential into a verified, ordered,
// audit-logged checkpoint visit.
type ScanService struct {
	verifier CredentialVerifier
	regRepo  ScanRegistrationRepository
	evtRepo  ScanEventRepository
	userRepo ScanUserRepository
	audit    ScanAuditor
	now      func() time.Time
}

func NewScanService(verifier CredentialVerifier, regRepo ScanRegistrationRepository, evtRepo ScanEventRepository, userRepo ScanUserRepository, audit ScanAuditor) *ScanService {
	return &ScanService{
		verifier: verifier,
		regRepo:  regRepo,
		evtRepo:  evtRepo,
		userRepo: userRepo,
		audit:    audit,
		now:      time.Now,
	}
}

// Scan processes one check-in attempt. Business rejections come back as
// outcomes on the result with a nil error; a non-nil error always pairs
// with a ScanError outcome and means infrastructure failed. Every
// attempt is audit-logged regardless of outcome.
func (s *ScanService) Scan(ctx context.Context, cred, checkpoint string, operator domain.User) (domain.ScanResult, error) {
	entry := domain.ScanLog{
		OperatorID: operator.ID,
		Credential: cred,
		Checkpoint: checkpoint,
	}

	claims, ok := s.verifier.Verify(cred)
	if !ok {
		return s.reject(entry, domain.ScanResult{Outcome: domain.ScanInvalidCredential}), nil
	}

	entry.EventID = claims.EventID
	entry.ParticipantID = &claims.ParticipantID

	reg, err := s.regRepo.FindByCredential(ctx, claims.EventID, cred)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return s.reject(entry, domain.ScanResult{Outcome: domain.ScanNotFound}), nil
		}

		return s.fail(entry, fmt.Errorf("s.regRepo.FindByCredential -> %w", err))
	}

	entry.RegistrationID = &reg.ID

	event, err := s.evtRepo.FindByID(ctx, reg.EventID)
	if err != nil {
		return s.fail(entry, fmt.Errorf("s.evtRepo.FindByID -> %w", err))
	}

	if !event.HasCheckpoint(checkpoint) {
		// Caller-level validation error: the operator posted a
		// checkpoint that is not part of this event's flow.
		return s.fail(entry, ErrUnknownCheckpoint)
	}

	participant, err := s.userRepo.FindByID(ctx, reg.ParticipantID)
	if err != nil {
		return s.fail(entry, fmt.Errorf("s.userRepo.FindByID -> %w", err))
	}

	for attempt := 0; ; attempt++ {
		result, err := s.attempt(ctx, reg, event, checkpoint, operator)
		if err == nil {
			result.Participant = participant

			if result.Outcome == domain.ScanSuccess {
				return s.accept(entry, result), nil
			}

			return s.reject(entry, result), nil
		}

		if !errors.Is(err, repository.ErrVersionConflict) {
			return s.fail(entry, err)
		}
		if attempt+1 >= maxScanRetries {
			return s.fail(entry, fmt.Errorf("scan retries exhausted -> %w", err))
		}

		// Another scan won the race; reload and re-evaluate so a
		// duplicate converges to already_checked_in. The unlocked set
		// may have changed in the meantime too, so the event is
		// refreshed along with the registration.
		reg, err = s.regRepo.FindByCredential(ctx, claims.EventID, cred)
		if err != nil {
			return s.fail(entry, fmt.Errorf("s.regRepo.FindByCredential -> %w", err))
		}

		event, err = s.evtRepo.FindByID(ctx, reg.EventID)
		if err != nil {
			return s.fail(entry, fmt.Errorf("s.evtRepo.FindByID -> %w", err))
		}
	}
}

// attempt runs the idempotency, ordering and gate checks against one
// snapshot of the registration and, if they pass, commits the visit
// with a compare-and-swap on the snapshot's version.
func (s *ScanService) attempt(ctx context.Context, reg domain.Registration, event domain.Event, checkpoint string, operator domain.User) (domain.ScanResult, error) {
	if !reg.IsScannable() {
		return domain.ScanResult{Outcome: domain.ScanNotApproved, Registration: reg}, nil
	}

	if existing, ok := reg.CheckInFor(checkpoint); ok {
		return domain.ScanResult{
			Outcome:      domain.ScanAlreadyCheckedIn,
			Registration: reg,
			Existing:     &existing,
		}, nil
	}

	idx := event.CheckpointIndex(checkpoint)
	for i := 0; i < idx; i++ {
		if _, ok := reg.CheckInFor(event.Checkpoints[i]); !ok {
			return domain.ScanResult{
				Outcome:           domain.ScanWrongCheckpoint,
				Registration:      reg,
				MissingCheckpoint: event.Checkpoints[i],
			}, nil
		}
	}

	if !event.IsUnlocked(checkpoint) {
		return domain.ScanResult{Outcome: domain.ScanCheckpointLocked, Registration: reg}, nil
	}

	reg.CheckIns = append(reg.CheckIns, domain.CheckpointCheckIn{
		Checkpoint: checkpoint,
		OperatorID: operator.ID,
		Timestamp:  s.now().UTC(),
	})

	// First successful check-in flips an approved registration to
	// checked_in, in the same write as the append.
	status := reg.Status
	if status == domain.RegistrationApproved {
		status = domain.RegistrationCheckedIn
	}

	if err := s.regRepo.AppendCheckIn(ctx, reg, status); err != nil {
		return domain.ScanResult{}, err
	}

	reg.Status = status
	reg.Version++

	return domain.ScanResult{Outcome: domain.ScanSuccess, Registration: reg}, nil
}

func (s *ScanService) accept(entry domain.ScanLog, result domain.ScanResult) domain.ScanResult {
	entry.Outcome = domain.ScanSuccess
	s.audit.Record(entry)

	return result
}

func (s *ScanService) reject(entry domain.ScanLog, result domain.ScanResult) domain.ScanResult {
	entry.Outcome = result.Outcome
	if result.Outcome == domain.ScanWrongCheckpoint {
		entry.ErrorMessage = fmt.Sprintf("missing earlier checkpoint %q", result.MissingCheckpoint)
	}
	s.audit.Record(entry)

	return result
}

func (s *ScanService) fail(entry domain.ScanLog, err error) (domain.ScanResult, error) {
	entry.Outcome = domain.ScanError
	entry.ErrorMessage = err.Error()
	s.audit.Record(entry)

	return domain.ScanResult{Outcome: domain.ScanError}, err
}
