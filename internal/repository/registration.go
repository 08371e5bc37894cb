package repository

import (
	"context"
	"fmt"

	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrRegistrationExists   = dao.ErrRegistrationExists
	ErrVersionConflict      = dao.ErrVersionConflict
)

type RegistrationDAO interface {
	Insert(ctx context.Context, registration dao.Registration) (dao.Registration, error)
	FindByID(ctx context.Context, id uint) (dao.Registration, error)
	FindByCredential(ctx context.Context, eventID uint, cred string) (dao.Registration, error)
	UpdateStatus(ctx context.Context, registration dao.Registration) (dao.Registration, error)
	UpdateCheckIns(ctx context.Context, id uint, version int, checkIns []dao.CheckIn, status string) error
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(registration))
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindByCredential(ctx context.Context, eventID uint, cred string) (domain.Registration, error) {
	found, err := r.dao.FindByCredential(ctx, eventID, cred)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByCredential -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	updated, err := r.dao.UpdateStatus(ctx, r.domainToDao(registration))
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

// AppendCheckIn commits a new check-in history for the registration,
// guarded by the version the caller read. A conflicting concurrent scan
// surfaces as ErrVersionConflict.
func (r *RegistrationRepository) AppendCheckIn(ctx context.Context, registration domain.Registration, status string) error {
	checkIns := make([]dao.CheckIn, len(registration.CheckIns))
	for i, c := range registration.CheckIns {
		checkIns[i] = dao.CheckIn{
			Checkpoint: c.Checkpoint,
			OperatorID: c.OperatorID,
			Timestamp:  c.Timestamp,
		}
	}

	err := r.dao.UpdateCheckIns(ctx, registration.ID, registration.Version, checkIns, status)
	if err != nil {
		return fmt.Errorf("r.dao.UpdateCheckIns -> %w", err)
	}

	return nil
}

func (r *RegistrationRepository) domainToDao(reg domain.Registration) dao.Registration {
	var cred *string
	if reg.Credential != "" {
		cred = &reg.Credential
	}

	checkIns := make([]dao.CheckIn, len(reg.CheckIns))
	for i, c := range reg.CheckIns {
		checkIns[i] = dao.CheckIn{
			Checkpoint: c.Checkpoint,
			OperatorID: c.OperatorID,
			Timestamp:  c.Timestamp,
		}
	}

	return dao.Registration{
		ID:             reg.ID,
		EventID:        reg.EventID,
		ParticipantID:  reg.ParticipantID,
		Status:         reg.Status,
		Credential:     cred,
		CheckIns:       checkIns,
		Version:        reg.Version,
		ApprovedBy:     reg.ApprovedBy,
		ApprovedAt:     reg.ApprovedAt,
		RejectedReason: reg.RejectedReason,
		CreatedAt:      reg.CreatedAt,
		UpdatedAt:      reg.UpdatedAt,
	}
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	var cred string
	if reg.Credential != nil {
		cred = *reg.Credential
	}

	checkIns := make([]domain.CheckpointCheckIn, len(reg.CheckIns))
	for i, c := range reg.CheckIns {
		checkIns[i] = domain.CheckpointCheckIn{
			Checkpoint: c.Checkpoint,
			OperatorID: c.OperatorID,
			Timestamp:  c.Timestamp,
		}
	}

	return domain.Registration{
		ID:             reg.ID,
		EventID:        reg.EventID,
		ParticipantID:  reg.ParticipantID,
		Status:         reg.Status,
		Credential:     cred,
		CheckIns:       checkIns,
		Version:        reg.Version,
		ApprovedBy:     reg.ApprovedBy,
		ApprovedAt:     reg.ApprovedAt,
		RejectedReason: reg.RejectedReason,
		CreatedAt:      reg.CreatedAt,
		UpdatedAt:      reg.UpdatedAt,
	}
}
