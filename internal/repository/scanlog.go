package repository

import (
	"context"
	"fmt"

	"github.com/venuepass/checkin-api/internal/domain"
	"github.com/venuepass/checkin-api/internal/repository/dao"
)

type ScanLogDAO interface {
	Insert(ctx context.Context, log dao.ScanLog) (dao.ScanLog, error)
	FindByEvent(ctx context.Context, eventID uint, outcome string, limit, offset int) ([]dao.ScanLog, error)
}

type ScanLogRepository struct {
	dao ScanLogDAO
}

func NewScanLogRepository(dao ScanLogDAO) *ScanLogRepository {
	return &ScanLogRepository{
		dao: dao,
	}
}

func (r *ScanLogRepository) Append(ctx context.Context, log domain.ScanLog) (domain.ScanLog, error) {
	created, err := r.dao.Insert(ctx, dao.ScanLog{
		EventID:        log.EventID,
		OperatorID:     log.OperatorID,
		Credential:     log.Credential,
		Checkpoint:     log.Checkpoint,
		Outcome:        string(log.Outcome),
		ErrorMessage:   log.ErrorMessage,
		ParticipantID:  log.ParticipantID,
		RegistrationID: log.RegistrationID,
	})
	if err != nil {
		return domain.ScanLog{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ScanLogRepository) FindByEvent(ctx context.Context, eventID uint, outcome string, limit, offset int) ([]domain.ScanLog, error) {
	found, err := r.dao.FindByEvent(ctx, eventID, outcome, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	logs := make([]domain.ScanLog, len(found))
	for i, l := range found {
		logs[i] = r.daoToDomain(l)
	}

	return logs, nil
}

func (r *ScanLogRepository) daoToDomain(l dao.ScanLog) domain.ScanLog {
	return domain.ScanLog{
		ID:             l.ID,
		EventID:        l.EventID,
		OperatorID:     l.OperatorID,
		Credential:     l.Credential,
		Checkpoint:     l.Checkpoint,
		Outcome:        domain.ScanOutcome(l.Outcome),
		ErrorMessage:   l.ErrorMessage,
		ParticipantID:  l.ParticipantID,
		RegistrationID: l.RegistrationID,
		CreatedAt:      l.CreatedAt,
	}
}
