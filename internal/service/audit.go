package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/venuepass/checkin-api/internal/domain"
)

type ScanAuditRepository interface {
	Append(ctx context.Context, log domain.ScanLog) (domain.ScanLog, error)
	FindByEvent(ctx context.Context, eventID uint, outcome string, limit, offset int) ([]domain.ScanLog, error)
}

// ScanAudit records every scan attempt, successful or not. Writes are
// fire-and-forget through a bounded channel drained by a single writer
// goroutine: a slow or failing audit store must never block or fail the
// operator-facing scan. Dropped or failed writes are logged internally.
type ScanAudit struct {
	repo ScanAuditRepository

	entries chan domain.ScanLog
	done    chan struct{}
	once    sync.Once
}

func NewScanAudit(repo ScanAuditRepository, buffer int) *ScanAudit {
	a := &ScanAudit{
		repo:    repo,
		entries: make(chan domain.ScanLog, buffer),
		done:    make(chan struct{}),
	}

	go a.run()

	return a
}

// Record enqueues an audit entry without blocking. When the buffer is
// full the entry is dropped and a warning logged; losing an audit row is
// preferable to stalling the scan path.
func (a *ScanAudit) Record(log domain.ScanLog) {
	select {
	case a.entries <- log:
	default:
		zap.L().Warn("scan audit buffer full, dropping entry",
			zap.Uint("event_id", log.EventID),
			zap.String("checkpoint", log.Checkpoint),
			zap.String("outcome", string(log.Outcome)))
	}
}

// Close flushes pending entries and stops the writer.
func (a *ScanAudit) Close() {
	a.once.Do(func() {
		close(a.entries)
		<-a.done
	})
}

func (a *ScanAudit) ListByEvent(ctx context.Context, eventID uint, outcome string, limit, offset int) ([]domain.ScanLog, error) {
	logs, err := a.repo.FindByEvent(ctx, eventID, outcome, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("a.repo.FindByEvent -> %w", err)
	}

	return logs, nil
}

func (a *ScanAudit) run() {
	defer close(a.done)

	for entry := range a.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := a.repo.Append(ctx, entry); err != nil {
			zap.L().Error("failed to append scan audit entry",
				zap.Uint("event_id", entry.EventID),
				zap.String("outcome", string(entry.Outcome)),
				zap.Error(err))
		}
		cancel()
	}
}
