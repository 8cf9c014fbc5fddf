package tender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/shared"
	"github.com/lindabi/backend/internal/domain/tender"
)

// ErrAllocationExhausted is returned when the allocator could not produce
// an unused number within its retry budget. Callers treat it as a degraded
// outcome, not a failure: the tender is saved without a number.
var ErrAllocationExhausted = errors.New("tender number allocation exhausted")

// ErrNumberingNotConfigured is returned when the contractor has no number
// prefix. Numbering is optional per contractor; callers skip allocation and
// save the tender without a number.
var ErrNumberingNotConfigured = errors.New("tender numbering not configured for contractor")

// errNumberCollision marks an attempt whose candidate number was already
// taken. It is the only retryable allocation error.
var errNumberCollision = errors.New("allocated number already taken")

const allocationAttempts = 3

// NumberAllocator produces collision-free tender numbers of the form
// "{prefix}-{year}-{seq}". Sequence values come from an independently
// committed counter, so a rollback of the surrounding tender transaction
// burns the value instead of reusing it. Gaps in the number series are
// acceptable; duplicates are not.
type NumberAllocator struct {
	sequenceRepo tender.NumberSequenceRepository
	contractors  ContractorDirectory
	now          func() time.Time
	logger       *zap.Logger
}

// NewNumberAllocator creates a number allocator.
func NewNumberAllocator(sequenceRepo tender.NumberSequenceRepository, contractors ContractorDirectory, logger *zap.Logger) *NumberAllocator {
	return &NumberAllocator{
		sequenceRepo: sequenceRepo,
		contractors:  contractors,
		now:          time.Now,
		logger:       logger,
	}
}

// Allocate assigns a number to the tender and records a journey entry
// through the transaction-scoped repositories. The uniqueness probe runs
// against the caller's transaction; the counter increment commits on its
// own regardless of what happens to that transaction afterwards.
func (a *NumberAllocator) Allocate(ctx context.Context, repos TransactionalRepositories, t *tender.Tender, actor uuid.UUID) error {
	prefix, err := a.contractors.OfferPrefix(ctx, t.TenantID, t.ContractorID)
	if err != nil {
		return fmt.Errorf("failed to resolve contractor prefix: %w", err)
	}
	if prefix == "" {
		return ErrNumberingNotConfigured
	}

	year := a.now().Year()

	number, err := shared.Retry(allocationAttempts,
		func(err error) bool { return errors.Is(err, errNumberCollision) },
		func(attempt int) (string, error) {
			seq, err := a.sequenceRepo.NextSeq(ctx, t.TenantID, t.ContractorID, year)
			if err != nil {
				return "", fmt.Errorf("failed to advance number sequence: %w", err)
			}

			candidate := tender.FormatNumber(prefix, year, seq)
			taken, err := repos.Tenders().ExistsByNumber(ctx, t.TenantID, candidate)
			if err != nil {
				return "", fmt.Errorf("failed to probe number %s: %w", candidate, err)
			}
			if taken {
				a.logger.Warn("allocated tender number already taken, retrying",
					zap.String("number", candidate),
					zap.Int("attempt", attempt))
				return "", fmt.Errorf("%w: %s", errNumberCollision, candidate)
			}
			return candidate, nil
		})
	if err != nil {
		if errors.Is(err, errNumberCollision) {
			a.logger.Warn("tender number allocation exhausted",
				zap.String("tender_id", t.ID.String()),
				zap.Int("attempts", allocationAttempts))
			return ErrAllocationExhausted
		}
		return err
	}

	existed := ""
	if t.Number != nil {
		existed = *t.Number
	}
	t.Number = &number
	t.Touch()

	entry, err := audit.NewJourney(audit.OwnerTypeTender, t.ID, "number_allocated", actor.String())
	if err != nil {
		return err
	}
	entry.WithChange("number", existed, number)
	return repos.Journeys().Append(ctx, entry)
}
