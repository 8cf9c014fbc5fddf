package tender

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/tender"
)

// NumberReconciler repairs tenders that ended up sharing a number, which
// can happen when allocation exhaustion left a tender numberless and an
// operator assigned one by hand, or after data imports. It is meant to run
// offline, not on the request path.
type NumberReconciler struct {
	tenderRepo tender.Repository
	txScope    TransactionScope
	journeys   journeyWriter
	logger     *zap.Logger
}

type journeyWriter interface {
	AddSimpleLog(ctx context.Context, repo audit.Repository, ownerType string, ownerID uuid.UUID, activity string, actor uuid.UUID) error
}

// NewNumberReconciler creates a reconciler.
func NewNumberReconciler(tenderRepo tender.Repository, txScope TransactionScope, journeys journeyWriter, logger *zap.Logger) *NumberReconciler {
	return &NumberReconciler{
		tenderRepo: tenderRepo,
		txScope:    txScope,
		journeys:   journeys,
		logger:     logger,
	}
}

// DuplicateGroup is one shared number and the tenders carrying it, oldest
// first. The oldest holder is the authoritative one.
type DuplicateGroup struct {
	Number    string      `json:"number"`
	TenderIDs []uuid.UUID `json:"tender_ids"`
}

// FindDuplicates returns every number carried by more than one of the
// tenant's tenders. Groups come back in first-seen order with members in
// creation order.
func (r *NumberReconciler) FindDuplicates(ctx context.Context, tenantID uuid.UUID) ([]DuplicateGroup, error) {
	numbered, err := r.tenderRepo.FindNumberedForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load numbered tenders: %w", err)
	}

	holders := make(map[string][]uuid.UUID)
	order := make([]string, 0)
	for idx := range numbered {
		number := *numbered[idx].Number
		if _, seen := holders[number]; !seen {
			order = append(order, number)
		}
		holders[number] = append(holders[number], numbered[idx].ID)
	}

	groups := make([]DuplicateGroup, 0)
	for _, number := range order {
		if len(holders[number]) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{Number: number, TenderIDs: holders[number]})
	}
	return groups, nil
}

// CleanupDuplicates resolves every duplicate group: the oldest holder
// keeps the number, every younger holder is renamed to
// "{number}-dup-{n}" with n counted per group from 1. Each group is
// repaired in its own transaction so one failing group does not roll back
// the rest. Returns the number of renamed tenders.
func (r *NumberReconciler) CleanupDuplicates(ctx context.Context, tenantID uuid.UUID, actor uuid.UUID) (int, error) {
	groups, err := r.FindDuplicates(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	renamed := 0
	for _, group := range groups {
		err := r.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
			for n, id := range group.TenderIDs[1:] {
				duplicate, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, id)
				if err != nil {
					return err
				}
				replacement, err := r.freeSuffixNumber(ctx, repos, tenantID, group.Number, n+1)
				if err != nil {
					return err
				}
				duplicate.Number = &replacement
				duplicate.Touch()
				if err := repos.Tenders().Save(ctx, duplicate); err != nil {
					return fmt.Errorf("failed to rename tender %s: %w", id, err)
				}
				if err := r.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTender, id, "number_reconciled", actor); err != nil {
					return err
				}
				renamed++
			}
			return nil
		})
		if err != nil {
			return renamed, fmt.Errorf("failed to reconcile number %s: %w", group.Number, err)
		}
		r.logger.Info("duplicate tender number reconciled",
			zap.String("number", group.Number),
			zap.Int("renamed", len(group.TenderIDs)-1))
	}
	return renamed, nil
}

// freeSuffixNumber finds the first unused "{number}-dup-{n}" starting at
// the given n, stepping past suffixes taken by earlier reconciler runs.
func (r *NumberReconciler) freeSuffixNumber(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, number string, n int) (string, error) {
	for {
		candidate := fmt.Sprintf("%s-dup-%d", number, n)
		taken, err := repos.Tenders().ExistsByNumber(ctx, tenantID, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		n++
	}
}

// NumberStats summarizes the numbering state of a tenant's tenders.
type NumberStats struct {
	Total      int64 `json:"total"`
	WithNumber int   `json:"with_number"`
	Unique     int   `json:"unique"`
	Duplicated int   `json:"duplicated"`
}

// Stats reports how many tenders exist, how many carry a number, and how
// many distinct numbers are clean versus duplicated.
func (r *NumberReconciler) Stats(ctx context.Context, tenantID uuid.UUID) (*NumberStats, error) {
	total, err := r.tenderRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenders: %w", err)
	}
	numbered, err := r.tenderRepo.FindNumberedForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load numbered tenders: %w", err)
	}

	counts := make(map[string]int)
	for idx := range numbered {
		counts[*numbered[idx].Number]++
	}
	stats := &NumberStats{
		Total:      total,
		WithNumber: len(numbered),
	}
	for _, count := range counts {
		if count > 1 {
			stats.Duplicated++
		} else {
			stats.Unique++
		}
	}
	return stats, nil
}
