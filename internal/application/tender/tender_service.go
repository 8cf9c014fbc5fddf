package tender

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appaudit "github.com/lindabi/backend/internal/application/audit"
	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/shared"
	"github.com/lindabi/backend/internal/domain/tender"
)

// Item move directions.
const (
	MoveUp   = -1
	MoveDown = 1
)

// Service coordinates tender mutations. Every mutation runs in one
// transaction spanning the tender, its items and the journey entries; only
// the number counter increment commits independently. Post-commit side
// effects (notifications, search sync) are best effort and never fail a
// committed mutation.
type Service struct {
	tenderRepo tender.Repository
	txScope    TransactionScope
	allocator  *NumberAllocator
	journeys   *appaudit.JourneyService
	notifier   NotificationService
	search     SearchSync
	logger     *zap.Logger
}

// NewService creates a tender service. notifier and search may be nil.
func NewService(
	tenderRepo tender.Repository,
	txScope TransactionScope,
	allocator *NumberAllocator,
	journeys *appaudit.JourneyService,
	notifier NotificationService,
	search SearchSync,
	logger *zap.Logger,
) *Service {
	return &Service{
		tenderRepo: tenderRepo,
		txScope:    txScope,
		allocator:  allocator,
		journeys:   journeys,
		notifier:   notifier,
		search:     search,
		logger:     logger,
	}
}

// CreateTenderRequest carries the fields of a tender creation.
type CreateTenderRequest struct {
	TenantID     uuid.UUID
	ContractorID uuid.UUID
	CustomerID   uuid.UUID
	Currency     string
	Actor        uuid.UUID
}

// CreateTender creates a tender in inquiry status. New tenders never carry
// a number; allocation happens on the status transition that first
// requires one.
func (s *Service) CreateTender(ctx context.Context, req CreateTenderRequest) (*tender.Tender, error) {
	created, err := tender.NewTender(req.TenantID, req.ContractorID, req.CustomerID, req.Actor, req.Currency)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		if err := repos.Tenders().Create(ctx, created); err != nil {
			return fmt.Errorf("failed to create tender: %w", err)
		}
		return s.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTender, created.ID, "created", req.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tender created",
		zap.String("tender_id", created.ID.String()),
		zap.String("tenant_id", created.TenantID.String()))

	if s.notifier != nil {
		if err := s.notifier.TenderCreated(ctx, created.TenantID, created.ID); err != nil {
			s.logger.Warn("tender created notification failed", zap.Error(err))
		}
	}
	s.syncSearch(ctx, created.TenantID, created.ID)
	return created, nil
}

// GetTender loads a tender with its items.
func (s *Service) GetTender(ctx context.Context, tenantID, id uuid.UUID) (*tender.Tender, error) {
	return s.tenderRepo.FindByIDForTenant(ctx, tenantID, id)
}

// UpdateTender applies a patch to the tender. A status transition into
// sent, finalized or ordered triggers number allocation for numberless
// tenders; allocation exhaustion degrades to saving the tender without a
// number. A pricing-relevant patch recomputes the derived amounts of every
// item in the same transaction.
func (s *Service) UpdateTender(ctx context.Context, tenantID, id uuid.UUID, patch tender.Patch, actor uuid.UUID) (*tender.Tender, error) {
	var (
		updated    *tender.Tender
		allocated  bool
		fromStatus tender.Status
	)

	run := func(withAllocation bool) error {
		allocated = false
		return s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
			current, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, id)
			if err != nil {
				return err
			}
			snapshot := current.AuditView()
			fromStatus = current.Status

			if patch.Status != nil && *patch.Status != current.Status && !current.Status.CanTransitionTo(*patch.Status) {
				return shared.NewDomainError("INVALID_STATUS_TRANSITION",
					fmt.Sprintf("Cannot transition tender from %s to %s", current.Status, *patch.Status))
			}
			if err := current.Apply(patch); err != nil {
				return err
			}

			if withAllocation && !current.HasNumber() && current.Status.RequiresNumber() {
				switch err := s.allocator.Allocate(ctx, repos, current, actor); {
				case errors.Is(err, ErrAllocationExhausted):
					s.logger.Warn("saving tender without number after allocation exhaustion",
						zap.String("tender_id", current.ID.String()))
				case errors.Is(err, ErrNumberingNotConfigured):
					s.logger.Info("contractor has no number prefix, saving tender without number",
						zap.String("tender_id", current.ID.String()),
						zap.String("contractor_id", current.ContractorID.String()))
				case err != nil:
					return err
				default:
					allocated = true
				}
			}

			if patch.TouchesPricing() {
				if err := s.repriceItems(ctx, repos, current); err != nil {
					return err
				}
			}

			if err := repos.Tenders().Save(ctx, current); err != nil {
				return fmt.Errorf("failed to save tender: %w", err)
			}
			if err := s.journeys.AddDiffLogs(ctx, repos.Journeys(), audit.OwnerTypeTender, current.ID, snapshot, patch.Fields(), actor); err != nil {
				return err
			}
			updated = current
			return nil
		})
	}

	err := run(true)
	if allocated && errors.Is(err, shared.ErrAlreadyExists) {
		// The probe missed a concurrent allocation and the unique index
		// caught it at commit. Rerun once without allocation so the rest of
		// the patch still lands; the reconciler or a later transition picks
		// the number up.
		s.logger.Warn("tender number collided at commit, retrying update without allocation",
			zap.String("tender_id", id.String()))
		err = run(false)
	}
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && patch.Status != nil && *patch.Status != fromStatus {
		if err := s.notifier.TenderStatusChanged(ctx, tenantID, id, string(fromStatus), string(*patch.Status)); err != nil {
			s.logger.Warn("status change notification failed", zap.Error(err))
		}
	}
	s.syncSearch(ctx, tenantID, id)
	return updated, nil
}

// DeleteTender hard-deletes the tender and its items.
func (s *Service) DeleteTender(ctx context.Context, tenantID, id uuid.UUID, actor uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		if _, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		if err := repos.Tenders().DeleteForTenant(ctx, tenantID, id); err != nil {
			return fmt.Errorf("failed to delete tender: %w", err)
		}
		return s.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTender, id, "deleted", actor)
	})
	if err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteTender(ctx, tenantID, id); err != nil {
			s.logger.Warn("search index delete failed", zap.Error(err))
		}
	}
	return nil
}

// CopyTender clones a tender and all its items into a fresh inquiry
// tender. The copy carries no number and no dates.
func (s *Service) CopyTender(ctx context.Context, tenantID, sourceID uuid.UUID, actor uuid.UUID) (*tender.Tender, error) {
	var clone *tender.Tender

	err := s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		source, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, sourceID)
		if err != nil {
			return err
		}

		clone = tender.NewTenderCopy(source, actor)
		if err := repos.Tenders().Create(ctx, clone); err != nil {
			return fmt.Errorf("failed to create tender copy: %w", err)
		}
		for idx := range source.Items {
			item := source.Items[idx].Copy(clone.ID, idx+1)
			if err := repos.Items().Create(ctx, item); err != nil {
				return fmt.Errorf("failed to copy item %d: %w", idx+1, err)
			}
		}
		// The copy shows up in the source tender's history.
		return s.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTender, sourceID, "copied", actor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tender copied",
		zap.String("source_id", sourceID.String()),
		zap.String("tender_id", clone.ID.String()))
	s.syncSearch(ctx, tenantID, clone.ID)
	return clone, nil
}

// CopyItems appends copies of the source tender's items to the target
// tender, continuing the target's numbering. Derived amounts are recomputed
// under the target's pricing parameters.
func (s *Service) CopyItems(ctx context.Context, tenantID, sourceID, targetID uuid.UUID, actor uuid.UUID) error {
	if sourceID == targetID {
		return shared.NewDomainError("INVALID_COPY_TARGET", "Cannot copy items onto the source tender")
	}

	err := s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		source, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, sourceID)
		if err != nil {
			return err
		}
		target, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, targetID)
		if err != nil {
			return err
		}

		next := len(target.Items) + 1
		for idx := range source.Items {
			item := source.Items[idx].Copy(target.ID, next)
			item.ApplyPricing(target.Surcharge, target.Discount, target.VATKey)
			if err := repos.Items().Create(ctx, item); err != nil {
				return fmt.Errorf("failed to copy item %d: %w", next, err)
			}
			next++
		}
		return s.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTender, target.ID, "items_copied", actor)
	})
	if err != nil {
		return err
	}

	s.syncSearch(ctx, tenantID, targetID)
	return nil
}

// AddItemRequest carries the fields of an item creation.
type AddItemRequest struct {
	Name                  string
	Quantity              decimal.Decimal
	Unit                  string
	MaterialNetUnitAmount decimal.Decimal
	FeeNetUnitAmount      decimal.Decimal
}

// AddItem appends an item at the next free position and prices it under
// the tender's current parameters.
func (s *Service) AddItem(ctx context.Context, tenantID, tenderID uuid.UUID, req AddItemRequest, actor uuid.UUID) (*tender.TenderItem, error) {
	var created *tender.TenderItem

	err := s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		parent, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, tenderID)
		if err != nil {
			return err
		}

		item, err := tender.NewTenderItem(parent.ID, req.Name, len(parent.Items)+1, req.Quantity, req.Unit, req.MaterialNetUnitAmount, req.FeeNetUnitAmount)
		if err != nil {
			return err
		}
		item.ApplyPricing(parent.Surcharge, parent.Discount, parent.VATKey)

		if err := repos.Items().Create(ctx, item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		if err := s.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTenderItem, item.ID, "created", actor); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncSearch(ctx, tenantID, tenderID)
	return created, nil
}

// UpdateItem applies a patch to an item and refreshes its derived amounts.
func (s *Service) UpdateItem(ctx context.Context, tenantID, tenderID, itemID uuid.UUID, patch tender.ItemPatch, actor uuid.UUID) (*tender.TenderItem, error) {
	var updated *tender.TenderItem

	err := s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		parent, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, tenderID)
		if err != nil {
			return err
		}
		item, err := repos.Items().FindByIDForTender(ctx, parent.ID, itemID)
		if err != nil {
			return err
		}

		snapshot := item.AuditView()
		if err := item.Apply(patch); err != nil {
			return err
		}
		item.ApplyPricing(parent.Surcharge, parent.Discount, parent.VATKey)

		if err := repos.Items().Save(ctx, item); err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}
		if err := s.journeys.AddDiffLogs(ctx, repos.Journeys(), audit.OwnerTypeTenderItem, item.ID, snapshot, patch.Fields(), actor); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncSearch(ctx, tenantID, tenderID)
	return updated, nil
}

// RemoveItem deletes an item and closes the numbering gap so positions
// stay dense.
func (s *Service) RemoveItem(ctx context.Context, tenantID, tenderID, itemID uuid.UUID, actor uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		parent, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, tenderID)
		if err != nil {
			return err
		}
		item, err := repos.Items().FindByIDForTender(ctx, parent.ID, itemID)
		if err != nil {
			return err
		}

		if err := repos.Items().Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		remaining, err := repos.Items().FindByTender(ctx, parent.ID)
		if err != nil {
			return err
		}
		renumbered := make([]tender.TenderItem, 0, len(remaining))
		for idx := range remaining {
			if remaining[idx].Num != idx+1 {
				remaining[idx].Num = idx + 1
				remaining[idx].Touch()
				renumbered = append(renumbered, remaining[idx])
			}
		}
		if len(renumbered) > 0 {
			if err := repos.Items().SaveAll(ctx, renumbered); err != nil {
				return fmt.Errorf("failed to renumber items: %w", err)
			}
		}
		return s.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTenderItem, item.ID, "deleted", actor)
	})
	if err != nil {
		return err
	}

	s.syncSearch(ctx, tenantID, tenderID)
	return nil
}

// MoveItem swaps the item with its neighbor in the given direction. Moving
// past either end is a no-op.
func (s *Service) MoveItem(ctx context.Context, tenantID, tenderID, itemID uuid.UUID, direction int, actor uuid.UUID) error {
	if direction != MoveUp && direction != MoveDown {
		return shared.NewDomainError("INVALID_DIRECTION", "Items move one position up or down")
	}

	err := s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		parent, err := repos.Tenders().FindByIDForTenant(ctx, tenantID, tenderID)
		if err != nil {
			return err
		}
		item, err := repos.Items().FindByIDForTender(ctx, parent.ID, itemID)
		if err != nil {
			return err
		}

		neighborNum := item.Num + direction
		if neighborNum < 1 || neighborNum > len(parent.Items) {
			return nil
		}
		neighbor, err := repos.Items().FindByNum(ctx, parent.ID, neighborNum)
		if err != nil {
			return err
		}

		item.Num, neighbor.Num = neighbor.Num, item.Num
		item.Touch()
		neighbor.Touch()
		if err := repos.Items().SaveAll(ctx, []tender.TenderItem{*item, *neighbor}); err != nil {
			return fmt.Errorf("failed to swap item positions: %w", err)
		}
		return s.journeys.AddSimpleLog(ctx, repos.Journeys(), audit.OwnerTypeTenderItem, item.ID, "moved", actor)
	})
	if err != nil {
		return err
	}

	s.syncSearch(ctx, tenantID, tenderID)
	return nil
}

// Totals returns the tender's pricing pipeline results.
type Totals struct {
	NetAmount   decimal.Decimal `json:"net_amount"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RoundAmount decimal.Decimal `json:"round_amount"`
}

// GetTotals computes the tender's totals from its current items.
func (s *Service) GetTotals(ctx context.Context, tenantID, id uuid.UUID) (*Totals, error) {
	current, err := s.tenderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return &Totals{
		NetAmount:   tender.TotalNetAmount(current),
		VATAmount:   tender.TotalVATAmount(current),
		TotalAmount: tender.TotalAmount(current),
		RoundAmount: tender.RoundAmount(current),
	}, nil
}

func (s *Service) repriceItems(ctx context.Context, repos TransactionalRepositories, t *tender.Tender) error {
	items, err := repos.Items().FindByTender(ctx, t.ID)
	if err != nil {
		return err
	}
	for idx := range items {
		items[idx].ApplyPricing(t.Surcharge, t.Discount, t.VATKey)
	}
	if len(items) == 0 {
		return nil
	}
	if err := repos.Items().SaveAll(ctx, items); err != nil {
		return fmt.Errorf("failed to reprice items: %w", err)
	}
	t.Items = items
	return nil
}

func (s *Service) syncSearch(ctx context.Context, tenantID, tenderID uuid.UUID) {
	if s.search == nil {
		return
	}
	if err := s.search.SyncTender(ctx, tenantID, tenderID); err != nil {
		s.logger.Warn("search index sync failed",
			zap.String("tender_id", tenderID.String()),
			zap.Error(err))
	}
}
