package tender

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lindabi/backend/internal/domain/audit"
	"github.com/lindabi/backend/internal/domain/tender"
)

type MockTenderRepository struct {
	mock.Mock
}

func (m *MockTenderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tender.Tender, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tender.Tender), args.Error(1)
}

func (m *MockTenderRepository) FindNumberedForTenant(ctx context.Context, tenantID uuid.UUID) ([]tender.Tender, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tender.Tender), args.Error(1)
}

func (m *MockTenderRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenderRepository) Create(ctx context.Context, t *tender.Tender) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenderRepository) Save(ctx context.Context, t *tender.Tender) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByTender(ctx context.Context, tenderID uuid.UUID) ([]tender.TenderItem, error) {
	args := m.Called(ctx, tenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tender.TenderItem), args.Error(1)
}

func (m *MockItemRepository) FindByIDForTender(ctx context.Context, tenderID, id uuid.UUID) (*tender.TenderItem, error) {
	args := m.Called(ctx, tenderID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tender.TenderItem), args.Error(1)
}

func (m *MockItemRepository) FindByNum(ctx context.Context, tenderID uuid.UUID, num int) (*tender.TenderItem, error) {
	args := m.Called(ctx, tenderID, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tender.TenderItem), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *tender.TenderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Save(ctx context.Context, item *tender.TenderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) SaveAll(ctx context.Context, items []tender.TenderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockJourneyRepository struct {
	mock.Mock
}

func (m *MockJourneyRepository) Append(ctx context.Context, entry *audit.Journey) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJourneyRepository) FindByOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]audit.Journey, error) {
	args := m.Called(ctx, ownerType, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.Journey), args.Error(1)
}

type MockContractorDirectory struct {
	mock.Mock
}

func (m *MockContractorDirectory) OfferPrefix(ctx context.Context, tenantID, contractorID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID, contractorID)
	return args.String(0), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) TenderCreated(ctx context.Context, tenantID, tenderID uuid.UUID) error {
	args := m.Called(ctx, tenantID, tenderID)
	return args.Error(0)
}

func (m *MockNotificationService) TenderStatusChanged(ctx context.Context, tenantID, tenderID uuid.UUID, from, to string) error {
	args := m.Called(ctx, tenantID, tenderID, from, to)
	return args.Error(0)
}

type MockSearchSync struct {
	mock.Mock
}

func (m *MockSearchSync) SyncTender(ctx context.Context, tenantID, tenderID uuid.UUID) error {
	args := m.Called(ctx, tenantID, tenderID)
	return args.Error(0)
}

func (m *MockSearchSync) DeleteTender(ctx context.Context, tenantID, tenderID uuid.UUID) error {
	args := m.Called(ctx, tenantID, tenderID)
	return args.Error(0)
}

// fakeSequenceRepository is a race-safe in-memory counter, mirroring the
// semantics of the database-backed implementation.
type fakeSequenceRepository struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequenceRepository() *fakeSequenceRepository {
	return &fakeSequenceRepository{counters: make(map[string]int64)}
}

func (f *fakeSequenceRepository) NextSeq(_ context.Context, tenantID, contractorID uuid.UUID, year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%d", tenantID, contractorID, year)
	f.counters[key]++
	return f.counters[key], nil
}
