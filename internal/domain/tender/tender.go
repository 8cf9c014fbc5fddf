package tender

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lindabi/backend/internal/domain/shared"
)

// Tender is the aggregate root for a contractor's offer to a customer.
// Financial fields stored on its items are denormalized caches of the
// pricing pipeline and are recomputed whenever Surcharge, Discount or
// VATKey change.
type Tender struct {
	shared.TenantAggregateRoot
	ContractorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status       Status          `gorm:"type:varchar(32);not null"`
	Number       *string         `gorm:"type:varchar(64)"`
	Fee          decimal.Decimal `gorm:"type:numeric(14,2)"`
	Returned     bool            `gorm:"not null;default:false"`
	VATKey       decimal.Decimal `gorm:"type:numeric(6,2)"`
	Currency     string          `gorm:"type:varchar(8)"`
	Surcharge    decimal.Decimal `gorm:"type:numeric(6,2)"`
	Discount     decimal.Decimal `gorm:"type:numeric(6,2)"`
	ValidTo      *time.Time
	OpenedOn     *time.Time
	Notes        string       `gorm:"type:text"`
	Items        []TenderItem `gorm:"foreignKey:TenderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (Tender) TableName() string {
	return "tenders"
}

// NewTender creates a new tender in inquiry status.
func NewTender(tenantID, contractorID, customerID, createdBy uuid.UUID, currency string) (*Tender, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if contractorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACTOR", "Contractor ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	return &Tender{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		ContractorID:        contractorID,
		CustomerID:          customerID,
		Status:              StatusInquiry,
		Fee:                 decimal.Zero,
		VATKey:              decimal.Zero,
		Currency:            currency,
		Surcharge:           decimal.Zero,
		Discount:            decimal.Zero,
		Items:               make([]TenderItem, 0),
	}, nil
}

// NewTenderCopy clones the copyable fields of src into a fresh tender for
// the same tenant. The allow-list is deliberate: identity, number, status,
// dates and audit fields never leak into a copy, even when new columns are
// added to Tender.
func NewTenderCopy(src *Tender, createdBy uuid.UUID) *Tender {
	return &Tender{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(src.TenantID, createdBy),
		ContractorID:        src.ContractorID,
		CustomerID:          src.CustomerID,
		Status:              StatusInquiry,
		Number:              nil,
		Fee:                 src.Fee,
		Returned:            src.Returned,
		VATKey:              src.VATKey,
		Currency:            src.Currency,
		Surcharge:           src.Surcharge,
		Discount:            src.Discount,
		Notes:               src.Notes,
		Items:               make([]TenderItem, 0, len(src.Items)),
	}
}

// Patch carries the mutable fields of a tender update request. Nil fields
// are left untouched.
type Patch struct {
	ContractorID *uuid.UUID
	CustomerID   *uuid.UUID
	Status       *Status
	Fee          *decimal.Decimal
	Returned     *bool
	VATKey       *decimal.Decimal
	Currency     *string
	Surcharge    *decimal.Decimal
	Discount     *decimal.Decimal
	ValidTo      *time.Time
	OpenedOn     *time.Time
	Notes        *string
}

// TouchesPricing reports whether applying the patch invalidates the
// derived amounts stored on the tender's items.
func (p Patch) TouchesPricing() bool {
	return p.Surcharge != nil || p.Discount != nil || p.VATKey != nil
}

// TouchesNumbering reports whether applying the patch may trigger tender
// number allocation.
func (p Patch) TouchesNumbering() bool {
	return p.Status != nil || p.ContractorID != nil
}

// Fields returns the populated patch values keyed by audit property name.
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.ContractorID != nil {
		fields["contractor_id"] = *p.ContractorID
	}
	if p.CustomerID != nil {
		fields["customer_id"] = *p.CustomerID
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.Fee != nil {
		fields["fee"] = *p.Fee
	}
	if p.Returned != nil {
		fields["returned"] = *p.Returned
	}
	if p.VATKey != nil {
		fields["vat_key"] = *p.VATKey
	}
	if p.Currency != nil {
		fields["currency"] = *p.Currency
	}
	if p.Surcharge != nil {
		fields["surcharge"] = *p.Surcharge
	}
	if p.Discount != nil {
		fields["discount"] = *p.Discount
	}
	if p.ValidTo != nil {
		fields["valid_to"] = *p.ValidTo
	}
	if p.OpenedOn != nil {
		fields["opened_on"] = *p.OpenedOn
	}
	if p.Notes != nil {
		fields["notes"] = *p.Notes
	}
	return fields
}

// Apply writes the populated patch fields onto the tender.
func (t *Tender) Apply(p Patch) error {
	if p.Status != nil && !p.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown tender status")
	}
	if p.ContractorID != nil && *p.ContractorID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONTRACTOR", "Contractor ID cannot be empty")
	}
	if p.Currency != nil && *p.Currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	if p.ContractorID != nil {
		t.ContractorID = *p.ContractorID
	}
	if p.CustomerID != nil {
		t.CustomerID = *p.CustomerID
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Fee != nil {
		t.Fee = *p.Fee
	}
	if p.Returned != nil {
		t.Returned = *p.Returned
	}
	if p.VATKey != nil {
		t.VATKey = *p.VATKey
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.Surcharge != nil {
		t.Surcharge = *p.Surcharge
	}
	if p.Discount != nil {
		t.Discount = *p.Discount
	}
	if p.ValidTo != nil {
		t.ValidTo = p.ValidTo
	}
	if p.OpenedOn != nil {
		t.OpenedOn = p.OpenedOn
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	t.Touch()
	return nil
}

// AuditView returns the audited tender fields keyed by property name, for
// field-level diffing against a patch.
func (t *Tender) AuditView() map[string]any {
	view := map[string]any{
		"contractor_id": t.ContractorID,
		"customer_id":   t.CustomerID,
		"status":        t.Status,
		"fee":           t.Fee,
		"returned":      t.Returned,
		"vat_key":       t.VATKey,
		"currency":      t.Currency,
		"surcharge":     t.Surcharge,
		"discount":      t.Discount,
		"notes":         t.Notes,
	}
	if t.Number != nil {
		view["number"] = *t.Number
	}
	if t.ValidTo != nil {
		view["valid_to"] = *t.ValidTo
	}
	if t.OpenedOn != nil {
		view["opened_on"] = *t.OpenedOn
	}
	return view
}

// HasNumber reports whether the tender already carries a number.
func (t *Tender) HasNumber() bool {
	return t.Number != nil && *t.Number != ""
}
