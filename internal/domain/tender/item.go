package tender

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lindabi/backend/internal/domain/shared"
)

// TenderItem is a line item in a tender. Num is a 1-based dense position:
// after any settled mutation the nums of a tender's items are exactly
// {1..N}. The six derived amount columns are recomputable from the parent
// tender's surcharge/discount/vatKey and the item's quantity and unit
// amounts.
type TenderItem struct {
	shared.BaseEntity
	TenderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name     string          `gorm:"type:varchar(255);not null"`
	Num      int             `gorm:"not null"`
	Quantity decimal.Decimal `gorm:"type:numeric(14,4)"`
	Unit     string          `gorm:"type:varchar(32)"`

	MaterialNetUnitAmount decimal.Decimal `gorm:"type:numeric(14,4)"`
	FeeNetUnitAmount      decimal.Decimal `gorm:"type:numeric(14,4)"`

	MaterialNetAmount       decimal.Decimal `gorm:"type:numeric(16,6)"`
	FeeNetAmount            decimal.Decimal `gorm:"type:numeric(16,6)"`
	MaterialActualNetAmount decimal.Decimal `gorm:"type:numeric(16,6)"`
	FeeActualNetAmount      decimal.Decimal `gorm:"type:numeric(16,6)"`
	TotalMaterialAmount     decimal.Decimal `gorm:"type:numeric(16,6)"`
	TotalFeeAmount          decimal.Decimal `gorm:"type:numeric(16,6)"`
}

// TableName returns the database table name.
func (TenderItem) TableName() string {
	return "tender_items"
}

// NewTenderItem creates a new tender item at the given position. The
// derived amount columns are zero until ApplyPricing runs.
func NewTenderItem(tenderID uuid.UUID, name string, num int, quantity decimal.Decimal, unit string, materialNetUnitAmount, feeNetUnitAmount decimal.Decimal) (*TenderItem, error) {
	if tenderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENDER", "Tender ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if num < 1 {
		return nil, shared.NewDomainError("INVALID_NUM", "Item position must be at least 1")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	return &TenderItem{
		BaseEntity:            shared.NewBaseEntity(),
		TenderID:              tenderID,
		Name:                  name,
		Num:                   num,
		Quantity:              quantity,
		Unit:                  unit,
		MaterialNetUnitAmount: materialNetUnitAmount,
		FeeNetUnitAmount:      feeNetUnitAmount,
	}, nil
}

// Copy clones the item's content into a fresh item attached to targetID at
// position num. Identity and timestamps are regenerated; the amount
// columns carry over unchanged.
func (i *TenderItem) Copy(targetID uuid.UUID, num int) *TenderItem {
	return &TenderItem{
		BaseEntity:              shared.NewBaseEntity(),
		TenderID:                targetID,
		Name:                    i.Name,
		Num:                     num,
		Quantity:                i.Quantity,
		Unit:                    i.Unit,
		MaterialNetUnitAmount:   i.MaterialNetUnitAmount,
		FeeNetUnitAmount:        i.FeeNetUnitAmount,
		MaterialNetAmount:       i.MaterialNetAmount,
		FeeNetAmount:            i.FeeNetAmount,
		MaterialActualNetAmount: i.MaterialActualNetAmount,
		FeeActualNetAmount:      i.FeeActualNetAmount,
		TotalMaterialAmount:     i.TotalMaterialAmount,
		TotalFeeAmount:          i.TotalFeeAmount,
	}
}

// ItemPatch carries the mutable fields of an item update request. Nil
// fields are left untouched.
type ItemPatch struct {
	Name                  *string
	Quantity              *decimal.Decimal
	Unit                  *string
	MaterialNetUnitAmount *decimal.Decimal
	FeeNetUnitAmount      *decimal.Decimal
}

// Fields returns the populated patch values keyed by audit property name.
func (p ItemPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Quantity != nil {
		fields["quantity"] = *p.Quantity
	}
	if p.Unit != nil {
		fields["unit"] = *p.Unit
	}
	if p.MaterialNetUnitAmount != nil {
		fields["material_net_unit_amount"] = *p.MaterialNetUnitAmount
	}
	if p.FeeNetUnitAmount != nil {
		fields["fee_net_unit_amount"] = *p.FeeNetUnitAmount
	}
	return fields
}

// Apply writes the populated patch fields onto the item. The caller is
// responsible for re-running ApplyPricing afterwards.
func (i *TenderItem) Apply(p ItemPatch) error {
	if p.Name != nil && *p.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if p.Quantity != nil && p.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		i.Unit = *p.Unit
	}
	if p.MaterialNetUnitAmount != nil {
		i.MaterialNetUnitAmount = *p.MaterialNetUnitAmount
	}
	if p.FeeNetUnitAmount != nil {
		i.FeeNetUnitAmount = *p.FeeNetUnitAmount
	}
	i.Touch()
	return nil
}

// AuditView returns the audited item fields keyed by property name.
func (i *TenderItem) AuditView() map[string]any {
	return map[string]any{
		"name":                     i.Name,
		"quantity":                 i.Quantity,
		"unit":                     i.Unit,
		"material_net_unit_amount": i.MaterialNetUnitAmount,
		"fee_net_unit_amount":      i.FeeNetUnitAmount,
	}
}

// ApplyPricing refreshes the six derived amount columns from the parent
// tender's surcharge, discount and VAT key.
func (i *TenderItem) ApplyPricing(surcharge, discount, vatKey decimal.Decimal) {
	net := ItemNetAmounts(i, surcharge)
	i.MaterialNetAmount = net.MaterialNetAmount
	i.FeeNetAmount = net.FeeNetAmount

	derived := RecomputeItemDerived(i, surcharge, discount, vatKey)
	i.MaterialActualNetAmount = derived.MaterialActualNetAmount
	i.FeeActualNetAmount = derived.FeeActualNetAmount
	i.TotalMaterialAmount = derived.TotalMaterialAmount
	i.TotalFeeAmount = derived.TotalFeeAmount
	i.Touch()
}
