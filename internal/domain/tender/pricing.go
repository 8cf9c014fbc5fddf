package tender

import (
	"github.com/shopspring/decimal"
)

// Pricing pipeline: surcharge is applied to unit amounts first, the
// discount to the summed net amounts, VAT to the discounted total, and a
// rounding delta tops the grand total up to the next integer. All
// functions are pure; percentages are plain numbers (20 means 20%).

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// NetUnit applies the surcharge percentage to a unit amount.
func NetUnit(amount, surcharge decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Add(surcharge.Div(hundred)))
}

// NetAmounts holds the surcharged unit and extended amounts of one item.
type NetAmounts struct {
	MaterialNetUnitAmount decimal.Decimal
	FeeNetUnitAmount      decimal.Decimal
	MaterialNetAmount     decimal.Decimal
	FeeNetAmount          decimal.Decimal
}

// ItemNetAmounts applies the surcharge to the item's material and fee unit
// amounts and extends them by quantity.
func ItemNetAmounts(item *TenderItem, surcharge decimal.Decimal) NetAmounts {
	materialUnit := NetUnit(item.MaterialNetUnitAmount, surcharge)
	feeUnit := NetUnit(item.FeeNetUnitAmount, surcharge)
	return NetAmounts{
		MaterialNetUnitAmount: materialUnit,
		FeeNetUnitAmount:      feeUnit,
		MaterialNetAmount:     materialUnit.Mul(item.Quantity),
		FeeNetAmount:          feeUnit.Mul(item.Quantity),
	}
}

// surveyFee is subtracted from the net total exactly once, and only when
// the fee is positive and the survey was returned.
func surveyFee(t *Tender) decimal.Decimal {
	if t.Fee.IsPositive() && t.Returned {
		return t.Fee
	}
	return decimal.Zero
}

// TotalNetAmount sums the discounted net amounts of all items and
// subtracts the survey fee.
func TotalNetAmount(t *Tender) decimal.Decimal {
	discountFactor := one.Sub(t.Discount.Div(hundred))
	total := decimal.Zero
	for idx := range t.Items {
		net := ItemNetAmounts(&t.Items[idx], t.Surcharge)
		total = total.Add(net.MaterialNetAmount.Add(net.FeeNetAmount).Mul(discountFactor))
	}
	return total.Sub(surveyFee(t))
}

// TotalVATAmount applies the tender's VAT key to the net total.
func TotalVATAmount(t *Tender) decimal.Decimal {
	return TotalNetAmount(t).Mul(t.VATKey).Div(hundred)
}

// TotalAmount is the gross total: net plus VAT.
func TotalAmount(t *Tender) decimal.Decimal {
	return TotalNetAmount(t).Add(TotalVATAmount(t))
}

// RoundAmount is the delta shown as a rounding line on generated
// documents: ceil(total) - total, always in [0, 1). TotalAmount plus
// RoundAmount is an integer.
func RoundAmount(t *Tender) decimal.Decimal {
	total := TotalAmount(t)
	return total.Ceil().Sub(total)
}

// DiscountBreakdown accumulates the discount-only portion of the items'
// net unit and net amounts. It backs an explicit "discount" line on
// generated documents and is never subtracted from the totals again.
type DiscountBreakdown struct {
	MaterialNetUnitAmount decimal.Decimal
	FeeNetUnitAmount      decimal.Decimal
	MaterialNetAmount     decimal.Decimal
	FeeNetAmount          decimal.Decimal
}

// TenderDiscountBreakdown sums the per-item discount portions.
func TenderDiscountBreakdown(t *Tender) DiscountBreakdown {
	rate := t.Discount.Div(hundred)
	breakdown := DiscountBreakdown{
		MaterialNetUnitAmount: decimal.Zero,
		FeeNetUnitAmount:      decimal.Zero,
		MaterialNetAmount:     decimal.Zero,
		FeeNetAmount:          decimal.Zero,
	}
	for idx := range t.Items {
		net := ItemNetAmounts(&t.Items[idx], t.Surcharge)
		breakdown.MaterialNetUnitAmount = breakdown.MaterialNetUnitAmount.Add(net.MaterialNetUnitAmount.Mul(rate))
		breakdown.FeeNetUnitAmount = breakdown.FeeNetUnitAmount.Add(net.FeeNetUnitAmount.Mul(rate))
		breakdown.MaterialNetAmount = breakdown.MaterialNetAmount.Add(net.MaterialNetAmount.Mul(rate))
		breakdown.FeeNetAmount = breakdown.FeeNetAmount.Add(net.FeeNetAmount.Mul(rate))
	}
	return breakdown
}

// ItemDerived holds the persisted derived columns of one item that depend
// on the parent tender's surcharge, discount and VAT key.
type ItemDerived struct {
	MaterialActualNetAmount decimal.Decimal
	FeeActualNetAmount      decimal.Decimal
	TotalMaterialAmount     decimal.Decimal
	TotalFeeAmount          decimal.Decimal
}

// RecomputeItemDerived computes the derived columns for one item. It must
// run for every item whenever the parent tender's surcharge, discount or
// VAT key changes; the stored columns are a cache, not optional
// memoization.
func RecomputeItemDerived(item *TenderItem, surcharge, discount, vatKey decimal.Decimal) ItemDerived {
	discountFactor := one.Sub(discount.Div(hundred))
	materialActual := NetUnit(item.MaterialNetUnitAmount, surcharge).Mul(item.Quantity).Mul(discountFactor)
	feeActual := NetUnit(item.FeeNetUnitAmount, surcharge).Mul(item.Quantity).Mul(discountFactor)
	return ItemDerived{
		MaterialActualNetAmount: materialActual,
		FeeActualNetAmount:      feeActual,
		TotalMaterialAmount:     materialActual.Mul(vatKey).Div(hundred),
		TotalFeeAmount:          feeActual.Mul(vatKey).Div(hundred),
	}
}
