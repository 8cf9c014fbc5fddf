package tender

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func buildTender(surcharge, discount, vatKey string) *Tender {
	tender, _ := NewTender(uuid.New(), uuid.New(), uuid.New(), uuid.New(), "HUF")
	tender.Surcharge = dec(surcharge)
	tender.Discount = dec(discount)
	tender.VATKey = dec(vatKey)
	return tender
}

func addItem(t *testing.T, tender *Tender, quantity, material, fee string) *TenderItem {
	t.Helper()
	item, err := NewTenderItem(tender.ID, "item", len(tender.Items)+1, dec(quantity), "pcs", dec(material), dec(fee))
	require.NoError(t, err)
	tender.Items = append(tender.Items, *item)
	return &tender.Items[len(tender.Items)-1]
}

func TestNetUnit(t *testing.T) {
	assertDecimal(t, "110", NetUnit(dec("100"), dec("10")))
	assertDecimal(t, "100", NetUnit(dec("100"), dec("0")))
	assertDecimal(t, "0", NetUnit(dec("0"), dec("25")))
}

func TestItemNetAmounts(t *testing.T) {
	tender := buildTender("10", "5", "27")
	item := addItem(t, tender, "2", "100", "50")

	net := ItemNetAmounts(item, tender.Surcharge)

	assertDecimal(t, "110", net.MaterialNetUnitAmount)
	assertDecimal(t, "55", net.FeeNetUnitAmount)
	assertDecimal(t, "220", net.MaterialNetAmount)
	assertDecimal(t, "110", net.FeeNetAmount)
}

func TestTenderTotals(t *testing.T) {
	t.Run("surcharge, discount and VAT cascade", func(t *testing.T) {
		tender := buildTender("10", "5", "27")
		addItem(t, tender, "2", "100", "50")

		assertDecimal(t, "313.5", TotalNetAmount(tender))
		assertDecimal(t, "84.645", TotalVATAmount(tender))
		assertDecimal(t, "398.145", TotalAmount(tender))
		assertDecimal(t, "0.855", RoundAmount(tender))
	})

	t.Run("missing percentages default to zero", func(t *testing.T) {
		tender := buildTender("0", "0", "0")
		addItem(t, tender, "3", "10", "5")

		assertDecimal(t, "45", TotalNetAmount(tender))
		assertDecimal(t, "0", TotalVATAmount(tender))
		assertDecimal(t, "45", TotalAmount(tender))
	})

	t.Run("survey fee subtracted once regardless of item count", func(t *testing.T) {
		tender := buildTender("0", "0", "0")
		tender.Fee = dec("15")
		tender.Returned = true
		addItem(t, tender, "1", "100", "0")
		addItem(t, tender, "1", "200", "0")
		addItem(t, tender, "1", "300", "0")

		assertDecimal(t, "585", TotalNetAmount(tender))
	})

	t.Run("survey fee ignored when not returned", func(t *testing.T) {
		tender := buildTender("0", "0", "0")
		tender.Fee = dec("15")
		tender.Returned = false
		addItem(t, tender, "1", "100", "0")

		assertDecimal(t, "100", TotalNetAmount(tender))
	})

	t.Run("survey fee ignored when zero", func(t *testing.T) {
		tender := buildTender("0", "0", "0")
		tender.Returned = true
		addItem(t, tender, "1", "100", "0")

		assertDecimal(t, "100", TotalNetAmount(tender))
	})
}

func TestRoundAmountInvariant(t *testing.T) {
	cases := []struct {
		surcharge, discount, vatKey string
		quantity, material, fee     string
	}{
		{"10", "5", "27", "2", "100", "50"},
		{"0", "0", "27", "1", "0.01", "0"},
		{"13", "7", "5", "3.5", "99.99", "12.34"},
		{"0", "0", "0", "1", "100", "0"},
		{"25", "50", "27", "7", "1", "1"},
	}

	for _, tc := range cases {
		tender := buildTender(tc.surcharge, tc.discount, tc.vatKey)
		addItem(t, tender, tc.quantity, tc.material, tc.fee)

		round := RoundAmount(tender)
		assert.True(t, round.GreaterThanOrEqual(decimal.Zero), "round %s < 0", round)
		assert.True(t, round.LessThan(decimal.NewFromInt(1)), "round %s >= 1", round)

		grand := TotalAmount(tender).Add(round)
		assert.True(t, grand.Equal(grand.Floor()), "total+round %s is not an integer", grand)
	}
}

func TestPricingDeterminism(t *testing.T) {
	tender := buildTender("13", "7", "27")
	addItem(t, tender, "2.5", "123.45", "67.89")
	addItem(t, tender, "4", "0.99", "10")

	first := TotalAmount(tender)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(TotalAmount(tender)))
	}
}

func TestTenderDiscountBreakdown(t *testing.T) {
	tender := buildTender("10", "5", "27")
	addItem(t, tender, "2", "100", "50")

	breakdown := TenderDiscountBreakdown(tender)

	// 5% of the surcharged unit and extended amounts.
	assertDecimal(t, "5.5", breakdown.MaterialNetUnitAmount)
	assertDecimal(t, "2.75", breakdown.FeeNetUnitAmount)
	assertDecimal(t, "11", breakdown.MaterialNetAmount)
	assertDecimal(t, "5.5", breakdown.FeeNetAmount)
}

func TestRecomputeItemDerived(t *testing.T) {
	tender := buildTender("10", "5", "27")
	item := addItem(t, tender, "2", "100", "50")

	derived := RecomputeItemDerived(item, tender.Surcharge, tender.Discount, tender.VATKey)

	assertDecimal(t, "209", derived.MaterialActualNetAmount)
	assertDecimal(t, "104.5", derived.FeeActualNetAmount)
	assertDecimal(t, "56.43", derived.TotalMaterialAmount)
	assertDecimal(t, "28.215", derived.TotalFeeAmount)
}

func TestApplyPricingMatchesRecompute(t *testing.T) {
	tender := buildTender("13", "7", "27")
	item := addItem(t, tender, "2.5", "123.45", "67.89")

	item.ApplyPricing(tender.Surcharge, tender.Discount, tender.VATKey)

	net := ItemNetAmounts(item, tender.Surcharge)
	derived := RecomputeItemDerived(item, tender.Surcharge, tender.Discount, tender.VATKey)

	assert.True(t, item.MaterialNetAmount.Equal(net.MaterialNetAmount))
	assert.True(t, item.FeeNetAmount.Equal(net.FeeNetAmount))
	assert.True(t, item.MaterialActualNetAmount.Equal(derived.MaterialActualNetAmount))
	assert.True(t, item.FeeActualNetAmount.Equal(derived.FeeActualNetAmount))
	assert.True(t, item.TotalMaterialAmount.Equal(derived.TotalMaterialAmount))
	assert.True(t, item.TotalFeeAmount.Equal(derived.TotalFeeAmount))
}
