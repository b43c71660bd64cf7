package checkout

import (
	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultShippingFee int64 = 15_000

var (
	DefaultTaxRate = decimal.RequireFromString("0.18")
	half           = decimal.RequireFromString("0.5")
)

// Policy prices an order: a flat shipping fee for any non-empty cart and a
// proportional tax on the subtotal.
type Policy struct {
	ShippingFee int64
	TaxRate     decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{ShippingFee: DefaultShippingFee, TaxRate: DefaultTaxRate}
}

// Quote computes the order totals for items. Tax is rounded half up, i.e.
// floor(subtotal*rate + 0.5).
func (p Policy) Quote(items []models.CartItem) models.Totals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.LineTotal()
	}

	var shipping int64
	if len(items) > 0 {
		shipping = p.ShippingFee
	}

	tax := decimal.NewFromInt(subtotal).Mul(p.TaxRate).Add(half).Floor().IntPart()

	return models.Totals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal + shipping + tax,
	}
}
