package promotions

import (
	"github.com/shopspring/decimal"
)

// Promotion prices a purchase request. Implementations are pure: the
// caller validates the quantity before applying.
type Promotion interface {
	Label() string
	Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal
}

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// PercentDiscount takes a flat percentage off the undiscounted total.
type PercentDiscount struct {
	label   string
	percent decimal.Decimal
}

func NewPercentDiscount(label string, percent float64) *PercentDiscount {
	return &PercentDiscount{label: label, percent: decimal.NewFromFloat(percent)}
}

func (p *PercentDiscount) Label() string {
	return p.label
}

func (p *PercentDiscount) Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	discount := total.Mul(p.percent).Div(hundred)
	return total.Sub(discount)
}

// SecondHalfPrice pairs items two at a time and charges one of each pair
// at half price. Below two items there is nothing to pair.
type SecondHalfPrice struct {
	label string
}

func NewSecondHalfPrice(label string) *SecondHalfPrice {
	return &SecondHalfPrice{label: label}
}

func (p *SecondHalfPrice) Label() string {
	return p.label
}

func (p *SecondHalfPrice) Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity < 2 {
		return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}

	// Integer division puts the larger half of an odd quantity on the
	// half-price side. Kept as-is: downstream totals depend on it.
	fullPriceItems := quantity / 2
	halfPriceItems := quantity - fullPriceItems

	full := unitPrice.Mul(decimal.NewFromInt(int64(fullPriceItems)))
	half := unitPrice.Div(two).Mul(decimal.NewFromInt(int64(halfPriceItems)))
	return full.Add(half)
}

// ThirdOneFree charges two out of every complete group of three. The
// remainder outside complete groups is charged at full price unless the
// legacy formula is requested, which gives the remainder away too.
type ThirdOneFree struct {
	label  string
	legacy bool
}

func NewThirdOneFree(label string, legacy bool) *ThirdOneFree {
	return &ThirdOneFree{label: label, legacy: legacy}
}

func (p *ThirdOneFree) Label() string {
	return p.label
}

func (p *ThirdOneFree) Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	var chargeable int
	if p.legacy {
		chargeable = quantity / 3 * 2
	} else {
		chargeable = quantity - quantity/3
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(chargeable)))
}
