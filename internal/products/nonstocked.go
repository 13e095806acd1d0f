package products

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// nonStockedQuantity is the sentinel reported by NonStocked products.
// Catalog-wide quantity sums include it literally.
const nonStockedQuantity = 1

// NonStocked represents services and digital goods: no tracked stock,
// always active, never depleted by purchases.
type NonStocked struct {
	base
}

func NewNonStocked(name string, price decimal.Decimal) (*NonStocked, error) {
	b, err := newBase(name, price, nonStockedQuantity)
	if err != nil {
		return nil, err
	}
	return &NonStocked{base: b}, nil
}

func (p *NonStocked) CanBuy(quantity int) error {
	return p.checkQuantity(quantity)
}

func (p *NonStocked) Buy(quantity int) (decimal.Decimal, error) {
	if err := p.CanBuy(quantity); err != nil {
		return decimal.Zero, err
	}
	return p.total(quantity), nil
}

// SetQuantity is a no-op: there is no stock to adjust.
func (p *NonStocked) SetQuantity(quantity int) error {
	return nil
}

func (p *NonStocked) Describe() string {
	return fmt.Sprintf("%s, Price: $%s, Quantity: Unlimited, %s%s",
		p.name, p.price.StringFixed(2), p.statusWord(), p.promoSuffix())
}
