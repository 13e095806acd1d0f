package products

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/amolina-dev/storefront/pkg/errors"
)

// Limited is stock-tracked like Standard but additionally caps how many
// units a single purchase may request, independent of remaining stock.
type Limited struct {
	base
	maxPerOrder int
}

func NewLimited(name string, price decimal.Decimal, quantity, maxPerOrder int) (*Limited, error) {
	b, err := newBase(name, price, quantity)
	if err != nil {
		return nil, err
	}
	if maxPerOrder <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConstruction, "per-order maximum must be positive").
			WithDetails(map[string]any{"name": name, "max_per_order": maxPerOrder})
	}
	return &Limited{base: b, maxPerOrder: maxPerOrder}, nil
}

func (p *Limited) MaxPerOrder() int {
	return p.maxPerOrder
}

func (p *Limited) CanBuy(quantity int) error {
	if err := p.checkQuantity(quantity); err != nil {
		return err
	}
	// The per-order cap applies before any stock concern.
	if quantity > p.maxPerOrder {
		return pkgerrors.New(pkgerrors.CodeLimitExceeded,
			fmt.Sprintf("cannot buy more than %d of %s per order", p.maxPerOrder, p.name)).
			WithDetails(map[string]any{"name": p.name, "requested": quantity, "max_per_order": p.maxPerOrder})
	}
	return p.checkStock(quantity)
}

func (p *Limited) Buy(quantity int) (decimal.Decimal, error) {
	if err := p.CanBuy(quantity); err != nil {
		return decimal.Zero, err
	}

	total := p.total(quantity)
	p.quantity -= quantity
	if p.quantity == 0 {
		p.active = false
	}
	return total, nil
}

func (p *Limited) Describe() string {
	return fmt.Sprintf("%s, Price: $%s, Quantity: %d, Max per order: %d, %s%s",
		p.name, p.price.StringFixed(2), p.quantity, p.maxPerOrder, p.statusWord(), p.promoSuffix())
}
