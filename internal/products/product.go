package products

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/storefront/internal/promotions"
	pkgerrors "github.com/amolina-dev/storefront/pkg/errors"
)

// Product is a sellable catalog entry. Three variants implement it: the
// stock-tracked Standard, the never-depleting NonStocked, and Limited,
// which caps how many units a single purchase may take.
type Product interface {
	ID() uuid.UUID
	Name() string
	Price() decimal.Decimal
	Quantity() int
	IsActive() bool

	Promotion() promotions.Promotion
	SetPromotion(p promotions.Promotion)
	ClearPromotion()

	// CanBuy reports whether a purchase of the given quantity would
	// succeed, without mutating any state.
	CanBuy(quantity int) error

	// Buy prices the given quantity (through the attached promotion, if
	// any) and depletes stock on stock-tracked variants. A failed
	// purchase leaves the product untouched.
	Buy(quantity int) (decimal.Decimal, error)

	// SetQuantity adjusts tracked stock directly, reactivating the
	// product when the new quantity is positive.
	SetQuantity(quantity int) error
	Deactivate()

	Describe() string
}

type base struct {
	id       uuid.UUID
	name     string
	price    decimal.Decimal
	quantity int
	active   bool
	promo    promotions.Promotion
}

func newBase(name string, price decimal.Decimal, quantity int) (base, error) {
	if strings.TrimSpace(name) == "" {
		return base{}, pkgerrors.New(pkgerrors.CodeConstruction, "product name cannot be empty")
	}
	if price.IsNegative() {
		return base{}, pkgerrors.New(pkgerrors.CodeConstruction, "product price cannot be negative").
			WithDetails(map[string]any{"name": name, "price": price.String()})
	}
	if quantity < 0 {
		return base{}, pkgerrors.New(pkgerrors.CodeConstruction, "product quantity cannot be negative").
			WithDetails(map[string]any{"name": name, "quantity": quantity})
	}
	return base{
		id:       uuid.New(),
		name:     name,
		price:    price,
		quantity: quantity,
		active:   quantity > 0,
	}, nil
}

func (b *base) ID() uuid.UUID {
	return b.id
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Price() decimal.Decimal {
	return b.price
}

func (b *base) Quantity() int {
	return b.quantity
}

func (b *base) IsActive() bool {
	return b.active
}

func (b *base) Promotion() promotions.Promotion {
	return b.promo
}

func (b *base) SetPromotion(p promotions.Promotion) {
	b.promo = p
}

func (b *base) ClearPromotion() {
	b.promo = nil
}

func (b *base) Deactivate() {
	b.active = false
}

func (b *base) SetQuantity(quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity cannot be negative").
			WithDetails(map[string]any{"name": b.name, "quantity": quantity})
	}
	b.quantity = quantity
	b.active = quantity > 0
	return nil
}

// total prices a purchase, delegating to the attached promotion when set.
func (b *base) total(quantity int) decimal.Decimal {
	if b.promo != nil {
		return b.promo.Apply(b.price, quantity)
	}
	return b.price.Mul(decimal.NewFromInt(int64(quantity)))
}

func (b *base) checkQuantity(quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "purchase quantity must be positive").
			WithDetails(map[string]any{"name": b.name, "quantity": quantity})
	}
	return nil
}

func (b *base) checkStock(quantity int) error {
	if quantity > b.quantity {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("not enough stock of %s", b.name)).
			WithDetails(map[string]any{"name": b.name, "requested": quantity, "available": b.quantity})
	}
	return nil
}

func (b *base) statusWord() string {
	if b.active {
		return "Active"
	}
	return "Inactive"
}

func (b *base) promoSuffix() string {
	if b.promo == nil {
		return ""
	}
	return fmt.Sprintf(", Promotion: %s", b.promo.Label())
}

// Standard is the stock-tracked product variant.
type Standard struct {
	base
}

// New builds a stock-tracked product.
func New(name string, price decimal.Decimal, quantity int) (*Standard, error) {
	b, err := newBase(name, price, quantity)
	if err != nil {
		return nil, err
	}
	return &Standard{base: b}, nil
}

func (p *Standard) CanBuy(quantity int) error {
	if err := p.checkQuantity(quantity); err != nil {
		return err
	}
	return p.checkStock(quantity)
}

func (p *Standard) Buy(quantity int) (decimal.Decimal, error) {
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

func (p *Standard) Describe() string {
	return fmt.Sprintf("%s, Price: $%s, Quantity: %d, %s%s",
		p.name, p.price.StringFixed(2), p.quantity, p.statusWord(), p.promoSuffix())
}
