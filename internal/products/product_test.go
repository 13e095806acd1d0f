package products

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/amolina-dev/storefront/internal/promotions"
	pkgerrors "github.com/amolina-dev/storefront/pkg/errors"
)

func mustStandard(t *testing.T, name string, price int64, qty int) *Standard {
	t.Helper()
	p, err := New(name, decimal.NewFromInt(price), qty)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	return p
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestConstructionValidation(t *testing.T) {
	t.Parallel()

	if _, err := New("", decimal.NewFromInt(10), 5); err == nil {
		t.Fatal("expected empty name to fail")
	} else {
		assertCode(t, err, pkgerrors.CodeConstruction)
	}

	_, err := New("Test Product", decimal.NewFromInt(-10), 5)
	assertCode(t, err, pkgerrors.CodeConstruction)

	_, err = New("Test Product", decimal.NewFromInt(10), -5)
	assertCode(t, err, pkgerrors.CodeConstruction)

	_, err = NewLimited("Shipping", decimal.NewFromInt(10), 5, 0)
	assertCode(t, err, pkgerrors.CodeConstruction)
}

func TestConstructionActiveTracksQuantity(t *testing.T) {
	t.Parallel()

	if p := mustStandard(t, "In stock", 10, 5); !p.IsActive() {
		t.Fatal("product with stock should be active")
	}

	empty, err := New("Out of stock", decimal.NewFromInt(10), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.IsActive() {
		t.Fatal("product without stock should be inactive")
	}
}

func TestStandardBuyDepletesStock(t *testing.T) {
	t.Parallel()

	p := mustStandard(t, "Test Product", 10, 5)

	total, err := p.Buy(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected total 20, got %s", total)
	}
	if p.Quantity() != 3 {
		t.Fatalf("expected quantity 3, got %d", p.Quantity())
	}
}

func TestStandardBuyDeactivatesAtZero(t *testing.T) {
	t.Parallel()

	p := mustStandard(t, "Last One", 10, 1)
	if _, err := p.Buy(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Quantity() != 0 {
		t.Fatalf("expected quantity 0, got %d", p.Quantity())
	}
	if p.IsActive() {
		t.Fatal("product should deactivate when stock hits zero")
	}
}

func TestStandardBuyFailuresLeaveStateUntouched(t *testing.T) {
	t.Parallel()

	p := mustStandard(t, "Test Product", 10, 5)

	_, err := p.Buy(0)
	assertCode(t, err, pkgerrors.CodeInvalidQuantity)

	_, err = p.Buy(-3)
	assertCode(t, err, pkgerrors.CodeInvalidQuantity)

	_, err = p.Buy(6)
	assertCode(t, err, pkgerrors.CodeInsufficientStock)

	if p.Quantity() != 5 || !p.IsActive() {
		t.Fatalf("failed purchases must not mutate: qty=%d active=%v", p.Quantity(), p.IsActive())
	}
}

func TestLimitedEnforcesPerOrderCap(t *testing.T) {
	t.Parallel()

	p, err := NewLimited("Shipping", decimal.NewFromInt(10), 250, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Buy(2)
	assertCode(t, err, pkgerrors.CodeLimitExceeded)
	if p.Quantity() != 250 {
		t.Fatalf("cap violation must not mutate quantity, got %d", p.Quantity())
	}

	total, err := p.Buy(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected total 10, got %s", total)
	}
	if p.Quantity() != 249 {
		t.Fatalf("expected quantity 249, got %d", p.Quantity())
	}
}

func TestLimitedCapCheckedBeforeStock(t *testing.T) {
	t.Parallel()

	p, err := NewLimited("Shipping", decimal.NewFromInt(10), 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5 exceeds both the cap and the stock; the cap wins.
	_, err = p.Buy(5)
	assertCode(t, err, pkgerrors.CodeLimitExceeded)
}

func TestNonStockedNeverDepletes(t *testing.T) {
	t.Parallel()

	p, err := NewNonStocked("Windows License", decimal.NewFromInt(125))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		total, err := p.Buy(4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !total.Equal(decimal.NewFromInt(500)) {
			t.Fatalf("expected total 500, got %s", total)
		}
		if p.Quantity() != 1 || !p.IsActive() {
			t.Fatalf("non-stocked state must not change: qty=%d active=%v", p.Quantity(), p.IsActive())
		}
	}

	_, err = p.Buy(0)
	assertCode(t, err, pkgerrors.CodeInvalidQuantity)
}

func TestBuyWithPromotion(t *testing.T) {
	t.Parallel()

	p := mustStandard(t, "MacBook Air M2", 100, 10)
	p.SetPromotion(promotions.NewPercentDiscount("20% off", 20))

	total, err := p.Buy(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("expected promoted total 240, got %s", total)
	}

	p.ClearPromotion()
	total, err = p.Buy(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected undiscounted total 100, got %s", total)
	}
}

func TestPromotionSharedAcrossProducts(t *testing.T) {
	t.Parallel()

	promo := promotions.NewSecondHalfPrice("Second at half price")
	a := mustStandard(t, "A", 10, 10)
	b := mustStandard(t, "B", 20, 10)
	a.SetPromotion(promo)
	b.SetPromotion(promo)

	if a.Promotion() != b.Promotion() {
		t.Fatal("expected the same promotion instance to be shared")
	}
}

func TestSetQuantityReactivates(t *testing.T) {
	t.Parallel()

	p := mustStandard(t, "Restocked", 10, 1)
	if _, err := p.Buy(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsActive() {
		t.Fatal("expected product inactive after sellout")
	}

	if err := p.SetQuantity(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Quantity() != 7 || !p.IsActive() {
		t.Fatalf("expected restock to reactivate: qty=%d active=%v", p.Quantity(), p.IsActive())
	}

	err := p.SetQuantity(-1)
	assertCode(t, err, pkgerrors.CodeInvalidQuantity)
}

func TestDeactivate(t *testing.T) {
	t.Parallel()

	p := mustStandard(t, "Pulled", 10, 5)
	p.Deactivate()
	if p.IsActive() {
		t.Fatal("expected product inactive after Deactivate")
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	std := mustStandard(t, "Google Pixel 7", 500, 250)
	std.SetPromotion(promotions.NewPercentDiscount("30% off", 30))
	desc := std.Describe()
	for _, want := range []string{"Google Pixel 7", "$500.00", "250", "Active", "30% off"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("describe missing %q: %s", want, desc)
		}
	}

	ns, err := NewNonStocked("Windows License", decimal.NewFromInt(125))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ns.Describe(), "Unlimited") {
		t.Fatalf("non-stocked describe should mention Unlimited: %s", ns.Describe())
	}

	lim, err := NewLimited("Shipping", decimal.NewFromInt(10), 250, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(lim.Describe(), "Max per order: 1") {
		t.Fatalf("limited describe should mention the cap: %s", lim.Describe())
	}
}
