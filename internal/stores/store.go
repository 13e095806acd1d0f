package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amolina-dev/storefront/internal/products"
	pkgerrors "github.com/amolina-dev/storefront/pkg/errors"
	"github.com/amolina-dev/storefront/pkg/logger"
)

// Store aggregates a catalog of products and processes orders against it.
// The catalog preserves insertion order for display and is keyed by
// product ID for membership checks. One mutex guards the whole catalog:
// order processing is a check-then-act sequence across several products
// and must not interleave with catalog mutation.
type Store struct {
	mu      sync.Mutex
	ordered []uuid.UUID
	byID    map[uuid.UUID]products.Product
	log     *logger.Logger
}

// OrderLine is one purchase request within an order.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// New builds a store over the given initial catalog.
func New(log *logger.Logger, initial ...products.Product) (*Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &Store{
		byID: make(map[uuid.UUID]products.Product),
		log:  log,
	}
	for _, p := range initial {
		if err := s.AddProduct(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddProduct appends a product to the catalog.
func (s *Store) AddProduct(p products.Product) error {
	if p == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[p.ID()]; exists {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("product %s already in store", p.Name()))
	}
	s.byID[p.ID()] = p
	s.ordered = append(s.ordered, p.ID())
	return nil
}

// RemoveProduct deletes a product from the catalog by ID.
func (s *Store) RemoveProduct(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found in store", id))
	}
	delete(s.byID, id)
	for i, pid := range s.ordered {
		if pid == id {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}
	return nil
}

// FindProduct looks a product up by ID.
func (s *Store) FindProduct(id uuid.UUID) (products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.byID[id]
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found in store", id))
	}
	return p, nil
}

// ListProducts returns every product in catalog order.
func (s *Store) ListProducts() []products.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]products.Product, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out
}

// ListActiveProducts returns the active products in catalog order.
func (s *Store) ListActiveProducts() []products.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]products.Product, 0, len(s.ordered))
	for _, id := range s.ordered {
		if p := s.byID[id]; p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}

// TotalQuantity sums every product's current quantity. Non-stocked
// products contribute their sentinel quantity of 1.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, p := range s.byID {
		total += p.Quantity()
	}
	return total
}

// Order prices and applies the given purchase lines in sequence. Lines
// are applied one at a time with no rollback: when a line fails, earlier
// lines stay purchased and the failure is returned as-is.
func (s *Store) Order(ctx context.Context, lines []OrderLine) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.log.WithOperation(ctx, "order")

	total := decimal.Zero
	for _, line := range lines {
		p, exists := s.byID[line.ProductID]
		if !exists {
			err := pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found in store", line.ProductID))
			s.log.Warn(s.log.WithProduct(ctx, line.ProductID.String()), "order line rejected")
			return decimal.Zero, err
		}

		price, err := p.Buy(line.Quantity)
		if err != nil {
			s.log.Warn(s.log.WithProduct(ctx, p.ID().String()), "order aborted: "+err.Error())
			return decimal.Zero, err
		}
		total = total.Add(price)
	}

	s.log.Info(s.log.WithField(ctx, "total", total.String()), "order placed")
	return total, nil
}

// OrderAtomic gives all-or-nothing order semantics: every line is
// validated before any stock moves, and an aggregate overdraw detected
// while applying restores the snapshot taken up front.
func (s *Store) OrderAtomic(ctx context.Context, lines []OrderLine) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.log.WithOperation(ctx, "order_atomic")

	for _, line := range lines {
		p, exists := s.byID[line.ProductID]
		if !exists {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found in store", line.ProductID))
		}
		if err := p.CanBuy(line.Quantity); err != nil {
			return decimal.Zero, err
		}
	}

	// Per-line validation cannot see several lines draining the same
	// product, so snapshot quantities and restore on failure.
	snapshot := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		p := s.byID[line.ProductID]
		if _, seen := snapshot[p.ID()]; !seen {
			snapshot[p.ID()] = p.Quantity()
		}
	}

	total := decimal.Zero
	for _, line := range lines {
		p := s.byID[line.ProductID]
		price, err := p.Buy(line.Quantity)
		if err != nil {
			for id, qty := range snapshot {
				_ = s.byID[id].SetQuantity(qty)
			}
			s.log.Warn(ctx, "atomic order rolled back: "+err.Error())
			return decimal.Zero, err
		}
		total = total.Add(price)
	}

	s.log.Info(s.log.WithField(ctx, "total", total.String()), "order placed")
	return total, nil
}
