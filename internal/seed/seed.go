package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/amolina-dev/storefront/internal/products"
	"github.com/amolina-dev/storefront/internal/promotions"
	pkgerrors "github.com/amolina-dev/storefront/pkg/errors"
)

// Product kinds accepted by the seed file.
const (
	KindStandard   = "standard"
	KindNonStocked = "non_stocked"
	KindLimited    = "limited"
)

// Promotion types accepted by the seed file.
const (
	PromoPercent      = "percent"
	PromoSecondHalf   = "second_half_price"
	PromoThirdOneFree = "third_one_free"
)

// Options tunes how seed records become products.
type Options struct {
	// LegacyThirdFree selects the historical third-one-free formula.
	LegacyThirdFree bool
}

// Catalog is the root of a JSON seed file.
type Catalog struct {
	Products []ProductRecord `json:"products" validate:"required,min=1,dive"`
}

// ProductRecord describes one catalog entry.
type ProductRecord struct {
	Name        string           `json:"name" validate:"required"`
	Kind        string           `json:"kind" validate:"required,oneof=standard non_stocked limited"`
	Price       float64          `json:"price" validate:"gte=0"`
	Quantity    int              `json:"quantity" validate:"gte=0"`
	MaxPerOrder int              `json:"max_per_order,omitempty" validate:"gte=0"`
	Promotion   *PromotionRecord `json:"promotion,omitempty"`
}

// PromotionRecord describes a promotion attached to a product. Records
// sharing a label resolve to one shared promotion instance.
type PromotionRecord struct {
	Label   string  `json:"label" validate:"required"`
	Type    string  `json:"type" validate:"required,oneof=percent second_half_price third_one_free"`
	Percent float64 `json:"percent,omitempty" validate:"gte=0,lte=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Load reads, validates and builds the catalog at path.
func Load(path string, opts Options) ([]products.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading seed file")
	}

	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seed file").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return Build(catalog, opts)
}

// Build validates the catalog and constructs its products, resolving
// promotions by label so repeated labels share one instance.
func Build(catalog Catalog, opts Options) ([]products.Product, error) {
	if err := validate.Struct(catalog); err != nil {
		return nil, formatValidationErrors(err)
	}

	promosByLabel := map[string]promotions.Promotion{}
	var buildErr error

	out := make([]products.Product, 0, len(catalog.Products))
	for i, rec := range catalog.Products {
		p, err := buildProduct(rec, opts, promosByLabel)
		if err != nil {
			buildErr = multierr.Append(buildErr, fmt.Errorf("record %d (%s): %w", i, rec.Name, err))
			continue
		}
		out = append(out, p)
	}
	if buildErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, buildErr, "seed catalog rejected")
	}
	return out, nil
}

func buildProduct(rec ProductRecord, opts Options, promos map[string]promotions.Promotion) (products.Product, error) {
	price := decimal.NewFromFloat(rec.Price)

	var (
		p   products.Product
		err error
	)
	switch rec.Kind {
	case KindStandard:
		p, err = products.New(rec.Name, price, rec.Quantity)
	case KindNonStocked:
		p, err = products.NewNonStocked(rec.Name, price)
	case KindLimited:
		p, err = products.NewLimited(rec.Name, price, rec.Quantity, rec.MaxPerOrder)
	default:
		err = pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown product kind %q", rec.Kind))
	}
	if err != nil {
		return nil, err
	}

	if rec.Promotion != nil {
		promo, err := resolvePromotion(*rec.Promotion, opts, promos)
		if err != nil {
			return nil, err
		}
		p.SetPromotion(promo)
	}
	return p, nil
}

func resolvePromotion(rec PromotionRecord, opts Options, promos map[string]promotions.Promotion) (promotions.Promotion, error) {
	if promo, ok := promos[rec.Label]; ok {
		return promo, nil
	}

	var promo promotions.Promotion
	switch rec.Type {
	case PromoPercent:
		promo = promotions.NewPercentDiscount(rec.Label, rec.Percent)
	case PromoSecondHalf:
		promo = promotions.NewSecondHalfPrice(rec.Label)
	case PromoThirdOneFree:
		promo = promotions.NewThirdOneFree(rec.Label, opts.LegacyThirdFree)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown promotion type %q", rec.Type))
	}
	promos[rec.Label] = promo
	return promo, nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Namespace()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "seed validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "seed validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return "is invalid"
}

// DefaultProducts builds the built-in catalog used when no seed file is
// configured.
func DefaultProducts(opts Options) ([]products.Product, error) {
	return Build(Catalog{Products: []ProductRecord{
		{
			Name: "MacBook Air M2", Kind: KindStandard, Price: 1450, Quantity: 100,
			Promotion: &PromotionRecord{Label: "Second at half price", Type: PromoSecondHalf},
		},
		{
			Name: "Bose QuietComfort Earbuds", Kind: KindStandard, Price: 250, Quantity: 500,
			Promotion: &PromotionRecord{Label: "Third one free", Type: PromoThirdOneFree},
		},
		{
			Name: "Google Pixel 7", Kind: KindStandard, Price: 500, Quantity: 250,
			Promotion: &PromotionRecord{Label: "30% off", Type: PromoPercent, Percent: 30},
		},
		{Name: "Windows License", Kind: KindNonStocked, Price: 125},
		{Name: "Shipping", Kind: KindLimited, Price: 10, Quantity: 250, MaxPerOrder: 1},
	}}, opts)
}
