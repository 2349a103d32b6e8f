// Package catalog holds storefront rules that sit on top of the product
// records: weight pricing and plain-text matching.
package catalog

import (
	"strings"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/shopspring/decimal"
)

// BasePrice is the offer price when the offer is active, else the list price.
func BasePrice(p models.Product) float64 {
	if p.IsOffer && p.OfferPrice != nil && *p.OfferPrice > 0 {
		return *p.OfferPrice
	}
	return p.Price
}

// ResolvePrice prices one unit of p at weight, rounded to whole rupees.
func ResolvePrice(p models.Product, weight string) (float64, error) {
	opt, ok := models.LookupWeight(weight)
	if !ok {
		return 0, apperr.Invalid("weight", "unknown weight "+weight)
	}
	if !Offers(p, weight) {
		return 0, apperr.Invalid("weight", p.Name+" is not sold by "+opt.Label)
	}
	price := decimal.NewFromFloat(BasePrice(p)).Mul(decimal.NewFromFloat(opt.Multiplier)).Round(0)
	return price.InexactFloat64(), nil
}

// Offers reports whether p is sold at weight. Products with no weights
// listed are sold at every standard weight.
func Offers(p models.Product, weight string) bool {
	weights := p.Weights
	if len(weights) == 0 {
		weights = models.DefaultWeights
	}
	for _, w := range weights {
		if w == weight {
			return true
		}
	}
	return false
}

// CartItem builds the cart line for p at weight with a server-side price.
func CartItem(p models.Product, weight string) (models.CartItem, error) {
	if !p.InStock {
		return models.CartItem{}, apperr.Invalid("product_id", p.Name+" is out of stock")
	}
	price, err := ResolvePrice(p, weight)
	if err != nil {
		return models.CartItem{}, err
	}
	return models.CartItem{
		ProductID: p.ID.String(),
		Name:      p.Name,
		NameTA:    p.NameTA,
		Weight:    weight,
		Price:     price,
		ImageURL:  p.ImageURL,
	}, nil
}

// Matches is the substring search used when no search index is configured:
// case-insensitive on the English name, verbatim on the Tamil one.
func Matches(p models.Product, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
		return true
	}
	return p.NameTA != "" && strings.Contains(p.NameTA, q)
}

// Filter keeps the products matching query.
func Filter(products []models.Product, query string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}
