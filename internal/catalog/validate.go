package catalog

import (
	"strings"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"
)

const DefaultUnit = "kg"

// ValidateProduct checks a product as it will be stored, so it serves both
// create and the result of applying a patch.
func ValidateProduct(p models.Product) error {
	var errs apperr.ValidationErrors
	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "name is required")
	}
	if p.Price <= 0 {
		errs.Add("price", "price must be greater than zero")
	}
	if p.IsOffer && (p.OfferPrice == nil || *p.OfferPrice <= 0) {
		errs.Add("offer_price", "an offer needs an offer price greater than zero")
	}
	for _, w := range p.Weights {
		if _, ok := models.LookupWeight(w); !ok {
			errs.Add("weights", "unknown weight "+w)
			break
		}
	}
	return errs.Err()
}

func ValidateCategory(c models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Invalid("name", "name is required")
	}
	return nil
}
