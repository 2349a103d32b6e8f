package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID            gocql.UUID  `json:"id" db:"product_id"`
	Name          string      `json:"name" db:"name"`
	NameTA        string      `json:"name_ta,omitempty" db:"name_ta"`
	CategoryID    *gocql.UUID `json:"category_id,omitempty" db:"category_id"`
	Price         float64     `json:"price" db:"price"`
	OfferPrice    *float64    `json:"offer_price,omitempty" db:"offer_price"`
	Unit          string      `json:"unit" db:"unit"`
	ImageURL      string      `json:"image_url,omitempty" db:"image_url"`
	Description   string      `json:"description,omitempty" db:"description"`
	DescriptionTA string      `json:"description_ta,omitempty" db:"description_ta"`
	InStock       bool        `json:"in_stock" db:"in_stock"`
	IsOffer       bool        `json:"is_offer" db:"is_offer"`
	IsBestSeller  bool        `json:"is_best_seller" db:"is_best_seller"`
	IsFresh       bool        `json:"is_fresh" db:"is_fresh"`
	Weights       []string    `json:"weights" db:"weights"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// ProductFilter selects products on the storefront and in the admin list.
// Nil fields do not filter. Results are newest first unless SortByName.
type ProductFilter struct {
	InStock    *bool
	CategoryID *gocql.UUID
	BestSeller *bool
	Offer      *bool
	SortByName bool
	Limit      int
}

// Match reports whether p passes every set field of the filter.
func (f ProductFilter) Match(p Product) bool {
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.BestSeller != nil && p.IsBestSeller != *f.BestSeller {
		return false
	}
	if f.Offer != nil && p.IsOffer != *f.Offer {
		return false
	}
	return true
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name          *string     `json:"name"`
	NameTA        *string     `json:"name_ta"`
	CategoryID    *gocql.UUID `json:"category_id"`
	Price         *float64    `json:"price"`
	OfferPrice    *float64    `json:"offer_price"`
	Unit          *string     `json:"unit"`
	ImageURL      *string     `json:"image_url"`
	Description   *string     `json:"description"`
	DescriptionTA *string     `json:"description_ta"`
	InStock       *bool       `json:"in_stock"`
	IsOffer       *bool       `json:"is_offer"`
	IsBestSeller  *bool       `json:"is_best_seller"`
	IsFresh       *bool       `json:"is_fresh"`
	Weights       *[]string   `json:"weights"`
}

// Empty reports whether the patch carries no field at all.
func (p ProductPatch) Empty() bool {
	return p == ProductPatch{}
}

// Apply copies every set field of the patch onto prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.NameTA != nil {
		prod.NameTA = *p.NameTA
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		prod.CategoryID = &id
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.OfferPrice != nil {
		v := *p.OfferPrice
		prod.OfferPrice = &v
	}
	if p.Unit != nil {
		prod.Unit = *p.Unit
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.DescriptionTA != nil {
		prod.DescriptionTA = *p.DescriptionTA
	}
	if p.InStock != nil {
		prod.InStock = *p.InStock
	}
	if p.IsOffer != nil {
		prod.IsOffer = *p.IsOffer
	}
	if p.IsBestSeller != nil {
		prod.IsBestSeller = *p.IsBestSeller
	}
	if p.IsFresh != nil {
		prod.IsFresh = *p.IsFresh
	}
	if p.Weights != nil {
		prod.Weights = append([]string(nil), (*p.Weights)...)
	}
}
