package catalog

import (
	"errors"
	"testing"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestResolvePrice(t *testing.T) {
	tomato := models.Product{Name: "Tomato", Price: 40, InStock: true}

	cases := []struct {
		weight string
		want   float64
	}{
		{"250g", 10},
		{"500g", 20},
		{"1kg", 40},
	}
	for _, tc := range cases {
		got, err := ResolvePrice(tomato, tc.weight)
		require.NoError(t, err, tc.weight)
		assert.Equal(t, tc.want, got, tc.weight)
	}
}

func TestResolvePriceRoundsAndUsesActiveOffer(t *testing.T) {
	apple := models.Product{Name: "Apple", Price: 182, OfferPrice: floatPtr(150), IsOffer: true}

	got, err := ResolvePrice(apple, "250g")
	require.NoError(t, err)
	assert.Equal(t, 38.0, got, "37.5 rounds half up")

	apple.IsOffer = false
	got, err = ResolvePrice(apple, "250g")
	require.NoError(t, err)
	assert.Equal(t, 46.0, got, "45.5 rounds half up")
}

func TestResolvePriceRejectsUnknownOrUnofferedWeight(t *testing.T) {
	onion := models.Product{Name: "Onion", Price: 30, Weights: []string{"1kg"}}

	_, err := ResolvePrice(onion, "2kg")
	var verrs apperr.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("weight"))

	_, err = ResolvePrice(onion, "250g")
	require.Error(t, err)
}

func TestCartItem(t *testing.T) {
	id := gocql.TimeUUID()
	p := models.Product{ID: id, Name: "Tomato", NameTA: "தக்காளி", Price: 40, InStock: true}

	item, err := CartItem(p, "1kg")
	require.NoError(t, err)
	assert.Equal(t, models.CartItem{ProductID: id.String(), Name: "Tomato", NameTA: "தக்காளி", Weight: "1kg", Price: 40}, item)

	p.InStock = false
	_, err = CartItem(p, "1kg")
	var verrs apperr.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("product_id"))
}

func TestMatches(t *testing.T) {
	p := models.Product{Name: "Green Chilli", NameTA: "பச்சை மிளகாய்"}

	assert.True(t, Matches(p, "chilli"))
	assert.True(t, Matches(p, "GREEN"))
	assert.True(t, Matches(p, "மிளகாய்"))
	assert.True(t, Matches(p, "  "))
	assert.False(t, Matches(p, "tomato"))

	got := Filter([]models.Product{p, {Name: "Tomato"}}, "tom")
	require.Len(t, got, 1)
	assert.Equal(t, "Tomato", got[0].Name)
}

func TestValidateProduct(t *testing.T) {
	offer := 30.0
	ok := models.Product{Name: "Tomato", Price: 40, IsOffer: true, OfferPrice: &offer, Weights: []string{"500g", "1kg"}}
	assert.NoError(t, ValidateProduct(ok))

	bad := models.Product{IsOffer: true, Weights: []string{"2kg"}}
	err := ValidateProduct(bad)
	var verrs apperr.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	for _, f := range []string{"name", "price", "offer_price", "weights"} {
		assert.True(t, verrs.Has(f), f)
	}

	assert.Error(t, ValidateCategory(models.Category{Name: "  "}))
	assert.NoError(t, ValidateCategory(models.Category{Name: "Fruits"}))
}
