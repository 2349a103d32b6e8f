package models

// CartItem is one line of a shopper's cart. (ProductID, Weight) is its key.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	NameTA    string  `json:"name_ta,omitempty"`
	Weight    string  `json:"weight"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quantity  int     `json:"quantity"`
}

// WeightOption is a catalog-defined multiplier applied to the per-kg price.
type WeightOption struct {
	Value      string  `json:"value"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

var WeightOptions = []WeightOption{
	{Value: "250g", Label: "250g", Multiplier: 0.25},
	{Value: "500g", Label: "500g", Multiplier: 0.5},
	{Value: "1kg", Label: "1 Kg", Multiplier: 1},
}

// DefaultWeights is what a product offers when the admin left the list empty.
var DefaultWeights = []string{"250g", "500g", "1kg"}

func LookupWeight(value string) (WeightOption, bool) {
	for _, w := range WeightOptions {
		if w.Value == value {
			return w, true
		}
	}
	return WeightOption{}, false
}
