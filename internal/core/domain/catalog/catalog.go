package catalog

import (
	"strconv"
	"time"
)

// Money is an upstream-reported amount. The amount is kept as the decimal
// string the API returns so no precision is lost; AmountFloat is for sorting
// and display math only.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

func (m Money) AmountFloat() float64 {
	f, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return 0
	}
	return f
}

func (m Money) IsZero() bool {
	return m.Amount == "" || m.AmountFloat() == 0
}

type Image struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	SKU               string           `json:"sku,omitempty"`
	Price             Money            `json:"price"`
	CompareAtPrice    *Money           `json:"compare_at_price,omitempty"`
	AvailableForSale  bool             `json:"available_for_sale"`
	QuantityAvailable int              `json:"quantity_available"`
	Image             *Image           `json:"image,omitempty"`
	SelectedOptions   []SelectedOption `json:"selected_options,omitempty"`
}

// Savings reports the absolute saving and rounded percentage against the
// compare-at price. ok is false when there is no discount.
func (v Variant) Savings() (amount Money, percentage int, ok bool) {
	if v.CompareAtPrice == nil {
		return Money{}, 0, false
	}
	compare := v.CompareAtPrice.AmountFloat()
	current := v.Price.AmountFloat()
	if compare <= current {
		return Money{}, 0, false
	}
	diff := compare - current
	return Money{
		Amount:       strconv.FormatFloat(diff, 'f', 2, 64),
		CurrencyCode: v.Price.CurrencyCode,
	}, int(diff/compare*100 + 0.5), true
}

type PriceRange struct {
	MinVariantPrice Money `json:"min_variant_price"`
	MaxVariantPrice Money `json:"max_variant_price"`
}

type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// CollectionRef is the lightweight collection membership carried on a product.
type CollectionRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// Product is the flat projection of the upstream catalog shape. All paginated
// edge/node structures have already been flattened by the gateway.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Handle      string          `json:"handle"`
	ProductType string          `json:"product_type,omitempty"`
	Description string          `json:"description"`
	Vendor      string          `json:"vendor,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	PublishedAt time.Time       `json:"published_at"`
	PriceRange  PriceRange      `json:"price_range"`
	Images      []Image         `json:"images,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
	Collections []CollectionRef `json:"collections,omitempty"`
	SEO         SEO             `json:"seo,omitempty"`
}

type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Description string `json:"description,omitempty"`
	Image       *Image `json:"image,omitempty"`
}

type Shop struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	CurrencyCode  string   `json:"currency_code"`
	PrimaryDomain string   `json:"primary_domain,omitempty"`
	CardBrands    []string `json:"card_brands,omitempty"`
}
