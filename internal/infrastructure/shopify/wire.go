package shopify

import "time"

// Wire types mirror the upstream GraphQL response shapes, paginated edge/node
// collections included. They exist only inside this package; everything past
// normalize.go sees flat domain types.

type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
}

func (c connection[T]) nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type wireMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type wireImage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type wireSelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type wireVariant struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	SKU               string               `json:"sku"`
	Price             wireMoney            `json:"price"`
	CompareAtPrice    *wireMoney           `json:"compareAtPrice"`
	AvailableForSale  bool                 `json:"availableForSale"`
	QuantityAvailable int                  `json:"quantityAvailable"`
	Image             *wireImage           `json:"image"`
	SelectedOptions   []wireSelectedOption `json:"selectedOptions"`
}

type wireCollectionRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

type wireProduct struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ProductType string    `json:"productType"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Vendor      string    `json:"vendor"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
	SEO         struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"seo"`
	PriceRange struct {
		MinVariantPrice wireMoney `json:"minVariantPrice"`
		MaxVariantPrice wireMoney `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Images      connection[wireImage]         `json:"images"`
	Variants    connection[wireVariant]       `json:"variants"`
	Collections connection[wireCollectionRef] `json:"collections"`
}

type wireCollection struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	Description string     `json:"description"`
	Image       *wireImage `json:"image"`
}

type wireShop struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CurrencyCode  string `json:"currencyCode"`
	PrimaryDomain struct {
		URL  string `json:"url"`
		Host string `json:"host"`
	} `json:"primaryDomain"`
	PaymentSettings struct {
		AcceptedCardBrands []string `json:"acceptedCardBrands"`
	} `json:"paymentSettings"`
}

type wireMerchandise struct {
	wireVariant
	Product struct {
		ID     string                `json:"id"`
		Title  string                `json:"title"`
		Handle string                `json:"handle"`
		Images connection[wireImage] `json:"images"`
	} `json:"product"`
}

type wireCartLine struct {
	ID          string          `json:"id"`
	Quantity    int             `json:"quantity"`
	Merchandise wireMerchandise `json:"merchandise"`
	Cost        struct {
		TotalAmount wireMoney `json:"totalAmount"`
	} `json:"cost"`
}

type wireCart struct {
	ID          string                   `json:"id"`
	CheckoutURL string                   `json:"checkoutUrl"`
	Lines       connection[wireCartLine] `json:"lines"`
	Cost        struct {
		SubtotalAmount wireMoney `json:"subtotalAmount"`
		TotalAmount    wireMoney `json:"totalAmount"`
		TotalTaxAmount wireMoney `json:"totalTaxAmount"`
	} `json:"cost"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
