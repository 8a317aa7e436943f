package shopify

import (
	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
)

// This file is the single normalization boundary: every paginated edge/node
// shape is flattened here, so consumers see one stable domain shape
// regardless of the upstream pagination structure.

func normalizeMoney(m wireMoney) catalog.Money {
	return catalog.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

func normalizeMoneyPtr(m *wireMoney) *catalog.Money {
	if m == nil {
		return nil
	}
	out := normalizeMoney(*m)
	return &out
}

func normalizeImage(img wireImage) catalog.Image {
	return catalog.Image{
		ID:      img.ID,
		URL:     img.URL,
		AltText: img.AltText,
		Width:   img.Width,
		Height:  img.Height,
	}
}

func normalizeImagePtr(img *wireImage) *catalog.Image {
	if img == nil {
		return nil
	}
	out := normalizeImage(*img)
	return &out
}

func normalizeVariant(v wireVariant) catalog.Variant {
	opts := make([]catalog.SelectedOption, 0, len(v.SelectedOptions))
	for _, o := range v.SelectedOptions {
		opts = append(opts, catalog.SelectedOption{Name: o.Name, Value: o.Value})
	}
	return catalog.Variant{
		ID:                v.ID,
		Title:             v.Title,
		SKU:               v.SKU,
		Price:             normalizeMoney(v.Price),
		CompareAtPrice:    normalizeMoneyPtr(v.CompareAtPrice),
		AvailableForSale:  v.AvailableForSale,
		QuantityAvailable: v.QuantityAvailable,
		Image:             normalizeImagePtr(v.Image),
		SelectedOptions:   opts,
	}
}

func normalizeProduct(p wireProduct) catalog.Product {
	images := make([]catalog.Image, 0, len(p.Images.Edges))
	for _, img := range p.Images.nodes() {
		images = append(images, normalizeImage(img))
	}

	variants := make([]catalog.Variant, 0, len(p.Variants.Edges))
	for _, v := range p.Variants.nodes() {
		variants = append(variants, normalizeVariant(v))
	}

	collections := make([]catalog.CollectionRef, 0, len(p.Collections.Edges))
	for _, c := range p.Collections.nodes() {
		collections = append(collections, catalog.CollectionRef{ID: c.ID, Title: c.Title, Handle: c.Handle})
	}

	return catalog.Product{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		ProductType: p.ProductType,
		Description: p.Description,
		Vendor:      p.Vendor,
		Tags:        p.Tags,
		PublishedAt: p.PublishedAt,
		PriceRange: catalog.PriceRange{
			MinVariantPrice: normalizeMoney(p.PriceRange.MinVariantPrice),
			MaxVariantPrice: normalizeMoney(p.PriceRange.MaxVariantPrice),
		},
		Images:      images,
		Variants:    variants,
		Collections: collections,
		SEO:         catalog.SEO{Title: p.SEO.Title, Description: p.SEO.Description},
	}
}

func normalizeProducts(conn connection[wireProduct]) []catalog.Product {
	out := make([]catalog.Product, 0, len(conn.Edges))
	for _, p := range conn.nodes() {
		out = append(out, normalizeProduct(p))
	}
	return out
}

func normalizeCollection(c wireCollection) catalog.Collection {
	return catalog.Collection{
		ID:          c.ID,
		Title:       c.Title,
		Handle:      c.Handle,
		Description: c.Description,
		Image:       normalizeImagePtr(c.Image),
	}
}

func normalizeShop(s wireShop) catalog.Shop {
	return catalog.Shop{
		Name:          s.Name,
		Description:   s.Description,
		CurrencyCode:  s.CurrencyCode,
		PrimaryDomain: s.PrimaryDomain.URL,
		CardBrands:    s.PaymentSettings.AcceptedCardBrands,
	}
}

func normalizeCartLine(l wireCartLine) cart.Line {
	var productImage *catalog.Image
	if imgs := l.Merchandise.Product.Images.nodes(); len(imgs) > 0 {
		productImage = normalizeImagePtr(&imgs[0])
	}
	return cart.Line{
		ID:       l.ID,
		Quantity: l.Quantity,
		Merchandise: cart.Merchandise{
			Variant: normalizeVariant(l.Merchandise.wireVariant),
			Product: cart.ProductSummary{
				ID:     l.Merchandise.Product.ID,
				Title:  l.Merchandise.Product.Title,
				Handle: l.Merchandise.Product.Handle,
				Image:  productImage,
			},
		},
		LineTotal: normalizeMoney(l.Cost.TotalAmount),
	}
}

// normalizeCart flattens the paginated line collection into an ordered slice.
func normalizeCart(c *wireCart) *cart.Cart {
	if c == nil {
		return nil
	}
	lines := make([]cart.Line, 0, len(c.Lines.Edges))
	for _, l := range c.Lines.nodes() {
		lines = append(lines, normalizeCartLine(l))
	}
	return &cart.Cart{
		ID:          c.ID,
		CheckoutURL: c.CheckoutURL,
		Lines:       lines,
		Cost: cart.CostSummary{
			Subtotal: normalizeMoney(c.Cost.SubtotalAmount),
			Tax:      normalizeMoney(c.Cost.TotalTaxAmount),
			Total:    normalizeMoney(c.Cost.TotalAmount),
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
