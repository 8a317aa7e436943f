package catalog

import (
	"sort"
	"strings"
)

// Pure, side-effect-free views over an already-fetched product list. None of
// these functions mutate their input; Sort returns a copy.

type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
	SortTitle     SortKey = "title"
)

// ParseSortKey maps a request parameter onto a SortKey, defaulting to newest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortTitle:
		return SortKey(s)
	default:
		return SortNewest
	}
}

// FilterByCollection keeps products that belong to the collection handle.
func FilterByCollection(products []Product, collectionHandle string) []Product {
	var out []Product
	for _, p := range products {
		for _, c := range p.Collections {
			if c.Handle == collectionHandle {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// FilterByTag keeps products carrying the tag (case-insensitive exact match).
func FilterByTag(products []Product, tag string) []Product {
	var out []Product
	for _, p := range products {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// FilterByMaxPrice keeps products whose minimum variant price does not exceed ceiling.
func FilterByMaxPrice(products []Product, ceiling float64) []Product {
	var out []Product
	for _, p := range products {
		if p.PriceRange.MinVariantPrice.AmountFloat() <= ceiling {
			out = append(out, p)
		}
	}
	return out
}

// FilterByOption keeps products with at least one variant whose selected
// option matches name/value (e.g. Color=Green, Material=Denim).
func FilterByOption(products []Product, name, value string) []Product {
	var out []Product
	for _, p := range products {
		if productHasOption(p, name, value) {
			out = append(out, p)
		}
	}
	return out
}

func productHasOption(p Product, name, value string) bool {
	for _, v := range p.Variants {
		for _, opt := range v.SelectedOptions {
			if strings.EqualFold(opt.Name, name) && strings.EqualFold(opt.Value, value) {
				return true
			}
		}
	}
	return false
}

// Sort returns a sorted copy; the input slice is left untouched.
func Sort(products []Product, key SortKey) []Product {
	sorted := make([]Product, len(products))
	copy(sorted, products)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PriceRange.MinVariantPrice.AmountFloat() < sorted[j].PriceRange.MinVariantPrice.AmountFloat()
		})
	case SortPriceDesc:
		// Both price directions order on the minimum variant price, so a
		// product with a wide variant price range keeps one position.
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PriceRange.MinVariantPrice.AmountFloat() > sorted[j].PriceRange.MinVariantPrice.AmountFloat()
		})
	case SortTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Title < sorted[j].Title
		})
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
		})
	}
	return sorted
}

// Search performs a case-insensitive substring match across title,
// description, vendor and tags. A product matches when any field matches.
func Search(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	var out []Product
	for _, p := range products {
		if productMatches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func productMatches(p Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Vendor), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
