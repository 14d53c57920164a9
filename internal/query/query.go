// Package query derives the visible subset of the catalog from the list
// screen's controls. Everything here is a pure function of its inputs.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/storefront/internal/catalog"
)

// AllCategories is the category filter value that keeps every item.
const AllCategories = "all"

// SortKey selects the ordering of the visible subset.
type SortKey string

const (
	TitleAscending  SortKey = "title-ascending"
	PriceAscending  SortKey = "price-ascending"
	PriceDescending SortKey = "price-descending"
)

var sortOrder = []SortKey{TitleAscending, PriceAscending, PriceDescending}

// SortKeys returns the supported keys in cycling order.
func SortKeys() []SortKey {
	out := make([]SortKey, len(sortOrder))
	copy(out, sortOrder)
	return out
}

// ParseSortKey accepts a key name; blank input yields TitleAscending.
func ParseSortKey(value string) (SortKey, bool) {
	trimmed := SortKey(strings.ToLower(strings.TrimSpace(value)))
	if trimmed == "" {
		return TitleAscending, true
	}
	for _, k := range sortOrder {
		if k == trimmed {
			return k, true
		}
	}
	return TitleAscending, false
}

// Next returns the key after k in cycling order.
func (k SortKey) Next() SortKey {
	for i, candidate := range sortOrder {
		if candidate == k {
			return sortOrder[(i+1)%len(sortOrder)]
		}
	}
	return sortOrder[0]
}

// Label is the short form shown in the header.
func (k SortKey) Label() string {
	switch k {
	case PriceAscending:
		return "Price ↑"
	case PriceDescending:
		return "Price ↓"
	default:
		return "Title A–Z"
	}
}

// Query holds the list screen controls.
type Query struct {
	Search   string
	Sort     SortKey
	Category string
}

// Visible returns the search/filter/sort result for items using English
// collation for titles.
func Visible(items []catalog.Item, q Query) []catalog.Item {
	return VisibleIn(language.English, items, q)
}

// VisibleIn is Visible with titles collated for tag.
//
// Steps run in a fixed order: search, category filter, stable sort. The
// result is a new slice; items is never modified.
func VisibleIn(tag language.Tag, items []catalog.Item, q Query) []catalog.Item {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	category := q.Category
	if category == "" {
		category = AllCategories
	}

	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if needle != "" && !matches(item, needle) {
			continue
		}
		if category != AllCategories && item.Category != category {
			continue
		}
		out = append(out, item)
	}

	switch q.Sort {
	case PriceAscending:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price < out[j].Price
		})
	case PriceDescending:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price > out[j].Price
		})
	default:
		// A Collator must not be shared between goroutines.
		col := collate.New(tag)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})
	}
	return out
}

func matches(item catalog.Item, needle string) bool {
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle)
}

// Categories returns AllCategories followed by the distinct categories of
// items in first-seen order.
func Categories(items []catalog.Item) []string {
	seen := map[string]struct{}{AllCategories: {}}
	out := []string{AllCategories}
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

// NextCategory returns the entry after current in categories, wrapping to
// the first. Unknown values restart at the first entry.
func NextCategory(categories []string, current string) string {
	if len(categories) == 0 {
		return AllCategories
	}
	for i, c := range categories {
		if c == current {
			return categories[(i+1)%len(categories)]
		}
	}
	return categories[0]
}
