package catalog

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Item mirrors a product record returned by /products and /products/{id}.
type Item struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	Category           string   `json:"category"`
	Rating             float64  `json:"rating"`
	Images             []string `json:"images"`
	Brand              string   `json:"brand,omitempty"`
	Stock              int      `json:"stock,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
}

// CatalogPage mirrors the /products envelope.
type CatalogPage struct {
	Products []Item `json:"products"`
	Total    int    `json:"total"`
	Skip     int    `json:"skip"`
	Limit    int    `json:"limit"`
}

// DiscountedPrice returns the price after DiscountPercentage, or Price when
// there is no discount.
func (i Item) DiscountedPrice() float64 {
	if i.DiscountPercentage <= 0 || i.DiscountPercentage >= 100 {
		return i.Price
	}
	return i.Price * (100 - i.DiscountPercentage) / 100
}

// PathID returns the string-encoded id carried by navigation paths.
func (i Item) PathID() string {
	return strconv.Itoa(i.ID)
}

func (i Item) validate() error {
	if i.Price < 0 {
		return errors.Errorf("product %d has negative price %v", i.ID, i.Price)
	}
	return nil
}

// ParseID decodes a string-encoded product id.
func ParseID(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.Wrap(ErrInvalidID, "id is empty")
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(ErrInvalidID, "id %q", value)
	}
	return id, nil
}
