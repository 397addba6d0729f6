package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit tells shoppers whether an item is sold by weight or by count.
type Unit string

const (
	UnitPound Unit = "lb"
	UnitEach  Unit = "each"
)

// ParseUnit accepts the CSV spelling of a unit.
func ParseUnit(raw string) (Unit, error) {
	switch u := Unit(strings.TrimSpace(raw)); u {
	case UnitPound, UnitEach:
		return u, nil
	default:
		return "", fmt.Errorf("unknown unit %q", raw)
	}
}

// Category is one of the store departments a face is dedicated to.
type Category string

const (
	CategoryProduce Category = "Produce"
	CategoryDairy   Category = "Dairy"
	CategoryMeat    Category = "Meat"
	CategoryBakery  Category = "Bakery"
	CategoryPantry  Category = "Pantry"
)

// Categories lists departments in the order faces are assigned to them.
var Categories = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryBakery,
	CategoryPantry,
}

// ParseCategory matches case-insensitively so hand-edited files still load.
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(string(c), trimmed) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// prefix is the short lowercase tag used in item identifiers.
func (c Category) prefix() string {
	lower := strings.ToLower(string(c))
	if len(lower) < 3 {
		return lower
	}
	return lower[:3]
}

// SoldByWeight reports whether items of the category are priced per pound.
func (c Category) SoldByWeight() bool {
	return c == CategoryMeat || c == CategoryProduce
}

// Item is a single catalog entry placed on one face of the floor plan.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	FaceID      string          `json:"face_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        Unit            `json:"unit"`
	Category    Category        `json:"category"`
	Brand       string          `json:"brand"`
	ImageURL    string          `json:"image_url"`
}

// FaceID formats the label of the face at the given index.
func FaceID(index int) string {
	return fmt.Sprintf("face_%03d", index)
}
