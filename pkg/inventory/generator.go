package inventory

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// DefaultFaceCount matches the number of faces on the reference floor plan.
	DefaultFaceCount = 122
	// DefaultItemsPerFace caps how many names one face draws from its pool.
	DefaultItemsPerFace = 25

	maxDraws = 1000
)

// Generator synthesizes a catalog from an assortment. It is not safe for concurrent use.
type Generator struct {
	assortment Assortment
	rng        *rand.Rand
	ids        map[string]struct{}
	barcodes   map[string]struct{}
}

// NewGenerator wires the random source so tests can replay a catalog from a seed.
func NewGenerator(assortment Assortment, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{assortment: assortment, rng: rng}
}

// NewSeededGenerator is a shortcut for a reproducible generator over the default assortment.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(DefaultAssortment, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Generate walks faces in order and fills each from the pool its index selects.
// Ids and barcodes are unique across the returned catalog.
func (g *Generator) Generate(faceCount, itemsPerFace int) ([]Item, error) {
	if faceCount < 0 {
		return nil, fmt.Errorf("face count must not be negative, got %d", faceCount)
	}
	if itemsPerFace < 0 {
		return nil, fmt.Errorf("items per face must not be negative, got %d", itemsPerFace)
	}
	if len(g.assortment) == 0 {
		return nil, fmt.Errorf("assortment has no departments")
	}

	g.ids = make(map[string]struct{})
	g.barcodes = make(map[string]struct{})

	var items []Item
	for face := 0; face < faceCount; face++ {
		dept := g.assortment[face%len(g.assortment)]
		if len(dept.Subcategories) == 0 {
			return nil, fmt.Errorf("department %s has no subcategories", dept.Category)
		}
		sub := dept.Subcategories[face%len(dept.Subcategories)]

		for _, name := range g.sample(sub.Items, itemsPerFace) {
			item, err := g.item(face, dept, sub, name)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// sample draws min(n, len(pool)) names without replacement.
func (g *Generator) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]string, 0, n)
	for _, idx := range g.rng.Perm(len(pool))[:n] {
		picked = append(picked, pool[idx])
	}
	return picked
}

func (g *Generator) item(face int, dept Department, sub Subcategory, name string) (Item, error) {
	id, err := g.draw(g.ids, func() string {
		return fmt.Sprintf("%s_%03d_%d", dept.Category.prefix(), face, 1000+g.rng.IntN(9000))
	})
	if err != nil {
		return Item{}, fmt.Errorf("item id for %s on %s: %w", name, FaceID(face), err)
	}
	barcode, err := g.draw(g.barcodes, func() string { return g.barcode(dept) })
	if err != nil {
		return Item{}, fmt.Errorf("barcode for %s on %s: %w", name, FaceID(face), err)
	}

	unit := UnitEach
	if dept.Category.SoldByWeight() {
		unit = UnitPound
	}

	return Item{
		ID:          id,
		Name:        name,
		Barcode:     barcode,
		FaceID:      FaceID(face),
		Description: dept.Describe(name),
		Price:       g.price(sub.Band),
		Unit:        unit,
		Category:    dept.Category,
		Brand:       g.pick(dept.Brands),
		ImageURL:    ImageURL(name),
	}, nil
}

// draw keeps calling next until it yields a value not yet in used.
func (g *Generator) draw(used map[string]struct{}, next func() string) (string, error) {
	for range maxDraws {
		v := next()
		if _, taken := used[v]; !taken {
			used[v] = struct{}{}
			return v, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// barcode yields a short PLU code for produce and a long UPC-style code for packaged goods.
func (g *Generator) barcode(dept Department) string {
	prefix := g.pick(dept.BarcodePrefixes)
	if dept.Category == CategoryProduce {
		return prefix + strconv.Itoa(100+g.rng.IntN(900))
	}
	return prefix + strconv.Itoa(100000000+g.rng.IntN(900000000))
}

// price is drawn in whole cents so it always lands inside the band with two decimals.
func (g *Generator) price(b PriceBand) decimal.Decimal {
	lo := b.Min.Shift(2).IntPart()
	hi := b.Max.Shift(2).IntPart()
	if hi < lo {
		lo, hi = hi, lo
	}
	return decimal.New(lo+g.rng.Int64N(hi-lo+1), -2)
}

func (g *Generator) pick(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[g.rng.IntN(len(values))]
}
