package inventory

import (
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
)

// Catalog is the read-only view over generated items and face colors.
// It never changes after NewCatalog returns, so readers need no locking.
type Catalog struct {
	items      []Item
	byID       map[string]int
	faceColors map[string]string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewCatalog copies items and colors so later changes by the caller cannot leak in.
func NewCatalog(items []Item, faceColors map[string]string) *Catalog {
	c := &Catalog{
		items:      make([]Item, len(items)),
		byID:       make(map[string]int, len(items)),
		faceColors: make(map[string]string, len(faceColors)),
	}
	copy(c.items, items)
	for i, item := range c.items {
		if _, seen := c.byID[item.ID]; !seen {
			c.byID[item.ID] = i
		}
	}
	for face, color := range faceColors {
		c.faceColors[face] = color
	}
	return c
}

// WithRand pins the source used by RandomItems; meant for tests.
func (c *Catalog) WithRand(rng *rand.Rand) *Catalog {
	c.rngMu.Lock()
	c.rng = rng
	c.rngMu.Unlock()
	return c
}

// Len is the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Items returns a copy of every item in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// FaceColors returns a copy of the face color map.
func (c *Catalog) FaceColors() map[string]string {
	out := make(map[string]string, len(c.faceColors))
	for k, v := range c.faceColors {
		out[k] = v
	}
	return out
}

// ItemsByFace returns the items stored on a face in catalog order.
func (c *Catalog) ItemsByFace(faceID string) []Item {
	out := []Item{}
	for _, item := range c.items {
		if item.FaceID == faceID {
			out = append(out, item)
		}
	}
	return out
}

// ItemByName matches the whole name, ignoring case.
func (c *Catalog) ItemByName(name string) (Item, error) {
	for _, item := range c.items {
		if strings.EqualFold(item.Name, name) {
			return item, nil
		}
	}
	return Item{}, ErrNotFound
}

// ItemByID returns the first item carrying id.
func (c *Catalog) ItemByID(id string) (Item, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return c.items[idx], nil
}

// SearchItems matches query against names and descriptions, ignoring case.
func (c *Catalog) SearchItems(query string) []Item {
	q := strings.ToLower(query)
	out := []Item{}
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Name), q) || strings.Contains(strings.ToLower(item.Description), q) {
			out = append(out, item)
		}
	}
	return out
}

// RandomItems samples min(count, Len()) distinct items. Each call may return a different subset.
func (c *Catalog) RandomItems(count int) []Item {
	if count <= 0 || len(c.items) == 0 {
		return []Item{}
	}
	if count > len(c.items) {
		count = len(c.items)
	}
	perm := c.perm(len(c.items))
	out := make([]Item, 0, count)
	for _, idx := range perm[:count] {
		out = append(out, c.items[idx])
	}
	return out
}

func (c *Catalog) perm(n int) []int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	if c.rng == nil {
		return rand.Perm(n)
	}
	return c.rng.Perm(n)
}

// FaceColor returns the face's color or FallbackColor.
func (c *Catalog) FaceColor(faceID string) string {
	if color, ok := c.faceColors[faceID]; ok {
		return color
	}
	return FallbackColor
}

// UniqueFaceIDs lists faces that hold at least one item, sorted.
func (c *Catalog) UniqueFaceIDs() []string {
	seen := make(map[string]struct{})
	for _, item := range c.items {
		seen[item.FaceID] = struct{}{}
	}
	faces := make([]string, 0, len(seen))
	for face := range seen {
		faces = append(faces, face)
	}
	sort.Strings(faces)
	return faces
}
