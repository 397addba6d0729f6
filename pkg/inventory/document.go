package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

// Document is the structured form the converter emits and the server loads.
type Document struct {
	Items      []Item
	FaceColors map[string]string
}

// documentItem carries the price as a plain JSON number.
type documentItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Barcode     string  `json:"barcode"`
	FaceID      string  `json:"face_id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	ImageURL    string  `json:"image_url"`
}

type documentWire struct {
	Items      []documentItem    `json:"items"`
	FaceColors map[string]string `json:"face_colors"`
}

// MarshalJSON writes {"items": [...], "face_colors": {...}}.
func (d Document) MarshalJSON() ([]byte, error) {
	wire := documentWire{
		Items:      make([]documentItem, 0, len(d.Items)),
		FaceColors: d.FaceColors,
	}
	if wire.FaceColors == nil {
		wire.FaceColors = map[string]string{}
	}
	for _, item := range d.Items {
		wire.Items = append(wire.Items, documentItem{
			ID:          item.ID,
			Name:        item.Name,
			Barcode:     item.Barcode,
			FaceID:      item.FaceID,
			Description: item.Description,
			Price:       item.Price.InexactFloat64(),
			Unit:        string(item.Unit),
			Category:    string(item.Category),
			Brand:       item.Brand,
			ImageURL:    item.ImageURL,
		})
	}
	return json.Marshal(wire)
}

// UnmarshalJSON validates units and categories and rounds prices back to cents.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire documentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	items := make([]Item, 0, len(wire.Items))
	for i, raw := range wire.Items {
		unit, err := ParseUnit(raw.Unit)
		if err != nil {
			return fmt.Errorf("item %d (%s): %w", i, raw.ID, err)
		}
		category, err := ParseCategory(raw.Category)
		if err != nil {
			return fmt.Errorf("item %d (%s): %w", i, raw.ID, err)
		}
		items = append(items, Item{
			ID:          raw.ID,
			Name:        raw.Name,
			Barcode:     raw.Barcode,
			FaceID:      raw.FaceID,
			Description: raw.Description,
			Price:       decimal.NewFromFloat(raw.Price).Round(2),
			Unit:        unit,
			Category:    category,
			Brand:       raw.Brand,
			ImageURL:    raw.ImageURL,
		})
	}
	d.Items = items
	d.FaceColors = wire.FaceColors
	if d.FaceColors == nil {
		d.FaceColors = map[string]string{}
	}
	return nil
}

// Catalog builds the read-only accessor view over the document.
func (d Document) Catalog() *Catalog {
	return NewCatalog(d.Items, d.FaceColors)
}

// EncodeDocument writes the document as indented JSON.
func EncodeDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// DecodeDocument reads a document written by EncodeDocument.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// LoadDocument opens and decodes a data file.
func LoadDocument(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	doc, err := DecodeDocument(f)
	if err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// SaveDocument writes the data file, replacing any previous content.
func SaveDocument(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDocument(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
