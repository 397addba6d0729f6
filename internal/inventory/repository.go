package inventory

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"grocerease/pkg/inventory"
)

// Repository persists the catalog through gorm so the server can load it from any supported database.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the catalog tables when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&itemRecord{}, &faceColorRecord{})
}

// Replace swaps the stored catalog for doc in a single transaction.
func (r *Repository) Replace(ctx context.Context, doc inventory.Document) error {
	items := make([]itemRecord, 0, len(doc.Items))
	for i, item := range doc.Items {
		items = append(items, itemRecord{
			Position:    i + 1,
			ItemID:      item.ID,
			Name:        item.Name,
			Barcode:     item.Barcode,
			FaceID:      item.FaceID,
			Description: item.Description,
			Price:       item.Price,
			Unit:        string(item.Unit),
			Category:    string(item.Category),
			Brand:       item.Brand,
			ImageURL:    item.ImageURL,
		})
	}
	faces := make([]string, 0, len(doc.FaceColors))
	for face := range doc.FaceColors {
		faces = append(faces, face)
	}
	sort.Strings(faces)
	colors := make([]faceColorRecord, 0, len(faces))
	for _, face := range faces {
		colors = append(colors, faceColorRecord{FaceID: face, Color: doc.FaceColors[face]})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := wipe.Delete(&itemRecord{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&faceColorRecord{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.CreateInBatches(items, 200).Error; err != nil {
				return err
			}
		}
		if len(colors) > 0 {
			if err := tx.CreateInBatches(colors, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads the stored catalog back in its original order.
func (r *Repository) Load(ctx context.Context) (inventory.Document, error) {
	var records []itemRecord
	if err := r.db.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		return inventory.Document{}, err
	}
	var colors []faceColorRecord
	if err := r.db.WithContext(ctx).Find(&colors).Error; err != nil {
		return inventory.Document{}, err
	}

	doc := inventory.Document{
		Items:      make([]inventory.Item, 0, len(records)),
		FaceColors: make(map[string]string, len(colors)),
	}
	for _, rec := range records {
		unit, err := inventory.ParseUnit(rec.Unit)
		if err != nil {
			return inventory.Document{}, fmt.Errorf("item %s: %w", rec.ItemID, err)
		}
		category, err := inventory.ParseCategory(rec.Category)
		if err != nil {
			return inventory.Document{}, fmt.Errorf("item %s: %w", rec.ItemID, err)
		}
		doc.Items = append(doc.Items, inventory.Item{
			ID:          rec.ItemID,
			Name:        rec.Name,
			Barcode:     rec.Barcode,
			FaceID:      rec.FaceID,
			Description: rec.Description,
			Price:       rec.Price.Round(2),
			Unit:        unit,
			Category:    category,
			Brand:       rec.Brand,
			ImageURL:    rec.ImageURL,
		})
	}
	for _, c := range colors {
		doc.FaceColors[c.FaceID] = c.Color
	}
	return doc, nil
}
