package inventory

import "github.com/shopspring/decimal"

// itemRecord is one catalog row; Position keeps the generator's ordering.
type itemRecord struct {
	Position    int             `gorm:"primaryKey;autoIncrement:false"`
	ItemID      string          `gorm:"size:32;index;not null"`
	Name        string          `gorm:"size:120;index;not null"`
	Barcode     string          `gorm:"size:32;not null"`
	FaceID      string          `gorm:"size:16;index;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unit        string          `gorm:"size:8;not null"`
	Category    string          `gorm:"size:16;not null"`
	Brand       string          `gorm:"size:64"`
	ImageURL    string          `gorm:"size:255"`
}

func (itemRecord) TableName() string { return "inventory_items" }

type faceColorRecord struct {
	FaceID string `gorm:"primaryKey;size:16"`
	Color  string `gorm:"size:16;not null"`
}

func (faceColorRecord) TableName() string { return "face_colors" }
