package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Fish is a sellable catalog product. The IsAvailable, Rating and NumReviews
// columns are derived: they are never written by callers directly and are
// recomputed inside the same transaction as any mutation of their sources
// (stock quantity, review set).
type Fish struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Species       string         `gorm:"not null" json:"species"`
	Size          float64        `gorm:"not null" json:"size"` // body length (cm)
	Price         float64        `gorm:"not null" json:"price"`
	Description   string         `gorm:"type:text" json:"description"`
	ImageURLs     pq.StringArray `gorm:"type:text[]" json:"image_urls,omitempty"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	IsAvailable   bool           `gorm:"default:false" json:"is_available"`
	Rating        float64        `gorm:"default:0" json:"rating"`
	NumReviews    int            `gorm:"default:0" json:"num_reviews"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Reviews    []Review   `gorm:"foreignKey:FishID" json:"-"`
	Categories []Category `gorm:"many2many:fish_categories" json:"categories,omitempty"`
}

func (Fish) TableName() string {
	return "fishes"
}
