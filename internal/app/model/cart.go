package model

import (
	"time"

	"gorm.io/gorm"
)

// ShoppingCart holds a set of fish references for a user. Cart membership has
// set semantics: one row per (cart, fish), no per-item quantity. A user may own
// more than one cart; uniqueness per user is deliberately not enforced.
type ShoppingCart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// TotalPrice sums the current catalog price of every member fish. Prices are
// never snapshotted at add time; the total moves with the catalog.
func (c *ShoppingCart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Fish.Price
	}
	return total
}

type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_fish" json:"cart_id"`
	FishID    uint      `gorm:"not null;uniqueIndex:idx_cart_fish" json:"fish_id"`
	CreatedAt time.Time `json:"created_at"`

	Fish Fish `gorm:"foreignKey:FishID" json:"fish,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
