package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order is a two-state machine: draft on creation, confirmed after a
// successful stock commit. Confirmation is the only transition and is one-way.
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OrderNumber string         `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus    `gorm:"type:varchar(20);default:'draft'" json:"status"`
	OrderDate   time.Time      `gorm:"not null" json:"order_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// TotalPrice sums the live price of every line. Requires Lines and their Fish
// to be loaded.
func (o *Order) TotalPrice() float64 {
	var total float64
	for i := range o.Lines {
		total += o.Lines[i].Price()
	}
	return total
}

type OrderLine struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	FishID    uint      `gorm:"not null;index" json:"fish_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
	Fish  Fish  `gorm:"foreignKey:FishID" json:"fish,omitempty"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// Price is the line's live price: current fish price times quantity. No price
// snapshot is taken at order creation or confirmation.
func (l *OrderLine) Price() float64 {
	return l.Fish.Price * float64(l.Quantity)
}
