package model

import (
	"time"
)

// Review is immutable once created: no update or delete surface exists.
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	FishID     uint      `gorm:"not null;index" json:"fish_id"`
	Rating     float64   `gorm:"not null" json:"rating"` // bounded to [0,5] at the service layer
	Comment    string    `gorm:"type:text" json:"comment"`
	ReviewDate time.Time `gorm:"not null" json:"review_date"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Fish Fish `gorm:"foreignKey:FishID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
