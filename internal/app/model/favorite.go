package model

import (
	"time"
)

// Favorite pairs a user with a fish. The pair carries no unique constraint;
// repeated favorites create additional rows.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FishID    uint      `gorm:"not null;index" json:"fish_id"`
	CreatedAt time.Time `json:"created_at"`

	Fish Fish `gorm:"foreignKey:FishID" json:"fish,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
