package model

import (
	"time"

	"gorm.io/gorm"
)

// Platform is a named marketplace instance grouping fish and categories.
// Associations are ID-based join tables; the platform never embeds its fish.
type Platform struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	UserID    uint           `gorm:"not null;index" json:"user_id"` // owner
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Fishes     []Fish     `gorm:"many2many:platform_fishes" json:"fishes,omitempty"`
	Categories []Category `gorm:"many2many:platform_categories" json:"categories,omitempty"`
}

func (Platform) TableName() string {
	return "platforms"
}

// PlatformUser is a (user, platform) membership. The pair is unique: a user
// holds at most one account per platform.
type PlatformUser struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_platform_membership" json:"user_id"`
	PlatformID     uint      `gorm:"not null;uniqueIndex:idx_platform_membership" json:"platform_id"`
	LastActivityAt time.Time `gorm:"not null" json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Platform Platform `gorm:"foreignKey:PlatformID" json:"-"`
}

func (PlatformUser) TableName() string {
	return "platform_users"
}

type ActivityType string

const (
	ActivityLogin  ActivityType = "login"
	ActivityLogout ActivityType = "logout"
)

// ActivityLog rows are append-only and listed newest-first.
type ActivityLog struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	PlatformID   uint         `gorm:"not null;index" json:"platform_id"`
	ActivityType ActivityType `gorm:"type:varchar(20);not null" json:"activity_type"`
	CreatedAt    time.Time    `json:"created_at"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Platform Platform `gorm:"foreignKey:PlatformID" json:"-"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
