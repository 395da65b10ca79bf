package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationModel struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;index"`
	Action    string         `gorm:"size:50;not null"`
	Title     string         `gorm:"size:255;not null"`
	Content   string         `gorm:"type:text;not null"`
	Metadata  datatypes.JSON `gorm:"column:metadata"`
	EmailedAt *time.Time
	CreatedAt time.Time `gorm:"index"`
}

func (NotificationModel) TableName() string {
	return TableNotifications
}
