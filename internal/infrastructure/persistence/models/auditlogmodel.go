package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLogModel struct {
	ID           uint           `gorm:"primaryKey"`
	EventID      string         `gorm:"size:36;not null;uniqueIndex"`
	Action       string         `gorm:"size:64;not null;index"`
	ResourceType string         `gorm:"size:32;not null;index:idx_audit_resource"`
	ResourceID   uint           `gorm:"index:idx_audit_resource"`
	UserID       uint           `gorm:"index"`
	BeforeData   datatypes.JSON `gorm:"column:before_data"`
	AfterData    datatypes.JSON `gorm:"column:after_data"`
	Description  string         `gorm:"size:255"`
	CreatedAt    time.Time      `gorm:"index"`
}

func (AuditLogModel) TableName() string {
	return TableAuditLogs
}
