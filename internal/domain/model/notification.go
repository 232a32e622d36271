package model

import "time"

type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "ORDER"
	NotificationTypeEnquiry NotificationType = "ENQUIRY"
	NotificationTypeSystem  NotificationType = "SYSTEM"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityNormal NotificationPriority = "NORMAL"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

// 管理者向けのお知らせ。注文・問い合わせの作成時に副作用として積まれる。
type Notification struct {
	ID           string               `gorm:"type:uuid;primaryKey" json:"id"`
	Type         NotificationType     `gorm:"type:varchar(20);not null;index" json:"type"`
	Title        string               `gorm:"type:varchar(255);not null" json:"title"`
	Message      string               `gorm:"type:text" json:"message"`
	Priority     NotificationPriority `gorm:"type:varchar(10);not null;default:'NORMAL';index" json:"priority"`
	Read         bool                 `gorm:"not null;default:false;index" json:"read"`
	ReadAt       *time.Time           `json:"read_at"`
	MetadataJSON string               `gorm:"type:text;column:metadata" json:"metadata"`
	CreatedAt    time.Time            `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
