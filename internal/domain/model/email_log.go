package model

import "time"

type EmailStatus string

const (
	EmailStatusPending EmailStatus = "PENDING"
	EmailStatusSent    EmailStatus = "SENT"
	EmailStatusFailed  EmailStatus = "FAILED"
)

// 送信メールの記録。リトライ回数と最後のエラーを残す。
type EmailLog struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Recipient string      `gorm:"type:varchar(255);not null;index" json:"to"`
	Subject   string      `gorm:"type:varchar(255);not null" json:"subject"`
	Status    EmailStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Attempts  int         `gorm:"not null;default:0" json:"attempts"`
	LastError string      `gorm:"type:text" json:"last_error"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
