package model

import "time"

type EnquiryStatus string

const (
	EnquiryStatusNew        EnquiryStatus = "NEW"
	EnquiryStatusInProgress EnquiryStatus = "IN_PROGRESS"
	EnquiryStatusResolved   EnquiryStatus = "RESOLVED"
	EnquiryStatusClosed     EnquiryStatus = "CLOSED"
)

func (s EnquiryStatus) Valid() bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusInProgress, EnquiryStatusResolved, EnquiryStatusClosed:
		return true
	}
	return false
}

// 問い合わせ。
type Enquiry struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	Email     string        `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone     string        `gorm:"type:varchar(30)" json:"phone"`
	Subject   string        `gorm:"type:varchar(255)" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    EnquiryStatus `gorm:"type:varchar(20);not null;default:'NEW';index" json:"status"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
