package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmation NotificationType = "booking_confirmation"
	NotificationTypeBookingAlert        NotificationType = "booking_alert"
	NotificationTypeBookingApproved     NotificationType = "booking_approved"
	NotificationTypeBookingRejected     NotificationType = "booking_rejected"
	NotificationTypeContactMessage      NotificationType = "contact_message"
)

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelSMS   NotificationChannel = "sms"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// notifications — журнал попыток отправки. Меняются только status/sent_at/error.
type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	BookingID  *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`

	NotificationType NotificationType    `gorm:"type:varchar(50);not null;index"`
	Channel          NotificationChannel `gorm:"type:varchar(20);not null"`
	RecipientEmail   string              `gorm:"type:varchar(120)"`
	RecipientPhone   string              `gorm:"type:varchar(32)"`

	Subject string `gorm:"type:varchar(200)"`
	Message string `gorm:"type:text"`

	Status            NotificationStatus `gorm:"type:varchar(20);not null;index"`
	ProviderMessageID string             `gorm:"type:varchar(255)"`
	SentAt            *time.Time
	ErrorMessage      string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`

	Booking  *Booking  `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = NotificationStatusPending
	}
	return nil
}
