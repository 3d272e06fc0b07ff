package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultFirstName подставляется, если клиент не указал имя.
const DefaultFirstName = "Klient"

// customers
type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null;default:''"`

	// Ключ поиска клиента, сравнение регистрозависимое.
	Email string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Phone string `gorm:"type:varchar(32)"`

	Company *string `gorm:"type:varchar(200)"`
	Address *string `gorm:"type:varchar(300)"`
	City    *string `gorm:"type:varchar(100)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Bookings []Booking `gorm:"foreignKey:CustomerID"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FullName склеивает имя и фамилию обратно.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
