package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GigStatus string

const (
	GigStatusUpcoming  GigStatus = "upcoming"
	GigStatusPast      GigStatus = "past"
	GigStatusCancelled GigStatus = "cancelled"
)

func (s GigStatus) Valid() bool {
	switch s {
	case GigStatusUpcoming, GigStatusPast, GigStatusCancelled:
		return true
	}
	return false
}

const DefaultGigType = "club"

// events — публичная афиша выступлений. С бронями не связана:
// сюда попадают и чужие вечеринки, где DJ играет по приглашению.
type Gig struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name string         `gorm:"type:varchar(255);not null"`
	Date datatypes.Date `gorm:"type:date;not null;index"`

	// HH:MM, может быть не объявлено
	Time  string `gorm:"type:varchar(5)"`
	Venue string `gorm:"type:varchar(255);not null"`
	City  string `gorm:"type:varchar(100)"`
	Type  string `gorm:"type:varchar(50);not null"`

	Description string   `gorm:"type:text"`
	Artists     string   `gorm:"type:text"`
	Price       *float64 `gorm:"type:numeric(10,2)"`
	Capacity    *int
	ImageURL    string `gorm:"type:text"`

	Status GigStatus `gorm:"type:varchar(32);not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Gig) TableName() string { return "events" }

func (g *Gig) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g *Gig) DateString() string {
	return time.Time(g.Date).Format(DateLayout)
}
