package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Платформы календаря, которые предлагаем клиенту по умолчанию.
var DefaultCalendarPlatforms = []string{"Google Calendar", "Apple Calendar", "Outlook", "Office 365"}

// event_services — пакеты услуг DJ.
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string `gorm:"type:varchar(200);not null;index"`
	Description string `gorm:"type:text"`
	// dj_set_club, dj_set_festival, private_event, corporate_event, production, workshop
	ServiceType string `gorm:"type:varchar(50);not null"`

	// Цены ориентировочные, обсуждаются с клиентом.
	BasePrice    float64  `gorm:"type:numeric(10,2)"`
	PricePerHour *float64 `gorm:"type:numeric(10,2)"`
	MinHours     int      `gorm:"not null;default:2"`
	MaxHours     int      `gorm:"not null;default:8"`

	IsActive             bool `gorm:"not null;index"`
	RequiresConsultation bool `gorm:"not null;default:false"`

	IncludesEquipment  bool `gorm:"not null"`
	IncludesLighting   bool `gorm:"not null;default:false"`
	IncludesMCServices bool `gorm:"column:includes_mc_services;not null;default:false"`

	CalendarPlatforms datatypes.JSONSlice[string]

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Service) TableName() string { return "event_services" }

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Platforms возвращает список платформ услуги или дефолтный.
func (s *Service) Platforms() []string {
	if s == nil || len(s.CalendarPlatforms) == 0 {
		out := make([]string, len(DefaultCalendarPlatforms))
		copy(out, DefaultCalendarPlatforms)
		return out
	}
	return []string(s.CalendarPlatforms)
}

// FallbackService — минимальная услуга, которую создаём, если каталог пуст.
func FallbackService() *Service {
	return &Service{
		Name:        "DJ Set - Club",
		Description: "Professional DJ set for club events",
		ServiceType: "dj_set_club",
		BasePrice:   1500,
		MinHours:    2,
		MaxHours:    8,
		IsActive:    true,

		IncludesEquipment: true,
	}
}
