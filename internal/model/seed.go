package model

import (
	"fmt"

	"gorm.io/gorm"
)

func price(v float64) *float64 { return &v }

// DefaultServices возвращает стартовый каталог пакетов.
func DefaultServices() []Service {
	return []Service{
		{
			Name:              "DJ Set - Klub",
			Description:       "Profesjonalny set DJ dla klubów. Zawiera pełen sprzęt, oświetlenie i dostosowanie repertuaru do miejsca.",
			ServiceType:       "dj_set_club",
			BasePrice:         1500,
			PricePerHour:      price(400),
			MinHours:          2,
			MaxHours:          6,
			IsActive:          true,
			IncludesEquipment: true,
			IncludesLighting:  true,
		},
		{
			Name:                 "DJ Set - Festiwal",
			Description:          "Występy na dużych eventach i festiwalach. Doświadczenie w graniu dla tysięcy ludzi na open air i indoor.",
			ServiceType:          "dj_set_festival",
			BasePrice:            3000,
			PricePerHour:         price(600),
			MinHours:             1,
			MaxHours:             4,
			IsActive:             true,
			RequiresConsultation: true,
			IncludesEquipment:    true,
		},
		{
			Name:               "Event Prywatny",
			Description:        "DJ na imprezy prywatne - wesela, urodziny, eventy firmowe. Dostosowanie muzyki do Twoich preferencji.",
			ServiceType:        "private_event",
			BasePrice:          2000,
			PricePerHour:       price(500),
			MinHours:           3,
			MaxHours:           8,
			IsActive:           true,
			IncludesEquipment:  true,
			IncludesLighting:   true,
			IncludesMCServices: true,
		},
		{
			Name:                 "Event Firmowy",
			Description:          "Profesjonalna oprawa muzyczna eventów korporacyjnych. Doświadczenie z wieloma międzynarodowymi firmami.",
			ServiceType:          "corporate_event",
			BasePrice:            2500,
			PricePerHour:         price(550),
			MinHours:             2,
			MaxHours:             6,
			IsActive:             true,
			RequiresConsultation: true,
			IncludesEquipment:    true,
			IncludesLighting:     true,
			IncludesMCServices:   true,
		},
		{
			Name:                 "Produkcja Muzyczna",
			Description:          "Tworzenie autorskich utworów, remiksów i sound designu. Od pomysłu po mastering - kompleksowa produkcja.",
			ServiceType:          "production",
			BasePrice:            1000,
			PricePerHour:         price(200),
			MinHours:             4,
			MaxHours:             20,
			IsActive:             true,
			RequiresConsultation: true,
		},
		{
			Name:                 "DJ Masterclass",
			Description:          "Warsztaty i szkolenia DJ. Nauka technik DJskich, produkcji muzycznej i występów na żywo.",
			ServiceType:          "workshop",
			BasePrice:            800,
			PricePerHour:         price(150),
			MinHours:             2,
			MaxHours:             8,
			IsActive:             true,
			RequiresConsultation: true,
			IncludesEquipment:    true,
		},
	}
}

// SeedServices заполняет каталог, только если таблица пустая.
// Возвращает число вставленных записей.
func SeedServices(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&Service{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	services := DefaultServices()
	if err := db.Create(&services).Error; err != nil {
		return 0, fmt.Errorf("seed services: %w", err)
	}
	return len(services), nil
}
