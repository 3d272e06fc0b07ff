package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Статусы, которые занимают дату.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// Из confirmed/cancelled переходов нет.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

const (
	DefaultDurationHours   = 4
	DefaultContactMethod   = "email"
	activeBookingIndexName = "ux_dj_bookings_active_event_date"
)

// dj_bookings
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null;index"`

	// Один DJ, одно мероприятие в день, время внутри дня не учитываем.
	EventDate          datatypes.Date `gorm:"type:date;not null;index"`
	EventTime          datatypes.Time `gorm:"not null"`
	EventDurationHours int            `gorm:"not null"`
	EventType          string         `gorm:"type:varchar(50);not null"`

	VenueName    string  `gorm:"type:varchar(200);not null"`
	VenueAddress *string `gorm:"type:varchar(300)"`
	VenueCity    *string `gorm:"type:varchar(100)"`

	Status          BookingStatus `gorm:"type:varchar(32);not null;index"`
	GuestCount      *int
	SpecialRequests string   `gorm:"type:text"`
	Budget          *float64 `gorm:"type:numeric(10,2)"`
	Notes           string   `gorm:"type:text"`

	PreferredContactMethod string `gorm:"type:varchar(20);not null"`

	ConfirmationSent bool `gorm:"not null;default:false"`
	ReminderSent     bool `gorm:"not null;default:false"`

	// Интеграция с календарями.
	CalendarEventSent bool                        `gorm:"not null;default:false"`
	CalendarPlatforms datatypes.JSONSlice[string] `gorm:"type:text"`
	EventTitle        string                      `gorm:"type:varchar(500)"`
	EventLocation     string                      `gorm:"type:varchar(500)"`

	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
	ConfirmedAt *time.Time
	CancelledAt *time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Service  *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Booking) TableName() string { return "dj_bookings" }

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// EventDateString отдаёт дату в формате YYYY-MM-DD.
func (b *Booking) EventDateString() string {
	return time.Time(b.EventDate).Format(DateLayout)
}

// EventTimeString отдаёт время в формате HH:MM.
func (b *Booking) EventTimeString() string {
	d := time.Duration(b.EventTime)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format(TimeLayout)
}

// StartsAt собирает момент начала мероприятия в заданной зоне.
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d := time.Time(b.EventDate).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc).Add(time.Duration(b.EventTime))
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DateOf приводит момент к дате (полночь UTC), в таком виде дата лежит в БД.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// TimeOf берёт из момента только часы и минуты.
func TimeOf(t time.Time) datatypes.Time {
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0)
}
