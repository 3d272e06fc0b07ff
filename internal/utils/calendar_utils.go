package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrEventDuration    = errors.New("event duration must be positive")
)

// TimeRange представляет временной интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создаёт интервал и делает простую валидацию.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// EventWindow строит интервал выступления: начало + длительность в часах.
// Конец может перейти на следующие сутки.
func EventWindow(start time.Time, durationHours int) (TimeRange, error) {
	if durationHours <= 0 {
		return TimeRange{}, ErrEventDuration
	}
	return NewTimeRange(start, start.Add(time.Duration(durationHours)*time.Hour))
}

// ===== Ссылки "добавить в календарь" =====

// CalendarEvent: данные для ссылок и .ics.
type CalendarEvent struct {
	UID         string
	Title       string
	Description string
	Location    string
	Organizer   string
	Window      TimeRange
}

const (
	compactUTCLayout = "20060102T150405Z"
	isoUTCLayout     = "2006-01-02T15:04:05Z"
)

func GoogleCalendarURL(ev CalendarEvent) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", ev.Title)
	params.Set("details", ev.Description)
	params.Set("location", ev.Location)
	params.Set("dates", ev.Window.Start.UTC().Format(compactUTCLayout)+"/"+ev.Window.End.UTC().Format(compactUTCLayout))
	return "https://calendar.google.com/calendar/render?" + params.Encode()
}

func OutlookCalendarURL(ev CalendarEvent) string {
	return composeDeeplink("https://outlook.live.com/calendar/0/deeplink/compose", ev)
}

func Office365CalendarURL(ev CalendarEvent) string {
	return composeDeeplink("https://outlook.office.com/calendar/0/deeplink/compose", ev)
}

func composeDeeplink(base string, ev CalendarEvent) string {
	params := url.Values{}
	params.Set("path", "/calendar/action/compose")
	params.Set("rru", "addevent")
	params.Set("subject", ev.Title)
	params.Set("body", ev.Description)
	params.Set("location", ev.Location)
	params.Set("startdt", ev.Window.Start.UTC().Format(isoUTCLayout))
	params.Set("enddt", ev.Window.End.UTC().Format(isoUTCLayout))
	return base + "?" + params.Encode()
}

// ICS собирает VCALENDAR с одним событием и напоминанием за 2 часа.
// Экранирование и перенос строк по 75 октетов делает golang-ical.
func ICS(ev CalendarEvent, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId("-//ARCH1TECT//DJ Booking//PL")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	event := cal.AddEvent(ev.UID)
	event.SetDtStampTime(now)
	event.SetStartAt(ev.Window.Start)
	event.SetEndAt(ev.Window.End)
	event.SetSummary(normalizeNewlines(ev.Title))
	event.SetDescription(normalizeNewlines(ev.Description))
	event.SetLocation(normalizeNewlines(ev.Location))
	if ev.Organizer != "" {
		event.SetOrganizer("MAILTO:"+ev.Organizer, ics.WithCN("ARCH1TECT"))
	}
	event.SetStatus(ics.ObjectStatusConfirmed)

	alarm := event.AddAlarm()
	alarm.SetAction(ics.ActionDisplay)
	alarm.SetTrigger("-PT2H")
	alarm.SetProperty(ics.ComponentPropertyDescription, "Przypomnienie: Event za 2 godziny!")

	return cal.Serialize()
}

// одиночный \r в TEXT-значении ломает разбор строк у клиентов
var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeNewlines(s string) string {
	return newlineNormalizer.Replace(s)
}

// ===== Форматирование дат для писем =====

var plWeekdays = map[time.Weekday]string{
	time.Monday:    "Poniedziałek",
	time.Tuesday:   "Wtorek",
	time.Wednesday: "Środa",
	time.Thursday:  "Czwartek",
	time.Friday:    "Piątek",
	time.Saturday:  "Sobota",
	time.Sunday:    "Niedziela",
}

// FormatDatePL: "15.03.2030 (Piątek)".
func FormatDatePL(t time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), plWeekdays[t.Weekday()])
}

// FormatRangeForUser форматирует интервал в человекочитаемую строку.
// Если loc != nil, время переводится в указанный часовой пояс.
func FormatRangeForUser(tr TimeRange, loc *time.Location) string {
	start := tr.Start
	end := tr.End

	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}

	weekday := plWeekdays[start.Weekday()]
	// Дата в формате ДД.ММ.ГГГГ
	dateStr := start.Format("02.01.2006")

	return fmt.Sprintf("%s, %s, %s–%s", weekday, dateStr, start.Format("15:04"), end.Format("15:04"))
}
