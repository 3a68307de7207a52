package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeOfDay is returned when a 12-hour clock string cannot be parsed
var ErrInvalidTimeOfDay = errors.New("invalid time of day, use HH:MM AM/PM")

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// The 12-hour string form only exists at the storage and HTTP boundary.
type TimeOfDay int

// Master slot list bounds: hourly slots from 09:00 AM to 08:00 PM inclusive
const (
	FirstSlotHour = 9
	LastSlotHour  = 20
)

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// TimeOfDayOf returns the wall-clock time of t in t's own location
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// ParseTimeOfDay parses a 12-hour clock string. It tolerates a missing
// leading zero, lowercase meridiem, missing space before the meridiem and
// surrounding whitespace, so "9:00 am" and "09:00 AM" parse to the same value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	v := strings.ToUpper(strings.TrimSpace(s))

	var meridiem string
	switch {
	case strings.HasSuffix(v, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(v, "PM"):
		meridiem = "PM"
	default:
		return 0, ErrInvalidTimeOfDay
	}

	clock := strings.TrimSpace(strings.TrimSuffix(v, meridiem))
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !isDigits(hh) || !isDigits(mm) {
		return 0, ErrInvalidTimeOfDay
	}

	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}

	hour %= 12
	if meridiem == "PM" {
		hour += 12
	}
	return NewTimeOfDay(hour, minute), nil
}

func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String formats t as zero-padded "HH:MM AM/PM"
func (t TimeOfDay) String() string {
	hour := t.Hour()
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour12, t.Minute(), meridiem)
}

// MasterSlots returns the fixed hourly slot list in ascending order
func MasterSlots() []TimeOfDay {
	slots := make([]TimeOfDay, 0, LastSlotHour-FirstSlotHour+1)
	for hour := FirstSlotHour; hour <= LastSlotHour; hour++ {
		slots = append(slots, NewTimeOfDay(hour, 0))
	}
	return slots
}

// IsMasterSlot reports whether t is one of the master hourly slots
func IsMasterSlot(t TimeOfDay) bool {
	return t.Minute() == 0 && t.Hour() >= FirstSlotHour && t.Hour() <= LastSlotHour
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
