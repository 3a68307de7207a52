package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for appointments and slot queries
const DateLayout = "2006-01-02"

// BookingLeadTime is the minimum lead time before a same-day slot can be booked.
// It is fixed and not configurable per doctor.
const BookingLeadTime = 30 * time.Minute

// DefaultAvailabilityWindowDays is the rolling window used for date-picker marking
const DefaultAvailabilityWindowDays = 30

var (
	ErrInvalidDate    = errors.New("invalid date format, use YYYY-MM-DD")
	ErrNotMasterSlot  = errors.New("time is not one of the hourly booking slots")
	ErrInvalidWeekday = errors.New("invalid weekday name")
)

// SlotStatus classifies a master slot for a given date
type SlotStatus string

const (
	SlotAvailable    SlotStatus = "available"
	SlotTimePassed   SlotStatus = "time_passed"
	SlotNotAvailable SlotStatus = "not_available"
)

// SlotView is one classified entry of a doctor's slot list
type SlotView struct {
	Time      string     `json:"time"`
	Status    SlotStatus `json:"status"`
	Available bool       `json:"available"`
}

// DayView marks one date of the rolling availability window
type DayView struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Enabled bool   `json:"enabled"`
	IsToday bool   `json:"is_today"`
}

// ClassifySlots classifies every master slot against the doctor's available
// times for targetDate. now must already be expressed in the booking location;
// targetDate is compared against now's calendar date to decide "today".
//
// Stored times are parsed before comparison, so entries that differ only in
// zero-padding or meridiem case still match. Entries that cannot be parsed
// match nothing.
func ClassifySlots(master []TimeOfDay, doctorTimes []string, targetDate string, now time.Time) []SlotView {
	offered := make(map[TimeOfDay]struct{}, len(doctorTimes))
	for _, raw := range doctorTimes {
		t, err := ParseTimeOfDay(raw)
		if err != nil {
			continue
		}
		offered[t] = struct{}{}
	}

	isToday := targetDate == now.Format(DateLayout)
	threshold := TimeOfDayOf(now) + TimeOfDay(BookingLeadTime/time.Minute)

	views := make([]SlotView, 0, len(master))
	for _, slot := range master {
		status := SlotAvailable
		if _, ok := offered[slot]; !ok {
			status = SlotNotAvailable
		} else if isToday && slot <= threshold {
			status = SlotTimePassed
		}

		views = append(views, SlotView{
			Time:      slot.String(),
			Status:    status,
			Available: status == SlotAvailable,
		})
	}
	return views
}

// AvailableDates returns windowDays consecutive dates starting at now's
// calendar day. A date is enabled when its weekday is one of availableDays;
// today is always enabled so the caller can show why nothing is bookable.
func AvailableDates(availableDays []string, now time.Time, windowDays int) []DayView {
	if windowDays <= 0 {
		windowDays = DefaultAvailabilityWindowDays
	}

	accepted := make(map[time.Weekday]struct{}, len(availableDays))
	for _, name := range availableDays {
		if wd, ok := parseWeekday(name); ok {
			accepted[wd] = struct{}{}
		}
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := make([]DayView, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		day := start.AddDate(0, 0, i)
		_, accepts := accepted[day.Weekday()]
		days = append(days, DayView{
			Date:    day.Format(DateLayout),
			Weekday: day.Weekday().String(),
			Enabled: accepts || i == 0,
			IsToday: i == 0,
		})
	}
	return days
}

// ParseDate parses a YYYY-MM-DD calendar date in loc
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// NormalizeSlotTime canonicalizes a requested booking time and checks it is a master slot
func NormalizeSlotTime(s string) (string, error) {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	if !IsMasterSlot(t) {
		return "", ErrNotMasterSlot
	}
	return t.String(), nil
}

// NormalizeAvailableTimes canonicalizes a doctor's available times, rejects
// anything outside the master list, drops duplicates and orders the result
// along the master list.
func NormalizeAvailableTimes(times []string) ([]string, error) {
	seen := make(map[TimeOfDay]struct{}, len(times))
	slots := make([]TimeOfDay, 0, len(times))
	for _, raw := range times {
		t, err := ParseTimeOfDay(raw)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, err)
		}
		if !IsMasterSlot(t) {
			return nil, fmt.Errorf("%q: %w", raw, ErrNotMasterSlot)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		slots = append(slots, t)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	normalized := make([]string, len(slots))
	for i, t := range slots {
		normalized[i] = t.String()
	}
	return normalized, nil
}

// NormalizeWeekdays title-cases weekday names, drops duplicates and orders
// them Sunday first.
func NormalizeWeekdays(days []string) ([]string, error) {
	seen := make(map[time.Weekday]struct{}, len(days))
	weekdays := make([]time.Weekday, 0, len(days))
	for _, raw := range days {
		wd, ok := parseWeekday(raw)
		if !ok {
			return nil, fmt.Errorf("%q: %w", raw, ErrInvalidWeekday)
		}
		if _, dup := seen[wd]; dup {
			continue
		}
		seen[wd] = struct{}{}
		weekdays = append(weekdays, wd)
	}
	sort.Slice(weekdays, func(i, j int) bool { return weekdays[i] < weekdays[j] })

	normalized := make([]string, len(weekdays))
	for i, wd := range weekdays {
		normalized[i] = wd.String()
	}
	return normalized, nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	name = strings.TrimSpace(name)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, true
		}
	}
	return 0, false
}
