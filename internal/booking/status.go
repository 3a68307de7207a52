package booking

import (
	"fmt"
	"math"
	"time"
)

// Display labels. Only Cancelled corresponds to a persisted status; the rest
// are derived from the current time at read time.
const (
	LabelCancelled    = "Cancelled"
	LabelCompleted    = "Completed"
	LabelStartingSoon = "Starting soon"
	LabelUnknown      = "Unknown"
)

const (
	ColorDanger  = "danger"
	ColorMuted   = "muted"
	ColorWarning = "warning"
	ColorInfo    = "info"
	ColorSuccess = "success"
)

const (
	startingSoonHours = 2
	hoursPerDay       = 24
)

// StatusView is the human-facing status of an appointment
type StatusView struct {
	Label      string `json:"label"`
	Urgent     bool   `json:"urgent"`
	ColorClass string `json:"color_class"`
}

// AppointmentDateTime combines a YYYY-MM-DD date and a 12-hour slot time in loc
func AppointmentDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// DeriveStatus computes the display status of an appointment at now.
// The appointment's date and time are interpreted in now's location.
func DeriveStatus(date, clock string, cancelled bool, now time.Time) StatusView {
	if cancelled {
		return StatusView{Label: LabelCancelled, ColorClass: ColorDanger}
	}

	at, err := AppointmentDateTime(date, clock, now.Location())
	if err != nil {
		return StatusView{Label: LabelUnknown, ColorClass: ColorMuted}
	}

	delta := at.Sub(now)
	if delta < 0 {
		return StatusView{Label: LabelCompleted, ColorClass: ColorMuted}
	}

	hours := delta.Hours()
	switch {
	case hours <= startingSoonHours:
		return StatusView{Label: LabelStartingSoon, Urgent: true, ColorClass: ColorWarning}
	case hours <= hoursPerDay:
		return StatusView{Label: fmt.Sprintf("In %dh", int(math.Floor(hours))), ColorClass: ColorInfo}
	default:
		return StatusView{Label: fmt.Sprintf("In %dd", int(math.Floor(hours/hoursPerDay))), ColorClass: ColorSuccess}
	}
}

// IsUpcoming reports whether a non-cancelled appointment is still ahead of now.
// It uses the same date-time construction as DeriveStatus, so an upcoming
// appointment is never labelled Completed.
func IsUpcoming(date, clock string, cancelled bool, now time.Time) bool {
	if cancelled {
		return false
	}
	at, err := AppointmentDateTime(date, clock, now.Location())
	if err != nil {
		return false
	}
	return at.After(now)
}
