package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, wib)

	tests := []struct {
		name     string
		date     string
		clock    string
		want     StatusView
		upcoming bool
	}{
		{"past day", "2024-06-09", "05:00 PM", StatusView{Label: LabelCompleted, ColorClass: ColorMuted}, false},
		{"earlier today", "2024-06-10", "7:00 am", StatusView{Label: LabelCompleted, ColorClass: ColorMuted}, false},
		{"within an hour", "2024-06-10", "09:00 AM", StatusView{Label: LabelStartingSoon, Urgent: true, ColorClass: ColorWarning}, true},
		{"exactly two hours", "2024-06-10", "10:00 AM", StatusView{Label: LabelStartingSoon, Urgent: true, ColorClass: ColorWarning}, true},
		{"three hours", "2024-06-10", "11:00 AM", StatusView{Label: "In 3h", ColorClass: ColorInfo}, true},
		{"exactly a day", "2024-06-11", "08:00 AM", StatusView{Label: "In 24h", ColorClass: ColorInfo}, true},
		{"just over a day", "2024-06-11", "09:00 AM", StatusView{Label: "In 1d", ColorClass: ColorSuccess}, true},
		{"three days", "2024-06-13", "09:00 AM", StatusView{Label: "In 3d", ColorClass: ColorSuccess}, true},
		{"malformed time", "2024-06-13", "nine", StatusView{Label: LabelUnknown, ColorClass: ColorMuted}, false},
		{"malformed date", "13/06/2024", "09:00 AM", StatusView{Label: LabelUnknown, ColorClass: ColorMuted}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.date, tt.clock, false, now))
			assert.Equal(t, tt.upcoming, IsUpcoming(tt.date, tt.clock, false, now))
		})
	}
}

func TestDeriveStatus_CancelledIsTerminal(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, wib)
	want := StatusView{Label: LabelCancelled, ColorClass: ColorDanger}

	for _, date := range []string{"2020-01-01", "2024-06-10", "2030-12-31", "bad"} {
		assert.Equal(t, want, DeriveStatus(date, "09:00 AM", true, now), date)
		assert.False(t, IsUpcoming(date, "09:00 AM", true, now), date)
	}
}

func TestDeriveStatus_AgreesWithIsUpcoming(t *testing.T) {
	start := time.Date(2024, 6, 8, 0, 0, 0, 0, wib)
	dates := []string{"2024-06-09", "2024-06-10", "2024-06-11", "2024-06-12"}

	for step := 0; step < 4*24*4; step++ {
		now := start.Add(time.Duration(step) * 15 * time.Minute)
		for _, date := range dates {
			for _, slot := range MasterSlots() {
				for _, cancelled := range []bool{false, true} {
					status := DeriveStatus(date, slot.String(), cancelled, now)
					upcoming := IsUpcoming(date, slot.String(), cancelled, now)
					if status.Label == LabelCompleted || status.Label == LabelCancelled {
						require.False(t, upcoming, "now=%s %s %s", now, date, slot)
					}
					if upcoming {
						require.NotEqual(t, LabelCompleted, status.Label)
						require.NotEqual(t, LabelCancelled, status.Label)
					}
				}
			}
		}
	}
}

func TestDeriveStatus_Idempotent(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, wib)
	first := DeriveStatus("2024-06-12", "03:00 PM", false, now)
	second := DeriveStatus("2024-06-12", "03:00 PM", false, now.Add(time.Second))
	assert.Equal(t, first, second)
}

func TestAppointmentDateTime(t *testing.T) {
	at, err := AppointmentDateTime("2024-06-10", "01:00 PM", wib)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 13, 0, 0, 0, wib), at)

	_, err = AppointmentDateTime("2024-06-10", "13:00", wib)
	assert.Error(t, err)
}
