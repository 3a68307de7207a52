package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-healthcare-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Appointment event types published to downstream push/SMS workers
const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentCancelled   = "appointment.cancelled"
)

type AppointmentEvent struct {
	Type          string     `json:"type"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	PatientName   string     `json:"patient_name"`
	ContactNumber string     `json:"contact_number"`
	Status        string     `json:"status"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// NewAppointmentEvent snapshots an appointment into an event
func NewAppointmentEvent(eventType string, a *entity.Appointment, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		DoctorName:    a.DoctorName,
		UserID:        a.UserID,
		Date:          a.Date,
		Time:          a.Time,
		PatientName:   a.PatientName,
		ContactNumber: a.ContactNumber,
		Status:        string(a.Status),
		OccurredAt:    at,
	}
}

// Notifier hands committed appointment changes to the notification pipeline
type Notifier interface {
	Notify(ctx context.Context, event AppointmentEvent) error
}

type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, event AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, n.channel, err)
	}
	return nil
}
