package models

import "time"

// AppointmentStatus is the lifecycle state of a booked appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is one booked patient visit.
type Appointment struct {
	ID          int64             `json:"id" db:"id"`
	PatientName string            `json:"patientName" db:"patient_name" validate:"required"`
	Service     string            `json:"service" db:"service"`
	StartsAt    time.Time         `json:"startsAt" db:"starts_at" validate:"required"`
	Status      AppointmentStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
}

// Task is a staff to-do item shown on the dashboard.
type Task struct {
	ID        int64      `json:"id" db:"id"`
	Title     string     `json:"title" db:"title" validate:"required"`
	Done      bool       `json:"done" db:"done"`
	DueAt     *time.Time `json:"dueAt,omitempty" db:"due_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// CallLog is one voice-provider call record used for call-volume analytics.
type CallLog struct {
	ID          int64     `json:"id" db:"id"`
	CallID      string    `json:"callId" db:"call_id"`
	CallerID    string    `json:"callerId" db:"caller_id"`
	DurationSec int       `json:"durationSec" db:"duration_sec"`
	StartedAt   time.Time `json:"startedAt" db:"started_at"`
	Outcome     string    `json:"outcome" db:"outcome"`
}

// AnalyticsSummary is the data payload of GET /api/analytics/summary.
type AnalyticsSummary struct {
	WindowDays           int `json:"windowDays"`
	UpcomingAppointments int `json:"upcomingAppointments"`
	OpenTasks            int `json:"openTasks"`
	CallVolume           int `json:"callVolume"`
	UnrepliedMessages    int `json:"unrepliedMessages"`
}
