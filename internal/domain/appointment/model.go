package appointment

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the closed lifecycle of an appointment request. Approved
// and Rejected are terminal.
type RequestStatus string

const (
	StatusReceived RequestStatus = "Received"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// AppointmentStatus is the closed lifecycle of a booked appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCancelled AppointmentStatus = "Cancelled"
	StatusCompleted AppointmentStatus = "Completed"
)

// AppointmentRequest carries a patient's intake form. The name and contact
// fields are a snapshot taken at submission time, not a join.
type AppointmentRequest struct {
	ID          uuid.UUID     `json:"id"`
	PatientID   uuid.UUID     `json:"patient_id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	DateOfBirth string        `json:"date_of_birth"`
	Email       string        `json:"email"`
	PhoneNumber string        `json:"phone_number"`
	PreferDate  string        `json:"prefer_date"`
	PreferTime  string        `json:"prefer_time"`
	Severity    string        `json:"severity"`
	Description string        `json:"description"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

type Appointment struct {
	ID        uuid.UUID         `json:"id"`
	PatientID uuid.UUID         `json:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctor_id"`
	Datetime  time.Time         `json:"datetime"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalRequests         int `json:"total_requests"`
	ReceivedRequests      int `json:"received_requests"`
	ApprovedRequests      int `json:"approved_requests"`
	RejectedRequests      int `json:"rejected_requests"`
	TotalAppointments     int `json:"total_appointments"`
	ScheduledAppointments int `json:"scheduled_appointments"`
	TotalPatients         int `json:"total_patients"`
	TotalDoctors          int `json:"total_doctors"`
}
