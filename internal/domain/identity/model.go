package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a raw role string against the closed enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// CanReviewRequests reports whether the role may approve or reject
// appointment requests.
func (r Role) CanReviewRequests() bool { return r == RoleAdmin }

// CanManageAvailability reports whether the role may create, update or delete
// availability windows.
func (r Role) CanManageAvailability() bool { return r == RoleDoctor || r == RoleAdmin }

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile and the records below are 1:1 with a user and created lazily on the
// first update that touches them.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
}

type ContactInformation struct {
	UserID      uuid.UUID `json:"user_id"`
	PhoneNumber string    `json:"phone_number"`
}

type Address struct {
	UserID  uuid.UUID `json:"user_id"`
	Street  string    `json:"street"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	ZipCode string    `json:"zip_code"`
	Country string    `json:"country"`
}

type EmergencyContact struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	PhoneNumber  string    `json:"phone_number"`
}

type Patient struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
}

type Doctor struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Specialization string    `json:"specialization"`
}

// ProfileView is the assembled profile returned to the client. Sub-records
// that were never created come back as null.
type ProfileView struct {
	User             *User               `json:"user"`
	Profile          *Profile            `json:"profile,omitempty"`
	Contact          *ContactInformation `json:"contact_information,omitempty"`
	Address          *Address            `json:"address,omitempty"`
	EmergencyContact *EmergencyContact   `json:"emergency_contact,omitempty"`
}

// UpdateProfileInput carries the sections the client wants to change. A nil
// section leaves the stored record untouched.
type UpdateProfileInput struct {
	Profile          *ProfileInput          `json:"profile"`
	Contact          *ContactInput          `json:"contact_information"`
	Address          *AddressInput          `json:"address"`
	EmergencyContact *EmergencyContactInput `json:"emergency_contact"`
}

type ProfileInput struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
}

type ContactInput struct {
	PhoneNumber string `json:"phone_number"`
}

type AddressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type EmergencyContactInput struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	PhoneNumber  string `json:"phone_number"`
}

// RoleRecord couples the caller's role with the patient or doctor record
// backing it. Admins carry neither.
type RoleRecord struct {
	Role    Role     `json:"role"`
	Patient *Patient `json:"patient,omitempty"`
	Doctor  *Doctor  `json:"doctor,omitempty"`
}

// DoctorListing is a public directory entry.
type DoctorListing struct {
	DoctorID       uuid.UUID `json:"doctor_id"`
	UserID         uuid.UUID `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Specialization string    `json:"specialization"`
	Email          string    `json:"email"`
}

// UserListing is an admin directory entry. Doctors get a "Dr." display name.
type UserListing struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
}
