package domain

import "strings"

// BookingStatus is the lifecycle state of an appointment.
type BookingStatus string

const (
	BookingPending BookingStatus = "Pending"
	BookingArrived BookingStatus = "Arrived"
)

// Role is an operator role from the users table.
type Role string

const (
	RoleSecurity Role = "Security"
	RoleFaculty  Role = "Faculty"
	RoleAdmin    Role = "Admin"
)

// Session is one physical visit. Timestamps are wall-clock strings in the
// ledger's pinned zone, stored exactly as they appear in the table.
type Session struct {
	RowIndex   int // position in the visitors table; the durable row id
	PassNumber int // display-only reference: RowIndex + 1

	VisitDate   string
	InTime      string
	Identity    string // contact number as entered; compare via normalized form only
	VisitorName string
	Designation string
	Company     string
	Device      string // laptop or other device carried in, "-" if none
	HostName    string
	HostDept    string
	PhotoRef    string // photostore key, empty if no photo was captured
	OutTime     string // empty while the visitor is on site
	RecordedBy  string
	Vehicle     string // free text, never an identity
}

// Open reports whether the visitor is still on site.
func (s Session) Open() bool { return strings.TrimSpace(s.OutTime) == "" }

// Booking is one requested appointment.
type Booking struct {
	RowIndex int

	RequestedAt string
	RequestedBy string
	HostName    string
	HostDept    string
	Identity    string
	VisitorName string
	Purpose     string
	Status      BookingStatus
	Company     string
	Vehicle     string
}

// User is an operator resolved from the users table.
type User struct {
	Email       string
	Role        Role
	DisplayName string
	Department  string
}
