package ledger

import (
	"strings"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/rowstore"
)

// Visitors table layout. Columns are append-only: new fields go at the
// end, and rows written before a column existed are simply shorter.
const (
	colVisitDate = iota
	colInTime
	colIdentity
	colVisitorName
	colDesignation
	colCompany
	colDevice
	colHostName
	colHostDept
	colPhotoRef
	colOutTime
	colRecordedBy
	colVehicle
	visitorColumns
)

// Bookings table layout.
const (
	bcolRequestedAt = iota
	bcolRequestedBy
	bcolHostName
	bcolHostDept
	bcolIdentity
	bcolVisitorName
	bcolPurpose
	bcolStatus
	bcolCompany
	bcolVehicle
	bookingColumns
)

// Wall-clock formats carried over from the gate office's existing sheets.
const (
	dateLayout     = "02-01-2006"
	clockLayout    = "03:04 PM"
	stampLayout    = "2006-01-02 15:04:05"
	overrideLayout = "15:04"      // guard-supplied exit time
	rangeLayout    = "2006-01-02" // admin date-range filters
)

// NormalizeIdentity reduces a contact number to its digits so that
// "98765 43210", "98765-43210" and "9876543210" compare equal. An empty
// result means the input carried no identity at all.
func NormalizeIdentity(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// identityMatches compares only the designated identity column. Matching
// any other cell (the vehicle plate in particular) against a contact
// number caused repeated mis-resolutions in earlier iterations of this
// system.
func identityMatches(row rowstore.Row, col int, key string) bool {
	norm := NormalizeIdentity(row.Cell(col))
	return norm != "" && norm == key
}

func decodeSession(idx int, row rowstore.Row) domain.Session {
	return domain.Session{
		RowIndex:    idx,
		PassNumber:  idx + 1,
		VisitDate:   row.Cell(colVisitDate),
		InTime:      row.Cell(colInTime),
		Identity:    row.Cell(colIdentity),
		VisitorName: row.Cell(colVisitorName),
		Designation: row.Cell(colDesignation),
		Company:     row.Cell(colCompany),
		Device:      row.Cell(colDevice),
		HostName:    row.Cell(colHostName),
		HostDept:    row.Cell(colHostDept),
		PhotoRef:    row.Cell(colPhotoRef),
		OutTime:     row.Cell(colOutTime),
		RecordedBy:  row.Cell(colRecordedBy),
		Vehicle:     row.Cell(colVehicle),
	}
}

func encodeSession(s domain.Session) rowstore.Row {
	row := make(rowstore.Row, visitorColumns)
	row[colVisitDate] = s.VisitDate
	row[colInTime] = s.InTime
	row[colIdentity] = s.Identity
	row[colVisitorName] = s.VisitorName
	row[colDesignation] = s.Designation
	row[colCompany] = s.Company
	row[colDevice] = s.Device
	row[colHostName] = s.HostName
	row[colHostDept] = s.HostDept
	row[colPhotoRef] = s.PhotoRef
	row[colOutTime] = s.OutTime
	row[colRecordedBy] = s.RecordedBy
	row[colVehicle] = s.Vehicle
	return row
}

func decodeBooking(idx int, row rowstore.Row) domain.Booking {
	return domain.Booking{
		RowIndex:    idx,
		RequestedAt: row.Cell(bcolRequestedAt),
		RequestedBy: row.Cell(bcolRequestedBy),
		HostName:    row.Cell(bcolHostName),
		HostDept:    row.Cell(bcolHostDept),
		Identity:    row.Cell(bcolIdentity),
		VisitorName: row.Cell(bcolVisitorName),
		Purpose:     row.Cell(bcolPurpose),
		Status:      domain.BookingStatus(strings.TrimSpace(row.Cell(bcolStatus))),
		Company:     row.Cell(bcolCompany),
		Vehicle:     row.Cell(bcolVehicle),
	}
}

func encodeBooking(b domain.Booking) rowstore.Row {
	row := make(rowstore.Row, bookingColumns)
	row[bcolRequestedAt] = b.RequestedAt
	row[bcolRequestedBy] = b.RequestedBy
	row[bcolHostName] = b.HostName
	row[bcolHostDept] = b.HostDept
	row[bcolIdentity] = b.Identity
	row[bcolVisitorName] = b.VisitorName
	row[bcolPurpose] = b.Purpose
	row[bcolStatus] = string(b.Status)
	row[bcolCompany] = b.Company
	row[bcolVehicle] = b.Vehicle
	return row
}

func isPending(row rowstore.Row) bool {
	return strings.TrimSpace(row.Cell(bcolStatus)) == string(domain.BookingPending)
}

// orDash mirrors the sheet convention of writing "-" for blank optional
// fields so columns stay visibly aligned.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return strings.TrimSpace(s)
}
