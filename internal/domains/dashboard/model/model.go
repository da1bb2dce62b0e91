package model

import "github.com/shopspring/decimal"

// Stats are the system-wide counters shown on the staff dashboard. Booking counters only
// include bookings that are still booked unless named otherwise.
type Stats struct {
	Hostels           int             `db:"hostels"`
	Rooms             int             `db:"rooms"`
	ActiveBookings    int             `db:"active_bookings"`
	OccupiedRooms     int             `db:"occupied_rooms"`
	UpcomingBookings  int             `db:"upcoming_bookings"`
	CheckedOut        int             `db:"checked_out"`
	PendingEnquiries  int             `db:"pending_enquiries"`
	ApprovedEnquiries int             `db:"approved_enquiries"`
	RejectedEnquiries int             `db:"rejected_enquiries"`
	Users             int             `db:"users"`
	PaidRevenue       decimal.Decimal `db:"paid_revenue"`
}

type HostelOccupancy struct {
	HostelName    string `db:"hostel_name"`
	Rooms         int    `db:"rooms"`
	OccupiedRooms int    `db:"occupied_rooms"`
}
