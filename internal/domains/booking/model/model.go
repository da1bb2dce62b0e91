package model

import (
	"guestroom/internal/domains/booking/availability"
	"guestroom/shared/model"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldRoomID      = "room_id"
	FieldGuestName   = "guest_name"
	FieldContact     = "contact"
	FieldEmail       = "email"
	FieldPaymentType = "payment_type"
	FieldAmount      = "amount"
	FieldFromDate    = "from_date"
	FieldToDate      = "to_date"
	FieldFiles       = "files"
	FieldStatus      = "status"
	FieldEnquiryID   = "enquiry_id"

	RoomTableName   = "rooms"
	FieldHostelName = "hostel_name"
	FieldRoomNo     = "room_no"
	FieldRoomType   = "room_type"
)

const (
	StatusBooked     = "booked"
	StatusCheckedOut = "checked_out"

	PaymentFree = "Free"
	PaymentPaid = "Paid"
)

type Booking struct {
	ID          string          `db:"id"`
	RoomID      string          `db:"room_id"`
	GuestName   string          `db:"guest_name"`
	Contact     string          `db:"contact"`
	Email       string          `db:"email"`
	Gender      string          `db:"gender"`
	Address     string          `db:"address"`
	Designation string          `db:"designation"`
	NumGuests   int             `db:"num_guests"`
	Purpose     string          `db:"purpose"`
	PaymentType string          `db:"payment_type"`
	Amount      decimal.Decimal `db:"amount"`
	FromDate    time.Time       `db:"from_date"`
	ToDate      time.Time       `db:"to_date"`
	Files       pq.StringArray  `db:"files"`
	Status      string          `db:"status"`
	EnquiryID   *string         `db:"enquiry_id"`
	model.Metadata
}

func (b Booking) Range() availability.Range {
	return availability.NewRange(b.FromDate, b.ToDate)
}

func (b Booking) Slot() availability.Slot {
	return availability.Slot{ID: b.ID, Range: b.Range()}
}

func (b Booking) IsPaid() bool {
	return b.PaymentType == PaymentPaid
}

func Slots(bookings []Booking) []availability.Slot {
	slots := make([]availability.Slot, len(bookings))
	for i, booking := range bookings {
		slots[i] = booking.Slot()
	}

	return slots
}

// RoomBooking is a booking read together with the room and hostel it belongs to.
type RoomBooking struct {
	Booking
	HostelName string `db:"hostel_name" table:"rooms"`
	RoomNo     string `db:"room_no"     table:"rooms"`
	RoomType   string `db:"room_type"   table:"rooms"`
}

func (RoomBooking) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = room_bookings.room_id"
}
