package dto

import (
	"encoding/json"
	"fmt"
	"guestroom/internal/domains/booking/availability"
	"guestroom/internal/domains/booking/model"
	enquiryDto "guestroom/internal/domains/enquiry/model/dto"
	"guestroom/shared"
	gDto "guestroom/shared/dto"
	gModel "guestroom/shared/model"
	"guestroom/shared/timezone"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingPayload struct {
	ID          string          `json:"id,omitempty"`
	GuestName   string          `json:"guest_name"   validate:"required,max=100"`
	Contact     string          `json:"contact"      validate:"required,numeric,len=10"`
	Email       string          `json:"email"        validate:"required,email,max=100"`
	Gender      string          `json:"gender"       validate:"omitempty,oneof=male female other"`
	Address     string          `json:"address"      validate:"omitempty,max=255"`
	Designation string          `json:"designation"  validate:"omitempty,max=100"`
	NumGuests   int             `json:"num_guests"   validate:"required,min=1,max=20"`
	Purpose     string          `json:"purpose"      validate:"omitempty,max=500"`
	PaymentType string          `json:"payment_type" validate:"required,oneof=Free Paid"`
	Amount      decimal.Decimal `json:"amount"`
	From        string          `json:"from"         validate:"required,datetime=2006-01-02"`
	To          string          `json:"to"           validate:"required,datetime=2006-01-02"`
	Files       []string        `json:"files"        validate:"omitempty,max=10,dive,required"`
	Status      string          `json:"status,omitempty" validate:"omitempty,oneof=booked checked_out"`
}

// UnmarshalJSON accepts the legacy guest count keys "guests" and "numGuests".
func (b *BookingPayload) UnmarshalJSON(data []byte) error {
	type Payload BookingPayload

	aux := struct {
		*Payload
		Guests       *int `json:"guests"`
		NumGuestsOld *int `json:"numGuests"`
	}{Payload: (*Payload)(b)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	if b.NumGuests == 0 {
		switch {
		case aux.NumGuestsOld != nil:
			b.NumGuests = *aux.NumGuestsOld
		case aux.Guests != nil:
			b.NumGuests = *aux.Guests
		}
	}

	return nil
}

// Merge fills blank fields from an approved enquiry.
func (b *BookingPayload) Merge(prefill enquiryDto.Prefill) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}

	fill(&b.GuestName, prefill.GuestName)
	fill(&b.Contact, prefill.Contact)
	fill(&b.Email, prefill.Email)
	fill(&b.Gender, prefill.Gender)
	fill(&b.Address, prefill.Address)
	fill(&b.Designation, prefill.Designation)
	fill(&b.Purpose, prefill.Purpose)
	fill(&b.From, prefill.From)
	fill(&b.To, prefill.To)

	if b.NumGuests == 0 {
		b.NumGuests = prefill.NumGuests
	}

	if len(b.Files) == 0 {
		b.Files = prefill.Files
	}
}

func (b *BookingPayload) Range() (availability.Range, error) {
	return availability.ParseRange(b.From, b.To) //nolint:wrapcheck
}

// ToModel builds a booking for roomID. The payload id is kept when it is a uuid.
func (b *BookingPayload) ToModel(roomID, enquiryID, user string) (model.Booking, error) {
	r, err := b.Range()
	if err != nil {
		return model.Booking{}, err
	}

	id := b.ID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	status := b.Status
	if status == "" {
		status = model.StatusBooked
	}

	amount := b.Amount
	if b.PaymentType == model.PaymentFree {
		amount = decimal.Zero
	}

	booking := model.Booking{
		ID:          id,
		RoomID:      roomID,
		GuestName:   b.GuestName,
		Contact:     b.Contact,
		Email:       b.Email,
		Gender:      b.Gender,
		Address:     b.Address,
		Designation: b.Designation,
		NumGuests:   b.NumGuests,
		Purpose:     b.Purpose,
		PaymentType: b.PaymentType,
		Amount:      amount.Round(2),
		FromDate:    r.From,
		ToDate:      r.To,
		Files:       b.Files,
		Status:      status,
		Metadata:    gModel.NewMetadata(timezone.Now(), user),
	}

	if enquiryID != "" {
		booking.EnquiryID = &enquiryID
	}

	return booking, nil
}

type CreateBookingRequest struct {
	Hostel    string         `json:"hostel"     validate:"required"`
	RoomNo    string         `json:"roomNo"     validate:"required"`
	EnquiryID string         `json:"enquiry_id" validate:"omitempty,uuid"`
	Booking   BookingPayload `json:"booking"`
}

type CancelBookingRequest struct {
	Hostel    string `json:"hostel"    validate:"required"`
	RoomNo    string `json:"roomNo"    validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
	Remarks   string `json:"remarks"   validate:"required,max=500"`
}

type ExtendBookingRequest struct {
	Hostel    string `json:"hostel"    validate:"required"`
	RoomNo    string `json:"roomNo"    validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
	NewToDate string `json:"newToDate" validate:"required,datetime=2006-01-02"`
}

type CheckoutBookingRequest struct {
	Hostel    string `json:"hostel"    validate:"required"`
	RoomNo    string `json:"roomNo"    validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
}

type VacancyRequest struct {
	From     string `json:"from"      validate:"required,datetime=2006-01-02"`
	To       string `json:"to"        validate:"required,datetime=2006-01-02"`
	RoomType string `json:"room_type" validate:"omitempty,max=50"`
}

type BookingResponse struct {
	ID          string          `json:"id"`
	Hostel      string          `json:"hostel,omitempty"`
	RoomNo      string          `json:"room_no,omitempty"`
	GuestName   string          `json:"guest_name"`
	Contact     string          `json:"contact"`
	Email       string          `json:"email"`
	Gender      string          `json:"gender"`
	Address     string          `json:"address"`
	Designation string          `json:"designation"`
	NumGuests   int             `json:"num_guests"`
	Purpose     string          `json:"purpose"`
	PaymentType string          `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Files       []string        `json:"files"`
	Status      string          `json:"status"`
	EnquiryID   string          `json:"enquiry_id,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.GuestName = model.GuestName
	r.Contact = model.Contact
	r.Email = model.Email
	r.Gender = model.Gender
	r.Address = model.Address
	r.Designation = model.Designation
	r.NumGuests = model.NumGuests
	r.Purpose = model.Purpose
	r.PaymentType = model.PaymentType
	r.Amount = model.Amount
	r.From = model.FromDate.Format(time.DateOnly)
	r.To = model.ToDate.Format(time.DateOnly)
	r.Files = append([]string{}, model.Files...)
	r.Status = model.Status

	if model.EnquiryID != nil {
		r.EnquiryID = *model.EnquiryID
	}

	r.Metadata.FromModel(model.Metadata)
}

func (r *BookingResponse) FromRoomBooking(model model.RoomBooking) {
	r.FromModel(model.Booking)
	r.Hostel = model.HostelName
	r.RoomNo = model.RoomNo
}

// ToPayload turns a response back into a request payload, used by the tree round trip.
func (r *BookingResponse) ToPayload() BookingPayload {
	return BookingPayload{
		ID:          r.ID,
		GuestName:   r.GuestName,
		Contact:     r.Contact,
		Email:       r.Email,
		Gender:      r.Gender,
		Address:     r.Address,
		Designation: r.Designation,
		NumGuests:   r.NumGuests,
		Purpose:     r.Purpose,
		PaymentType: r.PaymentType,
		Amount:      r.Amount,
		From:        r.From,
		To:          r.To,
		Files:       r.Files,
		Status:      r.Status,
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.RoomBooking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromRoomBooking(mod)
	}
}

type RoomTree struct {
	RoomNo   string            `json:"roomNo"`
	RoomType string            `json:"roomType"`
	Bookings []BookingResponse `json:"bookings"`
}

type HostelTree struct {
	Name           string     `json:"name"`
	CaretakerEmail string     `json:"caretakerEmail"`
	WardenEmail    string     `json:"wardenEmail"`
	Rooms          []RoomTree `json:"rooms"`
}

// RoomPayload is one room of a bulk save. Bookings replace the room's current set.
type RoomPayload struct {
	RoomNo   string           `json:"roomNo"   validate:"required"`
	Bookings []BookingPayload `json:"bookings" validate:"dive"`
}

type HostelPayload struct {
	Name  string        `json:"name"  validate:"required"`
	Rooms []RoomPayload `json:"rooms" validate:"dive"`
}

type SaveAllRequest struct {
	Hostels []HostelPayload `json:"hostels" validate:"required,dive"`
}

// TreeToSaveAll converts a tree read back into the bulk save shape.
func TreeToSaveAll(tree []HostelTree) SaveAllRequest {
	req := SaveAllRequest{Hostels: make([]HostelPayload, len(tree))}

	for i, hostel := range tree {
		req.Hostels[i] = HostelPayload{Name: hostel.Name, Rooms: make([]RoomPayload, len(hostel.Rooms))}

		for j, room := range hostel.Rooms {
			bookings := make([]BookingPayload, len(room.Bookings))
			for k := range room.Bookings {
				bookings[k] = room.Bookings[k].ToPayload()
			}

			req.Hostels[i].Rooms[j] = RoomPayload{RoomNo: room.RoomNo, Bookings: bookings}
		}
	}

	return req
}

type SaveAllResponse struct {
	Rooms    int `json:"rooms"`
	Bookings int `json:"bookings"`
}

// BookingFilter narrows the flat listing. From/To select bookings overlapping that window.
type BookingFilter struct {
	Hostel string
	RoomNo string
	Status string
	From   string
	To     string
}

func (f *BookingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Hostel = query.Get("hostel")
	f.RoomNo = query.Get("room_no")
	f.Status = query.Get("status")
	f.From = query.Get("from")
	f.To = query.Get("to")
}

func (f BookingFilter) ToFilterGroup() (gDto.FilterGroup, error) {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	eq := func(table, field, value string) {
		if value != "" {
			group.Filters = append(group.Filters, gDto.Filter{
				Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: table,
			})
		}
	}

	eq(model.RoomTableName, model.FieldHostelName, f.Hostel)
	eq(model.RoomTableName, model.FieldRoomNo, f.RoomNo)
	eq(model.TableName, model.FieldStatus, f.Status)

	if f.From != "" {
		from, err := time.Parse(time.DateOnly, f.From)
		if err != nil {
			return group, fmt.Errorf("invalid from date %q: %w", f.From, err)
		}

		group.Filters = append(group.Filters, gDto.Filter{
			ArgName: "window_from", Field: model.FieldToDate, Value: from,
			Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName,
		})
	}

	if f.To != "" {
		to, err := time.Parse(time.DateOnly, f.To)
		if err != nil {
			return group, fmt.Errorf("invalid to date %q: %w", f.To, err)
		}

		group.Filters = append(group.Filters, gDto.Filter{
			ArgName: "window_to", Field: model.FieldFromDate, Value: to,
			Operator: gDto.FilterOperatorLessEq, Table: model.TableName,
		})
	}

	return group, nil
}
