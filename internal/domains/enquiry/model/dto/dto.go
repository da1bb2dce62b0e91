package dto

import (
	"encoding/json"
	"errors"
	"guestroom/config"
	"guestroom/internal/domains/enquiry/model"
	"guestroom/shared"
	gDto "guestroom/shared/dto"
	gModel "guestroom/shared/model"
	"guestroom/shared/timezone"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var errEmailDomain = errors.New("email domain is not allowed")

// InstitutionalEmail must belong to one of APP_BOOKING_ALLOWED_EMAIL_DOMAINS. An empty list
// allows any domain.
type InstitutionalEmail string

func (e InstitutionalEmail) Validate(cfg *config.Config) error {
	allowed := cfg.App.Booking.AllowedEmailDomains
	if len(allowed) == 0 {
		return nil
	}

	at := strings.LastIndex(string(e), "@")
	if at == -1 {
		return errEmailDomain
	}

	domain := strings.ToLower(string(e)[at+1:])

	ok := slices.ContainsFunc(allowed, func(d string) bool {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))

		return domain == d || strings.HasSuffix(domain, "."+d)
	})
	if !ok {
		return errEmailDomain
	}

	return nil
}

type SubmitEnquiryRequest struct {
	Name        string             `json:"name"        validate:"required,max=100"`
	Email       InstitutionalEmail `json:"email"       validate:"required,email,max=255,guestroom"`
	Contact     string             `json:"contact"     validate:"required,numeric,len=10"`
	Gender      string             `json:"gender"      validate:"omitempty,oneof=male female other"`
	Address     string             `json:"address"     validate:"omitempty,max=255"`
	Designation string             `json:"designation" validate:"omitempty,max=100"`
	NumGuests   int                `json:"num_guests"  validate:"required,min=1,max=20"`
	Purpose     string             `json:"purpose"     validate:"required,max=500"`
	Hostel      string             `json:"hostel"      validate:"omitempty,max=100"`
	From        string             `json:"from"        validate:"required,datetime=2006-01-02"`
	To          string             `json:"to"          validate:"required,datetime=2006-01-02"`
	Files       []string           `json:"files"       validate:"required,min=1,max=5,dive,required,mimetypes=application/pdf image/png image/jpeg"`
}

// UnmarshalJSON accepts the legacy guest count keys "guests" and "numGuests".
func (s *SubmitEnquiryRequest) UnmarshalJSON(data []byte) error {
	type Request SubmitEnquiryRequest

	aux := struct {
		*Request
		Guests       *int `json:"guests"`
		NumGuestsOld *int `json:"numGuests"`
	}{Request: (*Request)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	if s.NumGuests == 0 {
		switch {
		case aux.NumGuestsOld != nil:
			s.NumGuests = *aux.NumGuestsOld
		case aux.Guests != nil:
			s.NumGuests = *aux.Guests
		}
	}

	return nil
}

func (s *SubmitEnquiryRequest) ToModel(from, to time.Time, files []string) model.Enquiry {
	enquiry := model.Enquiry{
		ID:          uuid.NewString(),
		Name:        s.Name,
		Email:       strings.ToLower(string(s.Email)),
		Contact:     s.Contact,
		Gender:      s.Gender,
		Address:     s.Address,
		Designation: s.Designation,
		NumGuests:   s.NumGuests,
		Purpose:     s.Purpose,
		FromDate:    from,
		ToDate:      to,
		Files:       files,
		Status:      model.StatusPending,
		Metadata:    gModel.NewMetadata(timezone.Now(), string(s.Email)),
	}

	if s.Hostel != "" {
		hostel := s.Hostel
		enquiry.HostelName = &hostel
	}

	return enquiry
}

type ReviewEnquiryRequest struct {
	Remarks string `json:"remarks" validate:"omitempty,max=500"`
}

type EnquiryResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Contact     string   `json:"contact"`
	Gender      string   `json:"gender"`
	Address     string   `json:"address"`
	Designation string   `json:"designation"`
	NumGuests   int      `json:"num_guests"`
	Purpose     string   `json:"purpose"`
	Hostel      string   `json:"hostel,omitempty"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Files       []string `json:"files"`
	Status      string   `json:"status"`
	Remarks     string   `json:"remarks,omitempty"`
	ReviewedBy  string   `json:"reviewed_by,omitempty"`
	gDto.Metadata
}

func (r *EnquiryResponse) FromModel(model model.Enquiry) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Contact = model.Contact
	r.Gender = model.Gender
	r.Address = model.Address
	r.Designation = model.Designation
	r.NumGuests = model.NumGuests
	r.Purpose = model.Purpose
	r.Hostel = model.Hostel()
	r.From = model.FromDate.Format(time.DateOnly)
	r.To = model.ToDate.Format(time.DateOnly)
	r.Files = append([]string{}, model.Files...)
	r.Status = model.Status
	r.Remarks = model.Remarks
	r.ReviewedBy = model.ReviewedBy
	r.Metadata.FromModel(model.Metadata)
}

type GetEnquiriesResponse struct {
	Enquiries []EnquiryResponse `json:"enquiries"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetEnquiriesResponse) FromModels(models []model.Enquiry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Enquiries = make([]EnquiryResponse, len(models))
	for i, mod := range models {
		r.Enquiries[i].FromModel(mod)
	}
}

// Prefill is the guest data of an approved enquiry, handed to the booking that allocates a
// room for it. It is keyed by EnquiryID so approvals never overwrite each other.
type Prefill struct {
	EnquiryID   string   `json:"enquiry_id"`
	GuestName   string   `json:"guest_name"`
	Email       string   `json:"email"`
	Contact     string   `json:"contact"`
	Gender      string   `json:"gender"`
	Address     string   `json:"address"`
	Designation string   `json:"designation"`
	NumGuests   int      `json:"num_guests"`
	Purpose     string   `json:"purpose"`
	Hostel      string   `json:"hostel,omitempty"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Files       []string `json:"files"`
	ApprovedBy  string   `json:"approved_by"`
	ApprovedAt  string   `json:"approved_at"`
}

func NewPrefill(enquiry model.Enquiry, approvedBy string, approvedAt time.Time) Prefill {
	return Prefill{
		EnquiryID:   enquiry.ID,
		GuestName:   enquiry.Name,
		Email:       enquiry.Email,
		Contact:     enquiry.Contact,
		Gender:      enquiry.Gender,
		Address:     enquiry.Address,
		Designation: enquiry.Designation,
		NumGuests:   enquiry.NumGuests,
		Purpose:     enquiry.Purpose,
		Hostel:      enquiry.Hostel(),
		From:        enquiry.FromDate.Format(time.DateOnly),
		To:          enquiry.ToDate.Format(time.DateOnly),
		Files:       append([]string{}, enquiry.Files...),
		ApprovedBy:  approvedBy,
		ApprovedAt:  approvedAt.Format(time.RFC3339),
	}
}

type ApproveEnquiryResponse struct {
	Enquiry EnquiryResponse `json:"enquiry"`
	Prefill Prefill         `json:"prefill"`
}

// EnquiryFilter narrows the enquiry listing by status and requested hostel.
type EnquiryFilter struct {
	Status string
	Hostel string
}

func (f *EnquiryFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Status = query.Get("status")
	f.Hostel = query.Get("hostel")
}

func (f EnquiryFilter) ToFilterGroup() gDto.FilterGroup {
	values := map[string]any{}

	if f.Status != "" {
		values[model.FieldStatus] = f.Status
	}

	if f.Hostel != "" {
		values[model.FieldHostelName] = f.Hostel
	}

	return shared.FilterEq(model.TableName, values)
}
