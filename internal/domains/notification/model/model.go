package model

const (
	KindBookingCreated    = "booking_created"
	KindBookingCancelled  = "booking_cancelled"
	KindBookingExtended   = "booking_extended"
	KindBookingCheckedOut = "booking_checked_out"
	KindEnquirySubmitted  = "enquiry_submitted"
	KindEnquiryApproved   = "enquiry_approved"
	KindEnquiryRejected   = "enquiry_rejected"
	KindPasswordReset     = "password_reset"
)

const (
	RoleGuest     = "guest"
	RoleCaretaker = "caretaker"
	RoleWarden    = "warden"
	RoleManager   = "manager"
)

// Notification is everything a template may print. Fields that do not apply to a kind stay empty.
type Notification struct {
	Kind           string `json:"kind"`
	GuestName      string `json:"guest_name"`
	GuestEmail     string `json:"guest_email"`
	Hostel         string `json:"hostel,omitempty"`
	RoomNo         string `json:"room_no,omitempty"`
	CaretakerEmail string `json:"caretaker_email,omitempty"`
	WardenEmail    string `json:"warden_email,omitempty"`
	BookingID      string `json:"booking_id,omitempty"`
	EnquiryID      string `json:"enquiry_id,omitempty"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	PreviousTo     string `json:"previous_to,omitempty"`
	NumGuests      int    `json:"num_guests,omitempty"`
	Purpose        string `json:"purpose,omitempty"`
	PaymentType    string `json:"payment_type,omitempty"`
	Amount         string `json:"amount,omitempty"`
	Remarks        string `json:"remarks,omitempty"`
	Link           string `json:"link,omitempty"`
	ExpiresInMin   int    `json:"expires_in_min,omitempty"`
	Actor          string `json:"actor,omitempty"`
}

func (n Notification) IsPaid() bool {
	return n.PaymentType == "Paid"
}

type Recipient struct {
	Role  string
	Name  string
	Email string
}

// Recipients resolves who receives n. Managers come from the configured distribution list.
// Empty addresses are skipped and every address is notified at most once.
func (n Notification) Recipients(managers []string) []Recipient {
	var recipients []Recipient

	seen := map[string]bool{}
	add := func(role, name, email string) {
		if email == "" || seen[email] {
			return
		}

		seen[email] = true

		recipients = append(recipients, Recipient{Role: role, Name: name, Email: email})
	}

	addManagers := func() {
		for _, email := range managers {
			add(RoleManager, "", email)
		}
	}

	switch n.Kind {
	case KindBookingCreated, KindBookingCancelled, KindBookingExtended, KindBookingCheckedOut:
		add(RoleGuest, n.GuestName, n.GuestEmail)
		add(RoleCaretaker, "", n.CaretakerEmail)
		add(RoleWarden, "", n.WardenEmail)
		addManagers()
	case KindEnquirySubmitted:
		add(RoleGuest, n.GuestName, n.GuestEmail)
		addManagers()
	case KindEnquiryApproved, KindEnquiryRejected, KindPasswordReset:
		add(RoleGuest, n.GuestName, n.GuestEmail)
	}

	return recipients
}
