package model

import (
	"guestroom/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "enquiries"
	EntityName = "enquiry"

	FieldID         = "id"
	FieldName       = "name"
	FieldEmail      = "email"
	FieldHostelName = "hostel_name"
	FieldFromDate   = "from_date"
	FieldToDate     = "to_date"
	FieldStatus     = "status"
	FieldRemarks    = "remarks"
	FieldReviewedBy = "reviewed_by"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Enquiry struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Email       string         `db:"email"`
	Contact     string         `db:"contact"`
	Gender      string         `db:"gender"`
	Address     string         `db:"address"`
	Designation string         `db:"designation"`
	NumGuests   int            `db:"num_guests"`
	Purpose     string         `db:"purpose"`
	HostelName  *string        `db:"hostel_name"`
	FromDate    time.Time      `db:"from_date"`
	ToDate      time.Time      `db:"to_date"`
	Files       pq.StringArray `db:"files"`
	Status      string         `db:"status"`
	Remarks     string         `db:"remarks"`
	ReviewedBy  string         `db:"reviewed_by"`
	model.Metadata
}

func (e Enquiry) IsPending() bool {
	return e.Status == StatusPending
}

func (e Enquiry) Hostel() string {
	if e.HostelName == nil {
		return ""
	}

	return *e.HostelName
}
