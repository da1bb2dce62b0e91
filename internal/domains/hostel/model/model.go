package model

import "guestroom/shared/model"

const (
	TableName  = "hostels"
	EntityName = "hostel"

	FieldName           = "name"
	FieldCaretakerEmail = "caretaker_email"
	FieldWardenEmail    = "warden_email"
)

type Hostel struct {
	Name           string `db:"name"`
	CaretakerEmail string `db:"caretaker_email"`
	WardenEmail    string `db:"warden_email"`
	model.Metadata
}
