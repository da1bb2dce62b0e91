package model

import "time"

const (
	TableName  = "logs"
	EntityName = "log"

	FieldID        = "id"
	FieldActor     = "actor"
	FieldAction    = "action"
	FieldEntity    = "entity"
	FieldEntityID  = "entity_id"
	FieldHostel    = "hostel"
	FieldCreatedAt = "created_at"
)

const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionCancel   = "cancel"
	ActionExtend   = "extend"
	ActionCheckout = "checkout"
	ActionSaveAll  = "save_all"
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionSubmit   = "submit"
	ActionLogin    = "login"
)

const (
	EntityBooking = "booking"
	EntityEnquiry = "enquiry"
	EntityHostel  = "hostel"
	EntityRoom    = "room"
	EntityUser    = "user"
)

// Log is one append-only audit record.
type Log struct {
	ID        string    `db:"id"`
	Actor     string    `db:"actor"`
	Action    string    `db:"action"`
	Entity    string    `db:"entity"`
	EntityID  string    `db:"entity_id"`
	Hostel    string    `db:"hostel"`
	Details   string    `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}
