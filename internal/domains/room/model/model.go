package model

import "guestroom/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldHostelName = "hostel_name"
	FieldRoomNo     = "room_no"
	FieldRoomType   = "room_type"
)

// Room is uniquely identified by (HostelName, RoomNo); ID is the surrogate key bookings reference.
type Room struct {
	ID         string `db:"id"`
	HostelName string `db:"hostel_name"`
	RoomNo     string `db:"room_no"`
	RoomType   string `db:"room_type"`
	model.Metadata
}
