package dto

import (
	"guestroom/internal/domains/room/model"
	gDto "guestroom/shared/dto"
	gModel "guestroom/shared/model"
	"guestroom/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomNo   string `json:"room_no"   validate:"required,max=20"`
	RoomType string `json:"room_type" validate:"omitempty,max=50"`
}

func (c *CreateRoomRequest) ToModel(hostel, user string) model.Room {
	return model.Room{
		ID:         uuid.NewString(),
		HostelName: hostel,
		RoomNo:     c.RoomNo,
		RoomType:   c.RoomType,
		Metadata:   gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateRoomRequest struct {
	RoomNo   string `db:"room_no"   json:"room_no"   validate:"omitempty,max=20"`
	RoomType string `db:"room_type" json:"room_type" validate:"omitempty,max=50"`
}

type RoomResponse struct {
	ID       string `json:"id"`
	Hostel   string `json:"hostel"`
	RoomNo   string `json:"room_no"`
	RoomType string `json:"room_type"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Hostel = model.HostelName
	r.RoomNo = model.RoomNo
	r.RoomType = model.RoomType
	r.Metadata.FromModel(model.Metadata)
}
