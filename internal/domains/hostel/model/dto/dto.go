package dto

import (
	"guestroom/internal/domains/hostel/model"
	roomDto "guestroom/internal/domains/room/model/dto"
	gDto "guestroom/shared/dto"
	gModel "guestroom/shared/model"
	"guestroom/shared/timezone"
	"strings"
)

type CreateHostelRequest struct {
	Name           string `json:"name"            validate:"required,max=100"`
	CaretakerEmail string `json:"caretaker_email" validate:"omitempty,email,max=255"`
	WardenEmail    string `json:"warden_email"    validate:"omitempty,email,max=255"`
}

func (c *CreateHostelRequest) ToModel(user string) model.Hostel {
	return model.Hostel{
		Name:           strings.TrimSpace(c.Name),
		CaretakerEmail: strings.ToLower(c.CaretakerEmail),
		WardenEmail:    strings.ToLower(c.WardenEmail),
		Metadata:       gModel.NewMetadata(timezone.Now(), user),
	}
}

// UpdateHostelRequest changes the contact emails. The name is the hostel's key and stays.
type UpdateHostelRequest struct {
	CaretakerEmail string `db:"caretaker_email" json:"caretaker_email" validate:"omitempty,email,max=255"`
	WardenEmail    string `db:"warden_email"    json:"warden_email"    validate:"omitempty,email,max=255"`
}

type HostelResponse struct {
	Name           string                 `json:"name"`
	CaretakerEmail string                 `json:"caretaker_email"`
	WardenEmail    string                 `json:"warden_email"`
	Rooms          []roomDto.RoomResponse `json:"rooms"`
	gDto.Metadata
}

func (r *HostelResponse) FromModel(model model.Hostel) {
	r.Name = model.Name
	r.CaretakerEmail = model.CaretakerEmail
	r.WardenEmail = model.WardenEmail
	r.Rooms = []roomDto.RoomResponse{}
	r.Metadata.FromModel(model.Metadata)
}
