package dto

import (
	"guestroom/internal/domains/user/model"
	"guestroom/shared"
	gDto "guestroom/shared/dto"
	gModel "guestroom/shared/model"
	"guestroom/shared/timezone"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email          string `json:"email"           validate:"required,email,max=255"`
	Name           string `json:"name"            validate:"required,max=100"`
	Password       string `json:"password"        validate:"required,min=8"`
	Role           string `json:"role"            validate:"required,oneof=admin manager caretaker"`
	AssignedHostel string `json:"assigned_hostel" validate:"required_if=Role caretaker,max=100"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	user := model.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(r.Email),
		Name:     r.Name,
		Password: hashedPassword,
		Role:     r.Role,
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), username),
	}

	if r.AssignedHostel != "" {
		hostel := r.AssignedHostel
		user.AssignedHostel = &hostel
	}

	return user
}

type UserResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	AssignedHostel string     `json:"assigned_hostel,omitempty"`
	Active         bool       `json:"active"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Name = model.Name
	r.Role = model.Role
	r.AssignedHostel = model.Hostel()
	r.Active = model.Active
	r.LastLogin = model.LastLogin
	r.Metadata.FromModel(model.Metadata)
}

// UpdateUserRequest changes only the fields that are set.
type UpdateUserRequest struct {
	Name           *string `db:"name"            json:"name,omitempty"            validate:"omitempty,max=100"`
	Role           *string `db:"role"            json:"role,omitempty"            validate:"omitempty,oneof=admin manager caretaker"`
	AssignedHostel *string `db:"assigned_hostel" json:"assigned_hostel,omitempty" validate:"omitempty,max=100"`
	Active         *bool   `db:"active"          json:"active,omitempty"`
	Password       *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UserFilter struct {
	Role   string
	Hostel string
}

func (f *UserFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Role = query.Get("role")
	f.Hostel = query.Get("hostel")
}

func (f UserFilter) ToFilterGroup() gDto.FilterGroup {
	values := map[string]any{}

	if f.Role != "" {
		values[model.FieldRole] = f.Role
	}

	if f.Hostel != "" {
		values[model.FieldAssignedHostel] = f.Hostel
	}

	return shared.FilterEq(model.TableName, values)
}
