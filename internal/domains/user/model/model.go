package model

import (
	"guestroom/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID             = "id"
	FieldEmail          = "email"
	FieldName           = "name"
	FieldPassword       = "password"
	FieldRole           = "role"
	FieldAssignedHostel = "assigned_hostel"
	FieldActive         = "active"
	FieldLastLogin      = "last_login"
)

type User struct {
	ID             string     `db:"id"`
	Email          string     `db:"email"`
	Name           string     `db:"name"`
	Password       string     `db:"password"`
	Role           string     `db:"role"`
	AssignedHostel *string    `db:"assigned_hostel"`
	Active         bool       `db:"active"`
	LastLogin      *time.Time `db:"last_login"`
	model.Metadata
}

// Hostel is the assigned hostel, or "" for staff not bound to one.
func (u User) Hostel() string {
	if u.AssignedHostel == nil {
		return ""
	}

	return *u.AssignedHostel
}
