package dto

import (
	"guestroom/internal/domains/auditlog/model"
	"guestroom/shared"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
	"guestroom/shared/timezone"
	"net/http"
)

type LogResponse struct {
	ID        string `json:"id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entity_id"`
	Hostel    string `json:"hostel"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

func (r *LogResponse) FromModel(model model.Log) {
	r.ID = model.ID
	r.Actor = model.Actor
	r.Action = model.Action
	r.Entity = model.Entity
	r.EntityID = model.EntityID
	r.Hostel = model.Hostel
	r.Details = model.Details
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetLogsResponse struct {
	Logs      []LogResponse `json:"logs"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetLogsResponse) FromModels(models []model.Log, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Logs = make([]LogResponse, len(models))
	for i, mod := range models {
		r.Logs[i].FromModel(mod)
	}
}

type LogFilter struct {
	Entity string
	Action string
	Hostel string
	Actor  string
}

func (f *LogFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Entity = query.Get(model.FieldEntity)
	f.Action = query.Get(model.FieldAction)
	f.Hostel = query.Get(model.FieldHostel)
	f.Actor = query.Get(model.FieldActor)
}

// ToFilterGroup ANDs every non-empty criterion.
func (f LogFilter) ToFilterGroup() gDto.FilterGroup {
	values := map[string]any{}

	for field, value := range map[string]string{
		model.FieldEntity: f.Entity,
		model.FieldAction: f.Action,
		model.FieldHostel: f.Hostel,
		model.FieldActor:  f.Actor,
	} {
		if value != "" {
			values[field] = value
		}
	}

	return shared.FilterEq(model.TableName, values)
}
