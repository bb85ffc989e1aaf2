package models

type UpdatePreferencesRequest struct {
	Group          *int    `json:"group" validate:"omitempty,gte=1,lte=3"`
	Specialization *int    `json:"specialization" validate:"omitempty,gte=1,lte=3"`
	Mode           *string `json:"mode" validate:"omitempty,viewmode"`
	WeekID         *string `json:"week_id" validate:"omitempty,max=64"`
}
