package models

import "time"

type Week struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	Label     string    `json:"label"`
	StartsOn  string    `json:"starts_on"`
	CreatedAt time.Time `json:"created_at"`
}

// Lesson is a single timetable row. Groups and Specializations hold the partition
// tags the row is visible to under each scheme.
type Lesson struct {
	ID              string    `json:"id"`
	WeekID          string    `json:"week_id"`
	Day             int       `json:"day"`
	Period          int       `json:"period"`
	StartsAt        string    `json:"starts_at"`
	EndsAt          string    `json:"ends_at"`
	Subject         string    `json:"subject"`
	Teacher         string    `json:"teacher"`
	Room            string    `json:"room"`
	Notes           string    `json:"notes"`
	NotesHTML       string    `json:"notes_html,omitempty"`
	Groups          []int     `json:"groups"`
	Specializations []int     `json:"specializations"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}
