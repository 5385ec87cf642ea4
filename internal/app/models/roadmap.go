package models

import "time"

// Roadmap is a generated learning plan. Rows are never updated.
type Roadmap struct {
	ID          int64     `json:"id" db:"id"`
	ProfileID   int64     `json:"profile_id" db:"profile_id"`
	RoadmapText string    `json:"roadmap_text" db:"roadmap_text"`
	GeneratedOn time.Time `json:"generated_on" db:"generated_on"`

	Profile *StudentProfile `json:"profile,omitempty"`
}
