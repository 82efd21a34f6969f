package models

import "time"

type Program struct {
	ID          int64     `json:"id"`
	CoachID     int64     `json:"coach_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	TotalSteps  int       `json:"total_steps"`
	CreatedAt   time.Time `json:"created_at"`
}

type Enrollment struct {
	ID             int64     `json:"id"`
	ProgramID      int64     `json:"program_id"`
	ClientID       int64     `json:"client_id"`
	CompletedSteps int       `json:"completed_steps"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type EnrollmentProgress struct {
	Enrollment
	ProgressPercent int `json:"progress_percent"`
}
