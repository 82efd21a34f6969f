package models

import "time"

type Note struct {
	ID        int64     `json:"id"`
	CoachID   int64     `json:"coach_id"`
	ClientID  int64     `json:"client_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
