package models

import "time"

type Client struct {
	ID        int64     `json:"id"`
	CoachID   int64     `json:"coach_id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ClientDetail struct {
	Client
	Email string `json:"email"`
	Name  string `json:"name"`
}
