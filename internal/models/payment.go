package models

import "time"

type Payment struct {
	ID          int64     `json:"id"`
	CoachID     int64     `json:"coach_id"`
	ClientID    int64     `json:"client_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	ProviderRef *string   `json:"provider_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
