package models

import "time"

type Group struct {
	ID          int64     `json:"id"`
	CoachID     int64     `json:"coach_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GroupMember struct {
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type GroupDetail struct {
	Group
	MemberCount int `json:"member_count"`
}
