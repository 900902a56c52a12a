package models

import "time"

const (
	FriendPending  = "pending"
	FriendAccepted = "accepted"
	FriendDeclined = "declined"
)

// FriendRequest rows double as the friendship edge once accepted.
type FriendRequest struct {
	RequestID string    `json:"requestid" bson:"requestid"`
	FromID    string    `json:"from" bson:"from"`
	ToID      string    `json:"to" bson:"to"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
