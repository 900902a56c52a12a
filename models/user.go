package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Bio           string    `json:"bio,omitempty" bson:"bio,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	Role          []string  `json:"role" bson:"role"`
	EmailVerified bool      `json:"email_verified" bson:"email_verified"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	Deleted       bool      `json:"-" bson:"deleted,omitempty"`
}

// UserSummary is the projection returned in member lists and search.
type UserSummary struct {
	UserID    string `json:"userid" bson:"userid"`
	Username  string `json:"username" bson:"username"`
	Bio       string `json:"bio,omitempty" bson:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
}
