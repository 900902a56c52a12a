package models

import "time"

type Outing struct {
	OutingID    string    `json:"outingid" bson:"outingid"`
	CreatedBy   string    `json:"createdBy" bson:"createdBy"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	City        string    `json:"city" bson:"city"`
	Date        string    `json:"date" bson:"date"`
	Status      string    `json:"status" bson:"status"` // Draft/Confirmed
	InviteCode  string    `json:"invite_code" bson:"invite_code"`
	Members     []string  `json:"members" bson:"members"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	Deleted     bool      `json:"-" bson:"deleted,omitempty"`
}

// Preference is one member's wishes for a given outing.
type Preference struct {
	OutingID  string    `json:"outingid" bson:"outingid"`
	UserID    string    `json:"userid" bson:"userid"`
	Budget    string    `json:"budget" bson:"budget"` // "Free", "$".."$$$$"
	Interests []string  `json:"interests" bson:"interests"`
	Dietary   []string  `json:"dietary,omitempty" bson:"dietary,omitempty"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Place struct {
	PlaceID     string   `json:"placeid" bson:"placeid"`
	Name        string   `json:"name" bson:"name"`
	Address     string   `json:"address" bson:"address"`
	City        string   `json:"city" bson:"city"`
	Category    string   `json:"category" bson:"category"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Lat         float64  `json:"lat" bson:"lat"`
	Lng         float64  `json:"lng" bson:"lng"`
	ReviewCount int      `json:"reviewcount,omitempty" bson:"reviewcount,omitempty"`
}
