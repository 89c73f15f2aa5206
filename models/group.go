package models

import "time"

type Group struct {
	GroupID   string    `json:"groupid" bson:"groupid"`
	Name      string    `json:"name" bson:"name"`
	Members   []string  `json:"members" bson:"members"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
