package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	Gender        string    `json:"gender" bson:"gender"`
	Roles         string    `json:"roles" bson:"roles"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	Avatar        string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IDCardFront   string    `json:"idCardFront,omitempty" bson:"idCardFront,omitempty"`
	IDCardBack    string    `json:"idCardBack,omitempty" bson:"idCardBack,omitempty"`
	HoldingIDCard string    `json:"holdingIdCard,omitempty" bson:"holdingIdCard,omitempty"`
	Diploma       string    `json:"diploma,omitempty" bson:"diploma,omitempty"`
	Active        bool      `json:"active" bson:"active"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
