package models

import "time"

// Session is a scheduled, paid consultation between two users.
// Date and Time are immutable once created; only IsAccepted flips later.
type Session struct {
	SessionID   string    `json:"sessionid" bson:"sessionid"`
	RequesterID string    `json:"requesterId" bson:"requesterId"`
	ReceiverID  string    `json:"receiverId" bson:"receiverId"`
	Date        string    `json:"date" bson:"date"` // YYYY-MM-DD
	Time        string    `json:"time" bson:"time"` // HH:MM
	Note        string    `json:"note,omitempty" bson:"note,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	IsAccepted  bool      `json:"isAccepted" bson:"isAccepted"`
	IsPaid      bool      `json:"isPaid" bson:"isPaid"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
