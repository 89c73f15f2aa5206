package models

import "time"

// CallLog records a finished WebRTC call relayed through the socket layer.
type CallLog struct {
	From      string    `json:"from" bson:"from"`
	To        string    `json:"to" bson:"to"`
	Duration  int64     `json:"duration" bson:"duration"` // seconds
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
