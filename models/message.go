package models

import "time"

// Message types. Exactly one of ReceiverID/GroupID is set per message,
// and only the payload field matching Type is populated.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeAudio = "audio"
	MessageTypeChat  = "message"
)

type Message struct {
	MessageID  string    `json:"messageid" bson:"messageid"`
	SenderID   string    `json:"senderId" bson:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty" bson:"receiverId,omitempty"`
	GroupID    string    `json:"groupId,omitempty" bson:"groupId,omitempty"`
	Type       string    `json:"type" bson:"type"`
	Message    string    `json:"message,omitempty" bson:"message,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	AudioURL   string    `json:"audioUrl,omitempty" bson:"audioUrl,omitempty"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}
