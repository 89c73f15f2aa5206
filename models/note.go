package models

import "time"

type Note struct {
	NoteID         string    `json:"noteid" bson:"noteid"`
	Text           string    `json:"text" bson:"text"`
	UserID         string    `json:"userId" bson:"userId"`
	ConversationID string    `json:"conversationId,omitempty" bson:"conversationId,omitempty"`
	ReceiverID     string    `json:"receiverId,omitempty" bson:"receiverId,omitempty"`
	GroupID        string    `json:"groupId,omitempty" bson:"groupId,omitempty"`
	ToAdmin        bool      `json:"toAdmin" bson:"toAdmin"`
	Type           string    `json:"type" bson:"type"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
