package utils

import "github.com/google/uuid"

// NewUserID mints ids of the form user_<uuid>.
func NewUserID() string {
	return "user_" + uuid.New().String()
}

// NewMessageID mints ids for message documents.
func NewMessageID() string {
	return "msg_" + uuid.New().String()
}
