package models

import "time"

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

type ChatMessage struct {
	Role      string    `firestore:"role" json:"role"`
	Text      string    `firestore:"text" json:"text"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}
