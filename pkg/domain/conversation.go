package domain

import "time"

type Conversation struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
}

const DefaultConversationTitle = "New Conversation"
