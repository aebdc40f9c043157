package chat

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	Type           string    `json:"type"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// Counterpart is another user shown in conversation lists and the
// available-contacts directories.
type Counterpart struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
}

// ConversationSummary is a conversation as the inbox shows it: the other
// participants plus the most recent message.
type ConversationSummary struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Participants []*Counterpart `json:"participants"`
	LastMessage  *Message       `json:"last_message,omitempty"`
}

func counterpartName(role, first, last, email string) string {
	name := first
	if last != "" {
		if name != "" {
			name += " "
		}
		name += last
	}
	if name == "" {
		return email
	}
	if role == "doctor" {
		return "Dr. " + name
	}
	return name
}
