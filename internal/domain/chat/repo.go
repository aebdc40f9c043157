package chat

import (
	"context"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, c *Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	AddParticipant(ctx context.Context, conversationID, userID uuid.UUID) error
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	Participants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error)
	// FindBetween returns the conversation whose participant set is exactly
	// the given pair, or pgx.ErrNoRows.
	FindBetween(ctx context.Context, a, b uuid.UUID) (*Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ConversationSummary, error)
	Touch(ctx context.Context, id uuid.UUID) error
	DeleteParticipants(ctx context.Context, conversationID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	AvailableDoctors(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error)
	AvailablePatients(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*Message, int, error)
	// MarkReadFromOthers marks every message in the conversation not sent by
	// the user as read.
	MarkReadFromOthers(ctx context.Context, conversationID, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteByConversation(ctx context.Context, conversationID uuid.UUID) error
}
