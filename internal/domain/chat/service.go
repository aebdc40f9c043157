package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

// TxFunc runs fn atomically. The server binds this to db.WithTx; tests pass
// a plain pass-through.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// Notifier delivers an in-app notification. Failures are logged, never
// surfaced to the API caller.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, typ string) error
}

type Service struct {
	conversations ConversationRepository
	messages      MessageRepository
	notifier      Notifier
	inTx          TxFunc
	logger        zerolog.Logger
}

func NewService(conversations ConversationRepository, messages MessageRepository,
	notifier Notifier, inTx TxFunc, logger zerolog.Logger) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		notifier:      notifier,
		inTx:          inTx,
		logger:        logger,
	}
}

type CreateConversationInput struct {
	ParticipantID  uuid.UUID `json:"participant_id"`
	Title          string    `json:"title"`
	InitialMessage string    `json:"initial_message"`
}

// CreateConversation starts a two-party conversation. A second conversation
// between the same pair conflicts and the response carries the existing id.
func (s *Service) CreateConversation(ctx context.Context, userID uuid.UUID, in CreateConversationInput) (*Conversation, error) {
	if in.ParticipantID == uuid.Nil {
		return nil, clinicerr.Validationf("participant_id is required")
	}
	if in.ParticipantID == userID {
		return nil, clinicerr.Validationf("cannot start a conversation with yourself")
	}

	existing, err := s.conversations.FindBetween(ctx, userID, in.ParticipantID)
	if err == nil {
		return nil, clinicerr.Conflictf("conversation already exists").
			WithDetail("conversation_id", existing.ID)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.Internalf(err, "look up conversation")
	}

	conv := &Conversation{Title: in.Title}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.conversations.Create(ctx, conv); err != nil {
			return clinicerr.Internalf(err, "create conversation")
		}
		if err := s.conversations.AddParticipant(ctx, conv.ID, userID); err != nil {
			return clinicerr.Internalf(err, "add participant")
		}
		if err := s.conversations.AddParticipant(ctx, conv.ID, in.ParticipantID); err != nil {
			return clinicerr.Internalf(err, "add participant")
		}
		if in.InitialMessage != "" {
			m := &Message{
				ConversationID: conv.ID,
				SenderID:       userID,
				Content:        in.InitialMessage,
				Type:           "text",
			}
			if err := s.messages.Create(ctx, m); err != nil {
				return clinicerr.Internalf(err, "create message")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.InitialMessage != "" {
		s.notify(ctx, in.ParticipantID)
	}
	return conv, nil
}

// SendMessage posts to a conversation the sender belongs to and bumps its
// last-activity time. Other participants get a best-effort notification.
func (s *Service) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, content, msgType string) (*Message, error) {
	if content == "" {
		return nil, clinicerr.Validationf("content is required")
	}
	if msgType == "" {
		msgType = "text"
	}

	if err := s.requireParticipant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	m := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           msgType,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, clinicerr.Internalf(err, "create message")
	}
	if err := s.conversations.Touch(ctx, conversationID); err != nil {
		return nil, clinicerr.Internalf(err, "update conversation")
	}

	participants, err := s.conversations.Participants(ctx, conversationID)
	if err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", conversationID.String()).
			Msg("notify: list participants failed")
		return m, nil
	}
	for _, p := range participants {
		if p != senderID {
			s.notify(ctx, p)
		}
	}
	return m, nil
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID) {
	if err := s.notifier.Notify(ctx, userID, "New Message", "You have a new message.", "chat"); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("notify failed")
	}
}

// GetMessages pages through a conversation in chronological order and marks
// the other side's messages as read.
func (s *Service) GetMessages(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return nil, 0, err
	}

	items, total, err := s.messages.ListByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, 0, clinicerr.Internalf(err, "list messages")
	}
	if items == nil {
		items = []*Message{}
	}

	if err := s.messages.MarkReadFromOthers(ctx, conversationID, userID); err != nil {
		return nil, 0, clinicerr.Internalf(err, "mark messages read")
	}
	return items, total, nil
}

// ListConversations returns the user's inbox ordered by last activity.
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]*ConversationSummary, error) {
	items, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list conversations")
	}
	if items == nil {
		items = []*ConversationSummary{}
	}
	return items, nil
}

// UnreadCount is derived from the message rows, never stored.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.messages.UnreadCount(ctx, userID)
	if err != nil {
		return 0, clinicerr.Internalf(err, "count unread messages")
	}
	return count, nil
}

// DeleteConversation removes the conversation with its messages and
// participants in one transaction.
func (s *Service) DeleteConversation(ctx context.Context, conversationID, userID uuid.UUID) error {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return err
	}

	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.messages.DeleteByConversation(ctx, conversationID); err != nil {
			return clinicerr.Internalf(err, "delete messages")
		}
		if err := s.conversations.DeleteParticipants(ctx, conversationID); err != nil {
			return clinicerr.Internalf(err, "delete participants")
		}
		if err := s.conversations.Delete(ctx, conversationID); err != nil {
			return clinicerr.Internalf(err, "delete conversation")
		}
		return nil
	})
}

// AvailableDoctors lists doctors the user has no conversation with yet.
func (s *Service) AvailableDoctors(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	items, err := s.conversations.AvailableDoctors(ctx, userID)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list available doctors")
	}
	if items == nil {
		items = []*Counterpart{}
	}
	return items, nil
}

// AvailablePatients lists patients the user has no conversation with yet.
func (s *Service) AvailablePatients(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	items, err := s.conversations.AvailablePatients(ctx, userID)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list available patients")
	}
	if items == nil {
		items = []*Counterpart{}
	}
	return items, nil
}

func (s *Service) requireParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		return clinicerr.FromPG(err, "conversation not found")
	}
	ok, err := s.conversations.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return clinicerr.Internalf(err, "check participant")
	}
	if !ok {
		return clinicerr.Authorizationf("not a participant in this conversation")
	}
	return nil
}
