package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Conversation Repository ===========

type conversationRepoPG struct{ pool *pgxpool.Pool }

func NewConversationRepoPG(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepoPG{pool: pool}
}

func (r *conversationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const convCols = `id, title, created_at, updated_at`

func (r *conversationRepoPG) scan(row pgx.Row) (*Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepoPG) Create(ctx context.Context, c *Conversation) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO conversations (id, title) VALUES ($1, $2)`, c.ID, c.Title)
	return err
}

func (r *conversationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+convCols+` FROM conversations WHERE id = $1`, id))
}

func (r *conversationRepoPG) AddParticipant(ctx context.Context, conversationID, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO conversation_participants (conversation_id, user_id)
		VALUES ($1, $2)`, conversationID, userID)
	return err
}

func (r *conversationRepoPG) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM conversation_participants
			WHERE conversation_id = $1 AND user_id = $2)`, conversationID, userID).
		Scan(&exists)
	return exists, err
}

func (r *conversationRepoPG) Participants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT user_id FROM conversation_participants WHERE conversation_id = $1`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *conversationRepoPG) FindBetween(ctx context.Context, a, b uuid.UUID) (*Conversation, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `
		SELECT c.id, c.title, c.created_at, c.updated_at
		FROM conversations c
		WHERE EXISTS (SELECT 1 FROM conversation_participants
			WHERE conversation_id = c.id AND user_id = $1)
		AND EXISTS (SELECT 1 FROM conversation_participants
			WHERE conversation_id = c.id AND user_id = $2)
		AND (SELECT COUNT(*) FROM conversation_participants
			WHERE conversation_id = c.id) = 2
		LIMIT 1`, a, b))
}

func (r *conversationRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ConversationSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT c.id, c.title, c.updated_at
		FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id
		WHERE cp.user_id = $1
		ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*ConversationSummary
	for rows.Next() {
		var s ConversationSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.UpdatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range summaries {
		others, err := r.otherParticipants(ctx, s.ID, userID)
		if err != nil {
			return nil, err
		}
		s.Participants = others

		last, err := r.lastMessage(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.LastMessage = last
	}
	return summaries, nil
}

func (r *conversationRepoPG) otherParticipants(ctx context.Context, conversationID, userID uuid.UUID) ([]*Counterpart, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT u.id, u.role, COALESCE(p.first_name, ''), COALESCE(p.last_name, ''), u.email
		FROM conversation_participants cp
		JOIN users u ON u.id = cp.user_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE cp.conversation_id = $1 AND cp.user_id <> $2`, conversationID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCounterparts(rows)
}

func (r *conversationRepoPG) lastMessage(ctx context.Context, conversationID uuid.UUID) (*Message, error) {
	var m Message
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT `+msgCols+` FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC LIMIT 1`, conversationID).
		Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Type, &m.Read, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *conversationRepoPG) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *conversationRepoPG) DeleteParticipants(ctx context.Context, conversationID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM conversation_participants WHERE conversation_id = $1`, conversationID)
	return err
}

func (r *conversationRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	return err
}

// AvailableDoctors lists doctors the user has no conversation with yet.
func (r *conversationRepoPG) AvailableDoctors(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	return r.available(ctx, userID, "doctors")
}

// AvailablePatients lists patients the user has no conversation with yet.
func (r *conversationRepoPG) AvailablePatients(ctx context.Context, userID uuid.UUID) ([]*Counterpart, error) {
	return r.available(ctx, userID, "patients")
}

func (r *conversationRepoPG) available(ctx context.Context, userID uuid.UUID, table string) ([]*Counterpart, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT u.id, u.role, COALESCE(p.first_name, ''), COALESCE(p.last_name, ''), u.email
		FROM `+table+` t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id <> $1
		AND NOT EXISTS (
			SELECT 1 FROM conversation_participants cp1
			JOIN conversation_participants cp2
				ON cp2.conversation_id = cp1.conversation_id
			WHERE cp1.user_id = $1 AND cp2.user_id = u.id)
		ORDER BY p.last_name, p.first_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCounterparts(rows)
}

func scanCounterparts(rows pgx.Rows) ([]*Counterpart, error) {
	var items []*Counterpart
	for rows.Next() {
		var cp Counterpart
		var first, last string
		if err := rows.Scan(&cp.UserID, &cp.Role, &first, &last, &cp.Email); err != nil {
			return nil, err
		}
		cp.DisplayName = counterpartName(cp.Role, first, last, cp.Email)
		items = append(items, &cp)
	}
	return items, rows.Err()
}

// =========== Message Repository ===========

type messageRepoPG struct{ pool *pgxpool.Pool }

func NewMessageRepoPG(pool *pgxpool.Pool) MessageRepository {
	return &messageRepoPG{pool: pool}
}

func (r *messageRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const msgCols = `id, conversation_id, sender_id, content, type, read, created_at`

func (r *messageRepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, content, type, read)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.Type, m.Read)
	return err
}

func (r *messageRepoPG) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*Message, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = $1`, conversationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+msgCols+` FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`, conversationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Type, &m.Read, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	return items, total, rows.Err()
}

func (r *messageRepoPG) MarkReadFromOthers(ctx context.Context, conversationID, userID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE messages SET read = TRUE
		WHERE conversation_id = $1 AND sender_id <> $2 AND read = FALSE`,
		conversationID, userID)
	return err
}

func (r *messageRepoPG) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*)
		FROM messages m
		JOIN conversation_participants cp
			ON cp.conversation_id = m.conversation_id AND cp.user_id = $1
		WHERE m.sender_id <> $1 AND m.read = FALSE`, userID).
		Scan(&count)
	return count, err
}

func (r *messageRepoPG) DeleteByConversation(ctx context.Context, conversationID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM messages WHERE conversation_id = $1`, conversationID)
	return err
}
