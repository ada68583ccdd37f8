package chat

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"linkup/internal/dbmysql"
)

var ErrNotFound = errors.New("conversation not found")

type Repository interface {
	ConversationByPair(ctx context.Context, participantA, participantB string) (*dbmysql.Conversation, error)
	ConversationByID(ctx context.Context, id string) (*dbmysql.Conversation, error)
	CreateConversation(ctx context.Context, conversation *dbmysql.Conversation) error
	ConversationsByUser(ctx context.Context, userID string) ([]dbmysql.Conversation, error)

	CreateMessage(ctx context.Context, message *dbmysql.Message) error
	MessagesByConversation(ctx context.Context, conversationID string) ([]dbmysql.Message, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ConversationByPair expects the pair already sorted; it returns nil
// with no error when no thread exists yet.
func (r *repository) ConversationByPair(ctx context.Context, participantA, participantB string) (*dbmysql.Conversation, error) {
	var conversation dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", participantA, participantB).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return &conversation, nil
}

func (r *repository) ConversationByID(ctx context.Context, id string) (*dbmysql.Conversation, error) {
	var conversation dbmysql.Conversation
	err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return &conversation, nil
}

func (r *repository) CreateConversation(ctx context.Context, conversation *dbmysql.Conversation) error {
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *repository) ConversationsByUser(ctx context.Context, userID string) ([]dbmysql.Conversation, error) {
	var conversations []dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

func (r *repository) CreateMessage(ctx context.Context, message *dbmysql.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *repository) MessagesByConversation(ctx context.Context, conversationID string) ([]dbmysql.Message, error) {
	var messages []dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
