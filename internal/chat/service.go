package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"linkup/internal/config"
	"linkup/internal/dbmongo"
	"linkup/internal/dbmysql"
)

var (
	ErrNotParticipant = errors.New("not a participant of this conversation")
	ErrEmptyMessage   = errors.New("message needs text or a voice note")
)

// VoiceNote carries an incoming voice recording.
type VoiceNote struct {
	Ext      string
	MimeType string
	Content  io.Reader
}

type Service interface {
	// GetOrCreateConversation returns the thread for the pair, creating
	// it on first contact.
	GetOrCreateConversation(ctx context.Context, userID, otherID string) (*dbmysql.Conversation, error)
	Conversations(ctx context.Context, userID string) ([]dbmysql.Conversation, error)
	SendMessage(ctx context.Context, userID, conversationID, text string, voice *VoiceNote) (*dbmysql.Message, error)
	Messages(ctx context.Context, userID, conversationID string) ([]dbmysql.Message, error)
}

type service struct {
	repo     Repository
	media    *dbmongo.MediaStorage
	mediaURL string
}

func NewService(cfg *config.Config, repo Repository, media *dbmongo.MediaStorage) Service {
	return &service{
		repo:     repo,
		media:    media,
		mediaURL: cfg.Media.BaseURL,
	}
}

// sortPair keeps conversation pairs in one canonical order.
func sortPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

func (s *service) GetOrCreateConversation(ctx context.Context, userID, otherID string) (*dbmysql.Conversation, error) {
	if userID == otherID {
		return nil, errors.New("cannot message yourself")
	}

	a, b := sortPair(userID, otherID)
	existing, err := s.repo.ConversationByPair(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conversation := &dbmysql.Conversation{
		ID:           uuid.NewString(),
		ParticipantA: a,
		ParticipantB: b,
	}
	if err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *service) Conversations(ctx context.Context, userID string) ([]dbmysql.Conversation, error) {
	return s.repo.ConversationsByUser(ctx, userID)
}

func (s *service) SendMessage(ctx context.Context, userID, conversationID, text string, voice *VoiceNote) (*dbmysql.Message, error) {
	conversation, err := s.repo.ConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.ParticipantA != userID && conversation.ParticipantB != userID {
		return nil, ErrNotParticipant
	}
	if text == "" && voice == nil {
		return nil, ErrEmptyMessage
	}

	message := &dbmysql.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       userID,
	}
	if text != "" {
		message.Content = &text
	}

	if voice != nil {
		filename := fmt.Sprintf("voice/%s/%d.%s", userID, time.Now().UnixNano(), voice.Ext)
		file, err := s.media.UploadFile(ctx, filename, voice.MimeType, userID, voice.Content)
		if err != nil {
			return nil, fmt.Errorf("voice upload failed: %w", err)
		}
		url := s.mediaURL + file.ID
		message.VoiceURL = &url
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *service) Messages(ctx context.Context, userID, conversationID string) ([]dbmysql.Message, error) {
	conversation, err := s.repo.ConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.ParticipantA != userID && conversation.ParticipantB != userID {
		return nil, ErrNotParticipant
	}
	return s.repo.MessagesByConversation(ctx, conversationID)
}
