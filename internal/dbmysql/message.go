package dbmysql

import "time"

// Conversation is a direct-message thread between two users. The pair
// is stored sorted so a lookup never has to check both orderings.
type Conversation struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ParticipantA string    `gorm:"uniqueIndex:idx_conv_pair;size:36;not null" json:"participant_a"`
	ParticipantB string    `gorm:"uniqueIndex:idx_conv_pair;size:36;not null" json:"participant_b"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Message struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"index;size:36;not null" json:"conversation_id"`
	SenderID       string    `gorm:"size:36;not null" json:"sender_id"`
	Content        *string   `gorm:"type:text" json:"content,omitempty"`
	VoiceURL       *string   `gorm:"size:512" json:"voice_url,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
