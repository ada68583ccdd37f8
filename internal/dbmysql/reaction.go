package dbmysql

import "time"

// Reaction is one user's emoji on one subject (post or comment).
// The unique index enforces at most one active emoji per user per
// subject; an emoji change is delete-then-insert, never an update.
type Reaction struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SubjectType string    `gorm:"uniqueIndex:idx_reaction_subject_user;size:10;not null" json:"subject_type"` // post, comment
	SubjectID   string    `gorm:"uniqueIndex:idx_reaction_subject_user;size:36;not null" json:"subject_id"`
	UserID      string    `gorm:"uniqueIndex:idx_reaction_subject_user;size:36;not null" json:"user_id"`
	Emoji       string    `gorm:"size:16;not null" json:"emoji"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
