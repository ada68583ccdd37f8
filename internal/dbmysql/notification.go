package dbmysql

import "time"

// Notification is the fan-out record for a like/comment/follow aimed at
// another user. Rows are inserted by the actor's action, flipped to
// read in bulk when the recipient opens the notifications page, and
// never deleted here.
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"` // recipient
	ActorID   string    `gorm:"size:36;not null" json:"actor_id"`
	Type      string    `gorm:"size:20;not null" json:"type"` // like, comment, follow
	PostID    *string   `gorm:"size:36" json:"post_id,omitempty"`
	CommentID *string   `gorm:"size:36" json:"comment_id,omitempty"`
	Message   *string   `gorm:"size:255" json:"message,omitempty"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
