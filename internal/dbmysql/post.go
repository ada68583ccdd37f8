package dbmysql

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string    `gorm:"index;size:36;not null" json:"author_id"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  *string   `gorm:"size:512" json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Author Profile `gorm:"foreignKey:AuthorID" json:"-"`
}

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"index;size:36;not null" json:"post_id"`
	AuthorID  string    `gorm:"index;size:36;not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Like is one user's like on one post, at most one row per pair.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    string    `gorm:"uniqueIndex:idx_like_post_user;size:36;not null" json:"post_id"`
	UserID    string    `gorm:"uniqueIndex:idx_like_post_user;size:36;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
