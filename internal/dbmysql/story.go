package dbmysql

import "time"

type Story struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string    `gorm:"index;size:36;not null" json:"author_id"`
	MediaURL  string    `gorm:"size:512;not null" json:"media_url"`
	MediaType string    `gorm:"size:10;not null" json:"media_type"` // image, video
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}
