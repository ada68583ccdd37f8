package dbmysql

import "time"

type Profile struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	DisplayName  string    `gorm:"size:100" json:"display_name"`
	AvatarURL    *string   `gorm:"size:512" json:"avatar_url"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
