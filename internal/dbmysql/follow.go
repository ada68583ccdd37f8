package dbmysql

import "time"

type Follow struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID string    `gorm:"uniqueIndex:idx_follow_pair;size:36;not null" json:"follower_id"`
	FolloweeID string    `gorm:"uniqueIndex:idx_follow_pair;size:36;not null" json:"followee_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
