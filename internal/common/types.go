package common

// SubjectType is the kind of entity a reaction attaches to.
type SubjectType string

const (
	SubjectPost    SubjectType = "post"
	SubjectComment SubjectType = "comment"
)

func (s SubjectType) Valid() bool {
	return s == SubjectPost || s == SubjectComment
}

type NotificationType string

const (
	LikeNotification    NotificationType = "like"
	CommentNotification NotificationType = "comment"
	FollowNotification  NotificationType = "follow"
)

// ProfileSummary is the slice of a profile shipped alongside reactions
// and notifications so callers never do a per-actor lookup.
type ProfileSummary struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// NotificationEvent is the in-flight form of one fan-out: what the
// broker publishes after the row is stored, and what the kafka/email
// sinks see.
type NotificationEvent struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"` // recipient
	ActorID   string           `json:"actor_id"`
	Type      NotificationType `json:"type"`
	PostID    *string          `json:"post_id,omitempty"`
	CommentID *string          `json:"comment_id,omitempty"`
	Message   *string          `json:"message,omitempty"`
}
