package notif

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"linkup/internal/broker"
	"linkup/internal/cache"
	"linkup/internal/common"
	"linkup/internal/config"
	"linkup/internal/dbmysql"
)

// Sink receives a copy of every stored fan-out event. Sinks are
// best-effort: a failing sink is logged and never blocks the action
// that triggered the notification.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event common.NotificationEvent) error
}

// PostSummary is the slice of a post shipped with a notification page
// entry so the client can render context without another fetch.
type PostSummary struct {
	ID       string  `json:"id"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

// PageItem is one row on the notifications page, joined with the actor
// profile and, when the row references one, the post.
type PageItem struct {
	ID        string                  `json:"id"`
	Type      common.NotificationType `json:"type"`
	Actor     common.ProfileSummary   `json:"actor"`
	Post      *PostSummary            `json:"post,omitempty"`
	CommentID *string                 `json:"comment_id,omitempty"`
	Message   *string                 `json:"message,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

type Service interface {
	NotifyLike(ctx context.Context, actorID, recipientID, postID string) error
	NotifyComment(ctx context.Context, actorID, recipientID, postID, commentID string) error
	NotifyFollow(ctx context.Context, actorID, recipientID string) error

	// Page returns the newest notifications (capped) and then bulk-marks
	// the user's unread rows as read. The two steps are not atomic; a
	// row arriving in between may be marked read before it was seen.
	Page(ctx context.Context, userID string) ([]PageItem, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	Subscribe(ctx context.Context, userID string) (*broker.Subscription, error)
}

type service struct {
	repo     Repository
	broker   *broker.Broker
	unread   *cache.UnreadCache
	sinks    []Sink
	pageSize int
}

func NewService(cfg *config.Config, repo Repository, b *broker.Broker, unread *cache.UnreadCache, sinks []Sink) Service {
	pageSize := cfg.Notification.PageSize
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}
	return &service{
		repo:     repo,
		broker:   b,
		unread:   unread,
		sinks:    sinks,
		pageSize: pageSize,
	}
}

func (s *service) NotifyLike(ctx context.Context, actorID, recipientID, postID string) error {
	return s.fanOut(ctx, &dbmysql.Notification{
		UserID:  recipientID,
		ActorID: actorID,
		Type:    string(common.LikeNotification),
		PostID:  &postID,
	})
}

func (s *service) NotifyComment(ctx context.Context, actorID, recipientID, postID, commentID string) error {
	return s.fanOut(ctx, &dbmysql.Notification{
		UserID:    recipientID,
		ActorID:   actorID,
		Type:      string(common.CommentNotification),
		PostID:    &postID,
		CommentID: &commentID,
	})
}

func (s *service) NotifyFollow(ctx context.Context, actorID, recipientID string) error {
	return s.fanOut(ctx, &dbmysql.Notification{
		UserID:  recipientID,
		ActorID: actorID,
		Type:    string(common.FollowNotification),
	})
}

// fanOut stores the row, then feeds the live side. Self-actions are
// suppressed unconditionally before any store call. Everything after
// the insert is best-effort.
func (s *service) fanOut(ctx context.Context, n *dbmysql.Notification) error {
	if n.ActorID == n.UserID {
		return nil // never notify yourself
	}

	n.ID = uuid.NewString()
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("notification fan-out: %w", err)
	}

	event := common.NotificationEvent{
		ID:        n.ID,
		UserID:    n.UserID,
		ActorID:   n.ActorID,
		Type:      common.NotificationType(n.Type),
		PostID:    n.PostID,
		CommentID: n.CommentID,
		Message:   n.Message,
	}

	if err := s.broker.PublishNotification(event); err != nil {
		log.Printf("notification publish failed: %v", err)
	}
	if s.unread != nil {
		if err := s.unread.Incr(ctx, n.UserID); err != nil {
			log.Printf("unread counter incr failed: %v", err)
		}
	}
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			log.Printf("sink %s delivery failed: %v", sink.Name(), err)
		}
	}

	return nil
}

func (s *service) Page(ctx context.Context, userID string) ([]PageItem, error) {
	notifications, err := s.repo.RecentByUser(ctx, userID, s.pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.assemble(ctx, notifications)
	if err != nil {
		return nil, err
	}

	// mark-all-read after the read; the race with a concurrently
	// arriving row is accepted
	if _, err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}
	if s.unread != nil {
		if err := s.unread.Clear(ctx, userID); err != nil {
			log.Printf("unread counter clear failed: %v", err)
		}
	}

	return items, nil
}

// assemble joins actor profiles and referenced posts with one batched
// lookup each.
func (s *service) assemble(ctx context.Context, notifications []dbmysql.Notification) ([]PageItem, error) {
	actorSeen := make(map[string]bool)
	postSeen := make(map[string]bool)
	var actorIDs, postIDs []string
	for _, n := range notifications {
		if !actorSeen[n.ActorID] {
			actorSeen[n.ActorID] = true
			actorIDs = append(actorIDs, n.ActorID)
		}
		if n.PostID != nil && !postSeen[*n.PostID] {
			postSeen[*n.PostID] = true
			postIDs = append(postIDs, *n.PostID)
		}
	}

	profiles, err := s.repo.ProfilesByIDs(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	actors := make(map[string]common.ProfileSummary, len(profiles))
	for _, p := range profiles {
		actors[p.ID] = common.ProfileSummary{
			ID:          p.ID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
		}
	}

	posts, err := s.repo.PostsByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	postSummaries := make(map[string]PostSummary, len(posts))
	for _, p := range posts {
		postSummaries[p.ID] = PostSummary{ID: p.ID, Content: p.Content, ImageURL: p.ImageURL}
	}

	items := make([]PageItem, 0, len(notifications))
	for _, n := range notifications {
		item := PageItem{
			ID:        n.ID,
			Type:      common.NotificationType(n.Type),
			Actor:     actors[n.ActorID],
			CommentID: n.CommentID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.PostID != nil {
			if summary, ok := postSummaries[*n.PostID]; ok {
				item.Post = &summary
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// UnreadCount prefers the Redis counter and backfills it from the
// database on a miss.
func (s *service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if s.unread != nil {
		count, cached, err := s.unread.Get(ctx, userID)
		if err != nil {
			log.Printf("unread cache read failed: %v", err)
		} else if cached {
			return count, nil
		}
	}

	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.unread != nil {
		if err := s.unread.Set(ctx, userID, count); err != nil {
			log.Printf("unread cache backfill failed: %v", err)
		}
	}
	return count, nil
}

func (s *service) Subscribe(ctx context.Context, userID string) (*broker.Subscription, error) {
	return s.broker.Subscribe(ctx, userID)
}
