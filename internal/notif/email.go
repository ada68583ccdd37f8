package notif

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"linkup/internal/common"
	"linkup/internal/config"
)

// EmailSink sends a plain email per fan-out event. Off by default;
// meant for deployments without a connected client to show the live
// counter.
type EmailSink struct {
	dialer *gomail.Dialer
	from   string
	repo   Repository
}

func NewEmailSink(cfg *config.Config, repo Repository) *EmailSink {
	return &EmailSink{
		dialer: gomail.NewDialer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.Username, cfg.Email.Password),
		from:   cfg.Email.FromEmail,
		repo:   repo,
	}
}

func (s *EmailSink) Name() string {
	return "email_sink"
}

func (s *EmailSink) Deliver(ctx context.Context, event common.NotificationEvent) error {
	profiles, err := s.repo.ProfilesByIDs(ctx, []string{event.UserID, event.ActorID})
	if err != nil {
		return err
	}

	var to, actorName string
	for _, p := range profiles {
		if p.ID == event.UserID {
			to = p.Email
		}
		if p.ID == event.ActorID {
			actorName = p.Username
		}
	}
	if to == "" {
		return nil // recipient has no email on file
	}

	var body string
	switch event.Type {
	case common.LikeNotification:
		body = fmt.Sprintf("%s liked your post.", actorName)
	case common.CommentNotification:
		body = fmt.Sprintf("%s commented on your post.", actorName)
	case common.FollowNotification:
		body = fmt.Sprintf("%s started following you.", actorName)
	default:
		body = fmt.Sprintf("%s did something.", actorName)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New activity on linkup")
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
