package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"linkup/internal/common"
	"linkup/internal/config"
)

// Broker is the in-process pub/sub carrying inserted-notification
// events from the write side to live subscribers. One topic per
// recipient, so a subscriber only sees its own rows.
type Broker struct {
	pubSub *gochannel.GoChannel
}

func NewBroker(cfg *config.Config) *Broker {
	buffer := int64(cfg.Notification.ChannelBufferSize)
	if buffer <= 0 {
		buffer = 256
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: buffer},
		watermill.NopLogger{},
	)

	return &Broker{pubSub: pubSub}
}

func notificationTopic(userID string) string {
	return fmt.Sprintf("notifications.%s", userID)
}

// PublishNotification fans the stored event out to whoever is
// listening. Callers treat failure as best-effort.
func (b *Broker) PublishNotification(event common.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubSub.Publish(notificationTopic(event.UserID), msg)
}

// Subscription is a cancellable handle over the stream of notification
// inserts for one user. Close it (or cancel the context it was created
// with) to tear the stream down; Events is closed afterwards.
type Subscription struct {
	events <-chan common.NotificationEvent
	cancel context.CancelFunc
}

func (s *Subscription) Events() <-chan common.NotificationEvent {
	return s.events
}

func (s *Subscription) Close() {
	s.cancel()
}

// Subscribe opens a live stream of this user's notification inserts.
func (b *Broker) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	messages, err := b.pubSub.Subscribe(ctx, notificationTopic(userID))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe failed: %w", err)
	}

	out := make(chan common.NotificationEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			var event common.NotificationEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				log.Printf("dropping malformed notification event: %v", err)
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Subscription{events: out, cancel: cancel}, nil
}

func (b *Broker) Close() error {
	return b.pubSub.Close()
}
