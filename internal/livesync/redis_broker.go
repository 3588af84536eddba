package livesync

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisBroker carries events over redis pub/sub so that every server
// instance sees writes made by any other. Each Subscribe call holds its
// own pub/sub connection; Close releases it.
type RedisBroker struct {
	rdb *redis.Client
	log logrus.FieldLogger
}

func NewRedisBroker(rdb *redis.Client, log logrus.FieldLogger) *RedisBroker {
	return &RedisBroker{rdb: rdb, log: log}
}

func (b *RedisBroker) Subscribe(ctx context.Context, scope string) (*Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, scope)
	// force the SUBSCRIBE round-trip so a dead redis fails here, not later
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &Subscription{ch: make(chan Event, 8)}
	sub.onClose = func() {
		_ = pubsub.Close()
	}

	go func() {
		defer close(sub.ch)
		for msg := range pubsub.Channel() {
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				if b.log != nil {
					b.log.WithField("scope", scope).WithError(err).Warn("livesync: dropping malformed event")
				}
				continue
			}
			select {
			case sub.ch <- e:
			default:
			}
		}
	}()

	return sub, nil
}

func (b *RedisBroker) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, e.Scope, payload).Err()
}
