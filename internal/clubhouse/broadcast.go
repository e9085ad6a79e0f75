package clubhouse

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Broadcaster fans new clubhouse messages out to live streams.
type Broadcaster interface {
	Publish(ctx context.Context, eventID string, payload []byte) error
	// Subscribe returns a feed for eventID and a func that ends the subscription.
	Subscribe(ctx context.Context, eventID string) (<-chan []byte, func(), error)
}

func channelName(eventID string) string {
	return "clubhouse:" + eventID
}

// NewBroadcaster uses Redis pub/sub when rdb is set so every instance sees every post,
// and an in-process hub otherwise.
func NewBroadcaster(rdb *redis.Client) Broadcaster {
	if rdb != nil {
		return &redisBroadcaster{rdb: rdb}
	}
	return newLocalBroadcaster()
}

type redisBroadcaster struct {
	rdb *redis.Client
}

func (b *redisBroadcaster) Publish(ctx context.Context, eventID string, payload []byte) error {
	return b.rdb.Publish(ctx, channelName(eventID), payload).Err()
}

func (b *redisBroadcaster) Subscribe(ctx context.Context, eventID string) (<-chan []byte, func(), error) {
	sub := b.rdb.Subscribe(ctx, channelName(eventID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan []byte, 16)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}, nil
}

type localBroadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

func newLocalBroadcaster() *localBroadcaster {
	return &localBroadcaster{subs: make(map[string]map[chan []byte]struct{})}
}

// Publish never blocks; a subscriber with a full buffer misses the message.
func (b *localBroadcaster) Publish(_ context.Context, eventID string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[eventID] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *localBroadcaster) Subscribe(_ context.Context, eventID string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 16)

	b.mu.Lock()
	if b.subs[eventID] == nil {
		b.subs[eventID] = make(map[chan []byte]struct{})
	}
	b.subs[eventID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[eventID], ch)
			if len(b.subs[eventID]) == 0 {
				delete(b.subs, eventID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}, nil
}
