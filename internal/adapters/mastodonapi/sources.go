package mastodonapi

import (
	"context"
	"time"

	"github.com/mattn/go-mastodon"
	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
)

// reconnectDelay spaces out re-opening a stream after its channel closes.
const reconnectDelay = 5 * time.Second

// StreamKind selects which live stream a StreamSource opens.
type StreamKind int

const (
	StreamUser StreamKind = iota
	StreamPublic
	StreamHashtag
)

// StreamSource is a live event source backed by one Mastodon stream. The
// emitted channel stays open across reconnects and closes only on context
// cancellation.
type StreamSource struct {
	client  *Client
	kind    StreamKind
	hashtag string
	logger  *zap.Logger
}

// NewUserStreamSource watches the operator's personal timeline stream
func NewUserStreamSource(client *Client, logger *zap.Logger) *StreamSource {
	return &StreamSource{client: client, kind: StreamUser, logger: logger}
}

// NewPublicStreamSource watches the federated public stream
func NewPublicStreamSource(client *Client, logger *zap.Logger) *StreamSource {
	return &StreamSource{client: client, kind: StreamPublic, logger: logger}
}

// NewHashtagStreamSource watches one hashtag's stream
func NewHashtagStreamSource(client *Client, hashtag string, logger *zap.Logger) *StreamSource {
	return &StreamSource{client: client, kind: StreamHashtag, hashtag: hashtag, logger: logger}
}

func (s *StreamSource) Name() string {
	switch s.kind {
	case StreamUser:
		return "user-stream"
	case StreamPublic:
		return "public-stream"
	default:
		return "hashtag-stream:#" + s.hashtag
	}
}

func (s *StreamSource) open(ctx context.Context) (chan mastodon.Event, error) {
	switch s.kind {
	case StreamUser:
		return s.client.api.StreamingUser(ctx)
	case StreamPublic:
		return s.client.api.StreamingPublic(ctx, false)
	default:
		return s.client.api.StreamingHashtag(ctx, s.hashtag, false)
	}
}

// Stream opens the live stream and converts its events into account
// snapshots, reconnecting whenever the underlying channel closes
func (s *StreamSource) Stream(ctx context.Context) (<-chan core.AccountSnapshot, error) {
	events, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan core.AccountSnapshot)
	go func() {
		defer close(out)
		for {
			s.pump(ctx, events, out)
			if ctx.Err() != nil {
				return
			}

			s.logger.Warn("Stream closed, reconnecting",
				zap.String("source", s.Name()),
				zap.Duration("delay", reconnectDelay))
			select {
			case <-time.After(reconnectDelay):
			case <-ctx.Done():
				return
			}

			events, err = s.open(ctx)
			if err != nil {
				s.logger.Error("Failed to reopen stream",
					zap.String("source", s.Name()),
					zap.Error(err))
				events = nil
			}
		}
	}()

	return out, nil
}

// pump drains one stream channel until it closes or the context is cancelled
func (s *StreamSource) pump(ctx context.Context, events chan mastodon.Event, out chan<- core.AccountSnapshot) {
	if events == nil {
		return
	}
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			for _, snapshot := range snapshotsFromEvent(event) {
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
			if errEvent, ok := event.(*mastodon.ErrorEvent); ok {
				s.logger.Warn("Stream error event",
					zap.String("source", s.Name()),
					zap.String("error", errEvent.Error()))
			}
		case <-ctx.Done():
			return
		}
	}
}

// snapshotsFromEvent extracts the accounts observed in a stream event
func snapshotsFromEvent(event mastodon.Event) []core.AccountSnapshot {
	switch e := event.(type) {
	case *mastodon.UpdateEvent:
		if e.Status == nil {
			return nil
		}
		return []core.AccountSnapshot{snapshotFromAccount(e.Status.Account)}
	case *mastodon.NotificationEvent:
		if e.Notification == nil {
			return nil
		}
		return []core.AccountSnapshot{snapshotFromAccount(e.Notification.Account)}
	default:
		return nil
	}
}

// BackfillSource replays one hashtag's recent timeline once through the same
// event path as live events, then closes.
type BackfillSource struct {
	client  *Client
	hashtag string
	limit   int
	logger  *zap.Logger
}

// NewBackfillSource creates a one-shot backfill of a hashtag's recent statuses
func NewBackfillSource(client *Client, hashtag string, limit int, logger *zap.Logger) *BackfillSource {
	return &BackfillSource{client: client, hashtag: hashtag, limit: limit, logger: logger}
}

func (b *BackfillSource) Name() string {
	return "hashtag-backfill:#" + b.hashtag
}

// Stream fetches the recent timeline and emits each status's account
func (b *BackfillSource) Stream(ctx context.Context) (<-chan core.AccountSnapshot, error) {
	statuses, err := b.client.api.GetTimelineHashtag(ctx, b.hashtag, false, &mastodon.Pagination{
		Limit: int64(b.limit),
	})
	if err != nil {
		return nil, err
	}

	b.logger.Info("Backfilling hashtag timeline",
		zap.String("hashtag", b.hashtag),
		zap.Int("statuses", len(statuses)))

	out := make(chan core.AccountSnapshot)
	go func() {
		defer close(out)
		for _, status := range statuses {
			select {
			case out <- snapshotFromAccount(status.Account):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
