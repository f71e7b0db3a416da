package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/botgate/telegram"
	"github.com/marcelsud/botgate/update"
	"github.com/redis/go-redis/v9"
)

/* Redis Streams implementation of update.Handler
 * Every acknowledged update is appended to one stream that bot workers consume
 * The stream is trimmed approximately to maxLen entries
 */

const (
	// DefaultStream is the stream key used when none is configured
	DefaultStream = "updates:telegram"

	// DefaultMaxLen bounds the stream when no limit is configured
	DefaultMaxLen = 10000
)

// Entry is an update as stored in the stream
type Entry struct {
	StreamID   string
	EventID    string
	UpdateID   int64
	Kind       string
	Payload    []byte
	ReceivedAt time.Time
}

type Stream struct {
	client *redis.Client
	key    string
	maxLen int64
}

// NewStream connects to Redis and returns a stream inbox
func NewStream(addr, password string, db int, key string, maxLen int64) (*Stream, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return NewStreamFromClient(client, key, maxLen), nil
}

// NewStreamFromClient wraps an existing client
func NewStreamFromClient(client *redis.Client, key string, maxLen int64) *Stream {
	if key == "" {
		key = DefaultStream
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Stream{
		client: client,
		key:    key,
		maxLen: maxLen,
	}
}

// HandleUpdate appends the update to the stream. The token is not stored.
func (s *Stream) HandleUpdate(ctx context.Context, u update.Update, _ telegram.Token) error {
	_, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.key,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"event_id":    u.EventID,
			"update_id":   u.ID,
			"kind":        u.Kind,
			"payload":     []byte(u.Raw),
			"received_at": u.ReceivedAt.UnixMilli(),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("adding update %s to stream: %w", u.EventID, err)
	}
	return nil
}

// Len returns the number of entries in the stream
func (s *Stream) Len(ctx context.Context) (int64, error) {
	n, err := s.client.XLen(ctx, s.key).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("reading stream length: %w", err)
	}
	return n, nil
}

// Recent returns up to count entries, newest first
func (s *Stream) Recent(ctx context.Context, count int64) ([]Entry, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.key, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}

	entries := make([]Entry, 0, len(msgs))
	for _, msg := range msgs {
		entries = append(entries, Entry{
			StreamID:   msg.ID,
			EventID:    stringValue(msg.Values["event_id"]),
			UpdateID:   parseInt64(stringValue(msg.Values["update_id"])),
			Kind:       stringValue(msg.Values["kind"]),
			Payload:    []byte(stringValue(msg.Values["payload"])),
			ReceivedAt: time.UnixMilli(parseInt64(stringValue(msg.Values["received_at"]))).UTC(),
		})
	}
	return entries, nil
}

// Ping checks the connection
func (s *Stream) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Stream) Close(ctx context.Context) error {
	return s.client.Close()
}

// Helper functions

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
