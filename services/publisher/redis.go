package publisher

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher on a single Redis stream
type RedisPublisher struct {
	client          *redis.Client
	ownsClient      bool
	stream          string
	streamMaxLength int64
}

// NewRedisPublisher creates a Redis publisher with its own connection
func NewRedisPublisher(addr string, db int, stream string, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	p := NewRedisPublisherWithClient(client, stream, streamMaxLength)
	p.ownsClient = true
	return p
}

// NewRedisPublisherWithClient creates a Redis publisher on a client owned by
// the caller; Close leaves that client open.
func NewRedisPublisherWithClient(client *redis.Client, stream string, streamMaxLength int) *RedisPublisher {
	return &RedisPublisher{
		client:          client,
		stream:          stream,
		streamMaxLength: int64(streamMaxLength),
	}
}

// Publish adds the message to the stream as field key, trimming the
// stream to roughly its maximum length in the same command.
func (p *RedisPublisher) Publish(ctx context.Context, key string, message []byte) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			key: string(message),
		},
	}
	if p.streamMaxLength > 0 {
		args.MaxLen = p.streamMaxLength
		args.Approx = true
	}
	return p.client.XAdd(ctx, args).Err()
}

// Ping checks the stream's Redis connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis connection if the publisher created it
func (p *RedisPublisher) Close() error {
	if !p.ownsClient {
		return nil
	}
	return p.client.Close()
}
