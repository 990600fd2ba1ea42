package publisher

import "context"

// Publisher represents a sink for finished import reports
type Publisher interface {
	// Publish appends a message under the given key
	Publish(ctx context.Context, key string, message []byte) error

	// Close releases the publisher's resources
	Close() error
}
