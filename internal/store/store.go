package store

import "context"

// Store defines the interface for subscriber storage operations
type Store interface {
	// Subscriber operations
	Subscribe(ctx context.Context, email, source string) (bool, error)
	GetSubscriber(ctx context.Context, email string) (*Subscriber, error)
	ListSubscribers(ctx context.Context) ([]*Subscriber, error)
	CountSubscribers(ctx context.Context) (int, error)
	SourceStats(ctx context.Context) ([]SourceStats, error)
	Unsubscribe(ctx context.Context, email string) error

	// Lifecycle
	Close() error
}
