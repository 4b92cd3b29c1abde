package usecase

import (
	"context"
	"io"
	"time"

	"loyalty-hub/pkg/queue"
	"loyalty-hub/pkg/whatsapp"
)

// EventPublisher is satisfied by *queue.Client.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.Event) error
}

// FileStore is satisfied by *s3.Client.
type FileStore interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

// MessageSender is satisfied by *whatsapp.Client.
type MessageSender interface {
	SendText(ctx context.Context, to, body string) (*whatsapp.SendResult, error)
	SendTemplate(ctx context.Context, to, name, language string, params []string) (*whatsapp.SendResult, error)
	SendMedia(ctx context.Context, to, mediaType, link, caption string) (*whatsapp.SendResult, error)
}

// KeyValueStore is satisfied by *cache.Store. Get and Take return cache.ErrMiss
// for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Take(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
}
