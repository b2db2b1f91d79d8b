package snapshot

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("snapshot not found")

// Store keeps the last raw account-list response.
type Store interface {
	Save(ctx context.Context, raw []byte) error
	Load(ctx context.Context) ([]byte, error)
}
