package storage

import (
	"context"
	"errors"
)

// ErrObjectExists: upload bị từ chối vì key đã tồn tại (không overwrite)
var ErrObjectExists = errors.New("object already exists")

// ObjectStore is the upload target for migrated photos. Implementations never
// overwrite an existing key.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}
