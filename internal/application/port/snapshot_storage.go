package port

import (
	"context"
	"time"
)

// SnapshotObject объект снимка в хранилище
type SnapshotObject struct {
	Key          string
	LastModified time.Time
	URL          string
	SizeBytes    int64
}

// SnapshotStorage объектное хранилище снимков дашборда
type SnapshotStorage interface {
	// PutObject загружает объект и возвращает URL для чтения.
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)

	// ListObjects перечисляет объекты под префиксом, новые первыми.
	ListObjects(ctx context.Context, prefix string, limit int) ([]SnapshotObject, error)

	// GetObjectURL возвращает URL для чтения объекта.
	GetObjectURL(ctx context.Context, key string) (string, error)
}
