package port

import (
	"context"
	"time"
)

// SnapshotMetadata метаданные одного раздела в снимке
type SnapshotMetadata struct {
	SnapshotID   string
	DashboardID  string
	Section      string
	S3Key        string
	URL          string
	ContentType  string
	SizeBytes    int64
	CapturedAt   time.Time
	LastModified time.Time
	ExpiresAt    time.Time
}

// SnapshotListQuery параметры выборки снимков
type SnapshotListQuery struct {
	DashboardID string
	Limit       int
	Cursor      string
	Section     string
	From        time.Time
	To          time.Time
}

// SnapshotListPage страница результата и курсор следующей
type SnapshotListPage struct {
	Items      []SnapshotMetadata
	NextCursor string
}

// SnapshotMetadataRepository индекс метаданных снимков
type SnapshotMetadataRepository interface {
	PutBatch(ctx context.Context, records []SnapshotMetadata) error
	ListByDashboard(ctx context.Context, query SnapshotListQuery) (SnapshotListPage, error)
}
