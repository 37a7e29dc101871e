package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

type listMockSnapshotStorage struct {
	objectsByPrefix map[string][]port.SnapshotObject
	err             error
	lastPrefix      string
	lastLimit       int
}

func (m *listMockSnapshotStorage) PutObject(_ context.Context, _, _ string, _ []byte) (string, error) {
	return "", nil
}

func (m *listMockSnapshotStorage) ListObjects(_ context.Context, prefix string, limit int) ([]port.SnapshotObject, error) {
	m.lastPrefix = prefix
	m.lastLimit = limit

	if m.err != nil {
		return nil, m.err
	}
	return m.objectsByPrefix[prefix], nil
}

func (m *listMockSnapshotStorage) GetObjectURL(_ context.Context, key string) (string, error) {
	return "https://signed.example.com/" + key, nil
}

type listMockSnapshotIndex struct {
	page      port.SnapshotListPage
	err       error
	lastQuery port.SnapshotListQuery
}

func (m *listMockSnapshotIndex) PutBatch(_ context.Context, _ []port.SnapshotMetadata) error {
	return nil
}

func (m *listMockSnapshotIndex) ListByDashboard(_ context.Context, query port.SnapshotListQuery) (port.SnapshotListPage, error) {
	m.lastQuery = query
	if m.err != nil {
		return port.SnapshotListPage{}, m.err
	}
	return m.page, nil
}

func TestListDashboardSnapshotsUseCase_Success(t *testing.T) {
	storage := &listMockSnapshotStorage{
		objectsByPrefix: map[string][]port.SnapshotObject{
			"rai-snapshots/main/": {
				{
					Key:          "rai-snapshots/main/2026/02/08/20260208T090500Z_overview.json",
					URL:          "https://example.com/2",
					LastModified: time.Date(2026, 2, 8, 9, 10, 0, 0, time.UTC),
				},
				{
					Key:          "rai-snapshots/main/2026/02/08/20260208T090400Z_policies.json",
					URL:          "https://example.com/1",
					LastModified: time.Date(2026, 2, 8, 9, 9, 0, 0, time.UTC),
				},
			},
		},
	}

	uc := NewListDashboardSnapshotsUseCase(
		storage,
		nil,
		ListDashboardSnapshotsConfig{
			KeyPrefix:           "rai-snapshots",
			DefaultLimit:        24,
			MaxLimit:            100,
			FallbackToS3OnError: true,
		},
		logger.New("error"),
	)

	res, err := uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if storage.lastPrefix != "rai-snapshots/main/" {
		t.Fatalf("unexpected prefix: %s", storage.lastPrefix)
	}
	if storage.lastLimit != 24 {
		t.Fatalf("unexpected limit: %d", storage.lastLimit)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[0].Section != "overview" {
		t.Fatalf("expected first section overview, got %s", res.Items[0].Section)
	}
	if res.Items[0].CapturedAt.IsZero() {
		t.Fatalf("expected captured_at to be parsed")
	}
	if !res.Items[0].LastModified.After(res.Items[1].LastModified) {
		t.Fatalf("expected result sorted by last_modified desc")
	}
}

func TestListDashboardSnapshotsUseCase_ValidationAndLimit(t *testing.T) {
	storage := &listMockSnapshotStorage{}
	uc := NewListDashboardSnapshotsUseCase(
		storage,
		nil,
		ListDashboardSnapshotsConfig{
			KeyPrefix:           "rai-snapshots",
			DefaultLimit:        10,
			MaxLimit:            50,
			FallbackToS3OnError: true,
		},
		logger.New("error"),
	)

	_, err := uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "invalid id",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid dashboard_id") {
		t.Fatalf("expected invalid dashboard_id error, got %v", err)
	}

	_, err = uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
		Limit:       500,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if storage.lastLimit != 50 {
		t.Fatalf("expected clamped limit 50, got %d", storage.lastLimit)
	}
}

func TestListDashboardSnapshotsUseCase_StorageError(t *testing.T) {
	storage := &listMockSnapshotStorage{err: errors.New("boom")}
	uc := NewListDashboardSnapshotsUseCase(
		storage,
		nil,
		ListDashboardSnapshotsConfig{
			KeyPrefix:           "rai-snapshots",
			DefaultLimit:        24,
			MaxLimit:            100,
			FallbackToS3OnError: true,
		},
		logger.New("error"),
	)

	_, err := uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
	})
	if err == nil || !strings.Contains(err.Error(), "failed to list snapshots") {
		t.Fatalf("expected storage error wrapper, got %v", err)
	}
}

func TestListDashboardSnapshotsUseCase_MetadataPrimary(t *testing.T) {
	metadataRepo := &listMockSnapshotIndex{
		page: port.SnapshotListPage{
			Items: []port.SnapshotMetadata{
				{
					DashboardID:  "main",
					Section:      "overview",
					S3Key:        "rai-snapshots/main/2026/02/08/20260208T090500Z_overview.json",
					CapturedAt:   time.Date(2026, 2, 8, 9, 5, 0, 0, time.UTC),
					LastModified: time.Date(2026, 2, 8, 9, 5, 1, 0, time.UTC),
				},
			},
			NextCursor: "next-page",
		},
	}
	storage := &listMockSnapshotStorage{}
	uc := NewListDashboardSnapshotsUseCase(
		storage,
		metadataRepo,
		ListDashboardSnapshotsConfig{
			KeyPrefix:           "rai-snapshots",
			DefaultLimit:        24,
			MaxLimit:            100,
			FallbackToS3OnError: true,
		},
		logger.New("error"),
	)

	res, err := uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
		Limit:       10,
		Section:     "overview",
		Cursor:      "cursor",
		From:        time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.NextCursor != "next-page" {
		t.Fatalf("unexpected next cursor: %s", res.NextCursor)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
	if !strings.HasPrefix(res.Items[0].URL, "https://signed.example.com/") {
		t.Fatalf("expected signed URL, got %s", res.Items[0].URL)
	}
	if metadataRepo.lastQuery.Section != "overview" {
		t.Fatalf("expected section filter to be passed")
	}
}

func TestListDashboardSnapshotsUseCase_MetadataFallbackToS3(t *testing.T) {
	metadataRepo := &listMockSnapshotIndex{err: errors.New("ddb down")}
	storage := &listMockSnapshotStorage{
		objectsByPrefix: map[string][]port.SnapshotObject{
			"rai-snapshots/main/": {
				{
					Key:          "rai-snapshots/main/2026/02/08/20260208T090500Z_overview.json",
					URL:          "https://example.com/2",
					LastModified: time.Date(2026, 2, 8, 9, 10, 0, 0, time.UTC),
				},
			},
		},
	}
	uc := NewListDashboardSnapshotsUseCase(
		storage,
		metadataRepo,
		ListDashboardSnapshotsConfig{
			KeyPrefix:           "rai-snapshots",
			DefaultLimit:        24,
			MaxLimit:            100,
			FallbackToS3OnError: true,
		},
		logger.New("error"),
	)

	res, err := uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
		Limit:       24,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(res.Items))
	}
}

func TestListDashboardSnapshotsUseCase_MetadataNoFallback(t *testing.T) {
	metadataRepo := &listMockSnapshotIndex{err: errors.New("ddb down")}
	storage := &listMockSnapshotStorage{}
	uc := NewListDashboardSnapshotsUseCase(
		storage,
		metadataRepo,
		ListDashboardSnapshotsConfig{
			KeyPrefix:           "rai-snapshots",
			DefaultLimit:        24,
			MaxLimit:            100,
			FallbackToS3OnError: false,
		},
		logger.New("error"),
	)

	_, err := uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
		Limit:       24,
	})
	if err == nil || !strings.Contains(err.Error(), "metadata index") {
		t.Fatalf("expected metadata index error, got %v", err)
	}
}

func TestListDashboardSnapshotsUseCase_SectionFilter(t *testing.T) {
	storage := &listMockSnapshotStorage{
		objectsByPrefix: map[string][]port.SnapshotObject{
			"rai-snapshots/main/": {
				{
					Key:          "rai-snapshots/main/2026/02/08/20260208T090500Z_overview.json",
					LastModified: time.Date(2026, 2, 8, 9, 10, 0, 0, time.UTC),
				},
				{
					Key:          "rai-snapshots/main/2026/02/08/20260208T090500Z_guardrails-section.json",
					LastModified: time.Date(2026, 2, 8, 9, 10, 1, 0, time.UTC),
				},
			},
		},
	}
	uc := NewListDashboardSnapshotsUseCase(storage, nil, ListDashboardSnapshotsConfig{KeyPrefix: "rai-snapshots"}, logger.New("error"))

	res, err := uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
		Section:     "guardrails-section",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Section != "guardrails-section" {
		t.Fatalf("unexpected items: %+v", res.Items)
	}

	_, err = uc.Execute(context.Background(), ListDashboardSnapshotsCommand{
		DashboardID: "main",
		Section:     "settings",
	})
	if err == nil {
		t.Fatalf("expected unknown section error")
	}
}

func TestParseSnapshotKey(t *testing.T) {
	tests := []struct {
		key         string
		wantSection string
		wantTime    time.Time
	}{
		{
			key:         "rai-snapshots/main/2026/02/08/20260208T090500Z_sustainability-cost.json",
			wantSection: "sustainability-cost",
			wantTime:    time.Date(2026, 2, 8, 9, 5, 0, 0, time.UTC),
		},
		{key: "rai-snapshots/main/readme.txt", wantSection: "unknown"},
		{key: "rai-snapshots/main/garbage_overview.json", wantSection: "overview"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			captured, section := parseSnapshotKey(tt.key)
			if section != tt.wantSection {
				t.Fatalf("section = %s, want %s", section, tt.wantSection)
			}
			if !captured.Equal(tt.wantTime) {
				t.Fatalf("captured = %s, want %s", captured, tt.wantTime)
			}
		})
	}
}
