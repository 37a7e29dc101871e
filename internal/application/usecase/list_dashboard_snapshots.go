package usecase

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

type ListDashboardSnapshotsCommand struct {
	DashboardID string
	Limit       int
	Cursor      string
	Section     string
	From        time.Time
	To          time.Time
}

type DashboardSnapshotListItem struct {
	SnapshotID   string
	Section      string
	S3Key        string
	URL          string
	SizeBytes    int64
	CapturedAt   time.Time
	LastModified time.Time
}

type ListDashboardSnapshotsResult struct {
	Items      []DashboardSnapshotListItem
	NextCursor string
}

type ListDashboardSnapshotsConfig struct {
	KeyPrefix           string
	DefaultLimit        int
	MaxLimit            int
	FallbackToS3OnError bool
}

type ListDashboardSnapshotsUseCase struct {
	storage            port.SnapshotStorage
	metadataRepository port.SnapshotMetadataRepository
	config             ListDashboardSnapshotsConfig
	logger             *logger.Logger
}

func NewListDashboardSnapshotsUseCase(
	storage port.SnapshotStorage,
	metadataRepository port.SnapshotMetadataRepository,
	config ListDashboardSnapshotsConfig,
	log *logger.Logger,
) *ListDashboardSnapshotsUseCase {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 24
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 100
	}
	return &ListDashboardSnapshotsUseCase{
		storage:            storage,
		metadataRepository: metadataRepository,
		config:             config,
		logger:             log,
	}
}

func (uc *ListDashboardSnapshotsUseCase) Execute(
	ctx context.Context,
	cmd ListDashboardSnapshotsCommand,
) (*ListDashboardSnapshotsResult, error) {
	dashboardID := strings.TrimSpace(cmd.DashboardID)
	if !dashboardIDRegex.MatchString(dashboardID) {
		return nil, fmt.Errorf("invalid dashboard_id")
	}

	section := strings.TrimSpace(cmd.Section)
	if section != "" {
		parsed, err := valueobject.ParseSection(section)
		if err != nil {
			return nil, err
		}
		section = parsed.String()
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = uc.config.DefaultLimit
	}
	if limit > uc.config.MaxLimit {
		limit = uc.config.MaxLimit
	}

	if _, err := valueobject.NewTimeRange(cmd.From, cmd.To); err != nil {
		return nil, err
	}

	query := port.SnapshotListQuery{
		DashboardID: dashboardID,
		Limit:       limit,
		Cursor:      strings.TrimSpace(cmd.Cursor),
		Section:     section,
		From:        cmd.From.UTC(),
		To:          cmd.To.UTC(),
	}

	if uc.metadataRepository != nil {
		page, err := uc.metadataRepository.ListByDashboard(ctx, query)
		if err == nil {
			return uc.mapMetadataPage(ctx, page), nil
		}

		if !uc.config.FallbackToS3OnError {
			return nil, fmt.Errorf("failed to list snapshots via metadata index: %w", err)
		}

		uc.logger.Warn("Snapshot metadata index is unavailable, using S3 fallback",
			"dashboard_id", dashboardID,
			"error", err.Error(),
		)
	}

	return uc.listFromS3(ctx, query)
}

func (uc *ListDashboardSnapshotsUseCase) mapMetadataPage(
	ctx context.Context,
	page port.SnapshotListPage,
) *ListDashboardSnapshotsResult {
	items := make([]DashboardSnapshotListItem, 0, len(page.Items))
	for _, record := range page.Items {
		url := record.URL
		if uc.storage != nil {
			if generatedURL, err := uc.storage.GetObjectURL(ctx, record.S3Key); err == nil {
				url = generatedURL
			}
		}

		items = append(items, DashboardSnapshotListItem{
			SnapshotID:   record.SnapshotID,
			Section:      record.Section,
			S3Key:        record.S3Key,
			URL:          url,
			SizeBytes:    record.SizeBytes,
			CapturedAt:   record.CapturedAt.UTC(),
			LastModified: record.LastModified.UTC(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CapturedAt.After(items[j].CapturedAt)
	})

	return &ListDashboardSnapshotsResult{
		Items:      items,
		NextCursor: page.NextCursor,
	}
}

func (uc *ListDashboardSnapshotsUseCase) listFromS3(
	ctx context.Context,
	query port.SnapshotListQuery,
) (*ListDashboardSnapshotsResult, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("snapshot storage is not configured")
	}
	if query.Cursor != "" {
		return nil, fmt.Errorf("cursor pagination requires snapshot metadata index")
	}

	objects, err := uc.storage.ListObjects(ctx, snapshotPrefix(uc.config.KeyPrefix, query.DashboardID), query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	window, err := valueobject.NewTimeRange(query.From, query.To)
	if err != nil {
		return nil, err
	}

	filtered := make([]DashboardSnapshotListItem, 0, len(objects))
	for _, object := range objects {
		capturedAt, section := parseSnapshotKey(object.Key)
		item := DashboardSnapshotListItem{
			Section:      section,
			S3Key:        object.Key,
			URL:          object.URL,
			SizeBytes:    object.SizeBytes,
			CapturedAt:   capturedAt,
			LastModified: object.LastModified.UTC(),
		}

		if query.Section != "" && item.Section != query.Section {
			continue
		}
		if !window.Contains(item.CapturedAt) {
			continue
		}

		filtered = append(filtered, item)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].LastModified.After(filtered[j].LastModified)
	})

	if len(filtered) > query.Limit {
		filtered = filtered[:query.Limit]
	}

	return &ListDashboardSnapshotsResult{Items: filtered}, nil
}

// parseSnapshotKey извлекает время и раздел из имени "<timestamp>_<section>.json"
func parseSnapshotKey(key string) (time.Time, string) {
	filename := path.Base(strings.TrimSpace(key))
	if !strings.HasSuffix(filename, ".json") {
		return time.Time{}, "unknown"
	}

	withoutExt := strings.TrimSuffix(filename, ".json")
	underscore := strings.IndexRune(withoutExt, '_')
	if underscore <= 0 || underscore == len(withoutExt)-1 {
		return time.Time{}, "unknown"
	}

	section := withoutExt[underscore+1:]
	capturedAt, err := time.Parse(snapshotTimeLayout, withoutExt[:underscore])
	if err != nil {
		return time.Time{}, section
	}
	return capturedAt.UTC(), section
}
