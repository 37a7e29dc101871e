package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/google/uuid"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const (
	snapshotContentType   = "application/json"
	snapshotTimeLayout    = "20060102T150405Z"
	defaultSnapshotPrefix = "rai-snapshots"
)

var dashboardIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// SaveDashboardSnapshotCommand параметры экспорта
type SaveDashboardSnapshotCommand struct {
	DashboardID string
	CapturedAt  time.Time
}

// SavedSnapshotItem один выгруженный раздел
type SavedSnapshotItem struct {
	Section   string
	S3Key     string
	URL       string
	SizeBytes int64
}

// SaveDashboardSnapshotResult результат экспорта
type SaveDashboardSnapshotResult struct {
	SnapshotID string
	SavedAt    time.Time
	Items      []SavedSnapshotItem
}

// SaveDashboardSnapshotConfig настройки экспорта
type SaveDashboardSnapshotConfig struct {
	KeyPrefix      string
	UploadAttempts uint
	RetryDelay     time.Duration
	MetadataTTL    time.Duration
}

// SaveDashboardSnapshotUseCase выгружает производные страницы всех разделов в объектное хранилище
type SaveDashboardSnapshotUseCase struct {
	pages              *GetSectionPageUseCase
	storage            port.SnapshotStorage
	metadataRepository port.SnapshotMetadataRepository
	config             SaveDashboardSnapshotConfig
	logger             *logger.Logger
}

// NewSaveDashboardSnapshotUseCase создает новый use case. metadataRepository может быть nil.
func NewSaveDashboardSnapshotUseCase(
	pages *GetSectionPageUseCase,
	storage port.SnapshotStorage,
	metadataRepository port.SnapshotMetadataRepository,
	config SaveDashboardSnapshotConfig,
	log *logger.Logger,
) *SaveDashboardSnapshotUseCase {
	if config.UploadAttempts == 0 {
		config.UploadAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 200 * time.Millisecond
	}
	return &SaveDashboardSnapshotUseCase{
		pages:              pages,
		storage:            storage,
		metadataRepository: metadataRepository,
		config:             config,
		logger:             log,
	}
}

// Execute строит страницы всех разделов и сохраняет их как JSON
func (uc *SaveDashboardSnapshotUseCase) Execute(
	ctx context.Context,
	cmd SaveDashboardSnapshotCommand,
) (*SaveDashboardSnapshotResult, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("snapshot storage is not configured")
	}

	dashboardID := strings.TrimSpace(cmd.DashboardID)
	if !dashboardIDRegex.MatchString(dashboardID) {
		return nil, fmt.Errorf("invalid dashboard_id")
	}

	capturedAt := cmd.CapturedAt.UTC()
	if cmd.CapturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}
	capturedAt = capturedAt.Truncate(time.Second)

	snapshotID := uuid.NewString()
	sections := valueobject.AllSections()
	items := make([]SavedSnapshotItem, 0, len(sections))
	records := make([]port.SnapshotMetadata, 0, len(sections))

	for _, section := range sections {
		page, err := uc.pages.Execute(ctx, section)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s snapshot: %w", section, err)
		}

		body, err := json.Marshal(page)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s snapshot: %w", section, err)
		}

		key := uc.buildS3Key(dashboardID, capturedAt, section)
		url, err := uc.upload(ctx, key, body)
		if err != nil {
			uc.logger.Error("Failed to upload dashboard snapshot", err,
				"dashboard_id", dashboardID,
				"section", section.String(),
			)
			return nil, fmt.Errorf("failed to upload %s: %w", section, err)
		}

		items = append(items, SavedSnapshotItem{
			Section:   section.String(),
			S3Key:     key,
			URL:       url,
			SizeBytes: int64(len(body)),
		})

		record := port.SnapshotMetadata{
			SnapshotID:   snapshotID,
			DashboardID:  dashboardID,
			Section:      section.String(),
			S3Key:        key,
			URL:          url,
			ContentType:  snapshotContentType,
			SizeBytes:    int64(len(body)),
			CapturedAt:   capturedAt,
			LastModified: time.Now().UTC(),
		}
		if uc.config.MetadataTTL > 0 {
			record.ExpiresAt = capturedAt.Add(uc.config.MetadataTTL)
		}
		records = append(records, record)
	}

	// Индекс вторичен: объекты уже в S3, листинг умеет обходиться без него
	if uc.metadataRepository != nil {
		if err := uc.metadataRepository.PutBatch(ctx, records); err != nil {
			uc.logger.Warn("Failed to index dashboard snapshot",
				"dashboard_id", dashboardID,
				"snapshot_id", snapshotID,
				"error", err.Error(),
			)
		}
	}

	uc.logger.Info("Dashboard snapshot saved",
		"dashboard_id", dashboardID,
		"snapshot_id", snapshotID,
		"sections", len(items),
	)

	return &SaveDashboardSnapshotResult{
		SnapshotID: snapshotID,
		SavedAt:    time.Now().UTC(),
		Items:      items,
	}, nil
}

func (uc *SaveDashboardSnapshotUseCase) upload(ctx context.Context, key string, body []byte) (string, error) {
	var url string
	err := retry.New(
		retry.Context(ctx),
		retry.Attempts(uc.config.UploadAttempts),
		retry.Delay(uc.config.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	).Do(func() error {
		var putErr error
		url, putErr = uc.storage.PutObject(ctx, key, snapshotContentType, body)
		return putErr
	})
	return url, err
}

func (uc *SaveDashboardSnapshotUseCase) buildS3Key(
	dashboardID string,
	capturedAt time.Time,
	section valueobject.DashboardSection,
) string {
	return fmt.Sprintf("%s%s/%s_%s.json",
		snapshotPrefix(uc.config.KeyPrefix, dashboardID),
		capturedAt.Format("2006/01/02"),
		capturedAt.Format(snapshotTimeLayout),
		section,
	)
}

// snapshotPrefix префикс всех снимков одного дашборда, заканчивается на "/"
func snapshotPrefix(keyPrefix, dashboardID string) string {
	prefix := strings.Trim(keyPrefix, "/")
	if prefix == "" {
		prefix = defaultSnapshotPrefix
	}
	return fmt.Sprintf("%s/%s/", prefix, dashboardID)
}
