package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const defaultDashboardID = "main"

// SnapshotAPIHandler экспорт производных страниц в S3 и листинг экспортов
type SnapshotAPIHandler struct {
	save   *usecase.SaveDashboardSnapshotUseCase
	list   *usecase.ListDashboardSnapshotsUseCase
	logger *logger.Logger
}

type saveSnapshotRequest struct {
	DashboardID string    `json:"dashboard_id"`
	CapturedAt  time.Time `json:"captured_at"`
}

type savedSnapshotItemResponse struct {
	Section   string `json:"section"`
	S3Key     string `json:"s3_key"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

type saveSnapshotResponse struct {
	SnapshotID string                      `json:"snapshot_id"`
	SavedAt    time.Time                   `json:"saved_at"`
	Items      []savedSnapshotItemResponse `json:"items"`
}

type snapshotListItemResponse struct {
	SnapshotID   string     `json:"snapshot_id,omitempty"`
	Section      string     `json:"section"`
	S3Key        string     `json:"s3_key"`
	URL          string     `json:"url"`
	SizeBytes    int64      `json:"size_bytes"`
	CapturedAt   *time.Time `json:"captured_at,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

type snapshotListResponse struct {
	Items      []snapshotListItemResponse `json:"items"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}

func NewSnapshotAPIHandler(
	save *usecase.SaveDashboardSnapshotUseCase,
	list *usecase.ListDashboardSnapshotsUseCase,
	log *logger.Logger,
) *SnapshotAPIHandler {
	return &SnapshotAPIHandler{save: save, list: list, logger: log}
}

// Save POST /api/v1/snapshots/dashboard
func (h *SnapshotAPIHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveSnapshotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.DashboardID) == "" {
		req.DashboardID = defaultDashboardID
	}

	result, err := h.save.Execute(r.Context(), usecase.SaveDashboardSnapshotCommand{
		DashboardID: req.DashboardID,
		CapturedAt:  req.CapturedAt,
	})
	if err != nil {
		h.writeSnapshotError(w, err)
		return
	}

	items := make([]savedSnapshotItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, savedSnapshotItemResponse{
			Section:   item.Section,
			S3Key:     item.S3Key,
			URL:       item.URL,
			SizeBytes: item.SizeBytes,
		})
	}

	middleware.WriteJSON(w, http.StatusCreated, saveSnapshotResponse{
		SnapshotID: result.SnapshotID,
		SavedAt:    result.SavedAt,
		Items:      items,
	})
}

// List GET /api/v1/snapshots/dashboard?dashboard_id=&limit=&cursor=&section=&from=&to=
func (h *SnapshotAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cmd := usecase.ListDashboardSnapshotsCommand{
		DashboardID: query.Get("dashboard_id"),
		Cursor:      query.Get("cursor"),
		Section:     query.Get("section"),
	}
	if strings.TrimSpace(cmd.DashboardID) == "" {
		cmd.DashboardID = defaultDashboardID
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		cmd.Limit = limit
	}

	var err error
	if cmd.From, err = parseTimeParam(query.Get("from")); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid from: expected RFC3339")
		return
	}
	if cmd.To, err = parseTimeParam(query.Get("to")); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid to: expected RFC3339")
		return
	}

	result, err := h.list.Execute(r.Context(), cmd)
	if err != nil {
		h.writeSnapshotError(w, err)
		return
	}

	items := make([]snapshotListItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, snapshotListItemResponse{
			SnapshotID:   item.SnapshotID,
			Section:      item.Section,
			S3Key:        item.S3Key,
			URL:          item.URL,
			SizeBytes:    item.SizeBytes,
			CapturedAt:   optionalTime(item.CapturedAt),
			LastModified: optionalTime(item.LastModified),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, snapshotListResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	})
}

func (h *SnapshotAPIHandler) writeSnapshotError(w http.ResponseWriter, err error) {
	message := err.Error()
	switch {
	case errors.Is(err, valueobject.ErrUnknownSection),
		strings.Contains(message, "invalid"),
		strings.Contains(message, "cursor"),
		strings.Contains(message, "must be less than"):
		middleware.WriteError(w, http.StatusBadRequest, message)
	case strings.Contains(message, "not configured"):
		middleware.WriteError(w, http.StatusServiceUnavailable, "snapshot storage is not configured")
	case strings.Contains(message, "failed to upload"):
		h.logger.Error("Snapshot upload failed", err)
		middleware.WriteError(w, http.StatusBadGateway, "failed to upload snapshot")
	default:
		h.logger.Error("Snapshot request failed", err)
		middleware.WriteError(w, http.StatusInternalServerError, "snapshot request failed")
	}
}

func parseTimeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
