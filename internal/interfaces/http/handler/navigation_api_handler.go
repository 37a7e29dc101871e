package handler

import (
	"net/http"
	"strconv"

	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// NavigationAPIHandler команды навигации и клики обзорной страницы
type NavigationAPIHandler struct {
	navigate    *usecase.NavigateUseCase
	interaction *usecase.HandleInteractionUseCase
	history     *usecase.ListSectionChangesUseCase
	logger      *logger.Logger
}

func NewNavigationAPIHandler(
	navigate *usecase.NavigateUseCase,
	interaction *usecase.HandleInteractionUseCase,
	history *usecase.ListSectionChangesUseCase,
	log *logger.Logger,
) *NavigationAPIHandler {
	return &NavigationAPIHandler{
		navigate:    navigate,
		interaction: interaction,
		history:     history,
		logger:      log,
	}
}

type selectRequest struct {
	Section string `json:"section"`
}

type viewportRequest struct {
	Width *int `json:"width"`
}

type interactionRequest struct {
	Name string `json:"name"`
}

// State GET /api/v1/navigation
func (h *NavigationAPIHandler) State(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.navigate.State())
}

// Select POST /api/v1/navigation/select
func (h *NavigationAPIHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	section, err := valueobject.ParseSection(req.Section)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	update, err := h.navigate.Select(r.Context(), section, entity.SourceAPI)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, update)
}

// ToggleSidebar POST /api/v1/navigation/toggle-sidebar
func (h *NavigationAPIHandler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.navigate.ToggleSidebar(r.Context()))
}

// CloseSidebar POST /api/v1/navigation/close-sidebar
func (h *NavigationAPIHandler) CloseSidebar(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.navigate.CloseSidebar(r.Context()))
}

// Viewport POST /api/v1/navigation/viewport
func (h *NavigationAPIHandler) Viewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Width == nil {
		middleware.WriteError(w, http.StatusBadRequest, "width is required")
		return
	}

	update, err := h.navigate.SetViewportWidth(r.Context(), *req.Width)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, update)
}

// History GET /api/v1/navigation/history?limit=N
func (h *NavigationAPIHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	changes, err := h.history.Execute(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list section changes", err)
		middleware.WriteError(w, http.StatusInternalServerError, "failed to list section changes")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"items": changes})
}

// Metric POST /api/v1/interactions/metric
func (h *NavigationAPIHandler) Metric(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, service.InteractionMetric)
}

// Category POST /api/v1/interactions/category
func (h *NavigationAPIHandler) Category(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, service.InteractionCategory)
}

// CostCard POST /api/v1/interactions/cost-card
func (h *NavigationAPIHandler) CostCard(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, service.InteractionCostCard)
}

func (h *NavigationAPIHandler) interact(w http.ResponseWriter, r *http.Request, kind service.InteractionKind) {
	var req interactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.interaction.Execute(r.Context(), kind, req.Name)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}
