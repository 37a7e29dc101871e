package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/view"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// DashboardHandler отдает HTML-страницы разделов
type DashboardHandler struct {
	navigate *usecase.NavigateUseCase
	pages    *usecase.GetSectionPageUseCase
	policies *usecase.ListPoliciesUseCase
	logger   *logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(
	navigate *usecase.NavigateUseCase,
	pages *usecase.GetSectionPageUseCase,
	policies *usecase.ListPoliciesUseCase,
	logger *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		navigate: navigate,
		pages:    pages,
		policies: policies,
		logger:   logger,
	}
}

// ShowDashboard отображает активный раздел
func (h *DashboardHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.navigate.ActiveSection())
}

// ShowSection выбирает раздел из меню и отображает его
func (h *DashboardHandler) ShowSection(w http.ResponseWriter, r *http.Request) {
	section, err := valueobject.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		http.Error(w, "Section not found", http.StatusNotFound)
		return
	}

	if _, err := h.navigate.Select(r.Context(), section, entity.SourceSidebar); err != nil {
		h.logger.Error("Failed to select section", err, "section", section.String())
		http.Error(w, "Failed to select section", http.StatusInternalServerError)
		return
	}

	h.render(w, r, section)
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, section valueobject.DashboardSection) {
	page, err := h.pages.Execute(r.Context(), section)
	if err != nil {
		http.Error(w, "Failed to load section", statusFor(err))
		return
	}

	if page.Policies != nil {
		filtered, ok := h.filteredPolicies(w, r)
		if !ok {
			return
		}
		if filtered != nil {
			page.Policies = filtered
		}
	}

	shell := view.Shell{
		Navigation: h.navigate.State(),
		Sidebar:    h.pages.Sidebar(section),
		Page:       page,
		WSToken:    middleware.ExtractToken(r),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Dashboard(shell).Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render dashboard", err, "section", section.String())
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// filteredPolicies применяет фильтры вкладок policies из query string
func (h *DashboardHandler) filteredPolicies(w http.ResponseWriter, r *http.Request) (*dto.PoliciesDTO, bool) {
	query := r.URL.Query()
	if query.Get("type") == "" && query.Get("region") == "" {
		return nil, true
	}

	typeFilter, typeErr := valueobject.ParsePolicyTypeFilter(query.Get("type"))
	regionFilter, regionErr := valueobject.ParseRegionFilter(query.Get("region"))
	if err := errors.Join(typeErr, regionErr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	policies, err := h.policies.Execute(r.Context(), typeFilter, regionFilter)
	if err != nil {
		h.logger.Error("Failed to filter policies", err)
		http.Error(w, "Failed to load policies", http.StatusInternalServerError)
		return nil, false
	}
	return policies, true
}
