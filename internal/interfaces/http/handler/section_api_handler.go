package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// SectionAPIHandler отдает меню и JSON-страницы разделов
type SectionAPIHandler struct {
	pages    *usecase.GetSectionPageUseCase
	navigate *usecase.NavigateUseCase
	logger   *logger.Logger
}

func NewSectionAPIHandler(pages *usecase.GetSectionPageUseCase, navigate *usecase.NavigateUseCase, log *logger.Logger) *SectionAPIHandler {
	return &SectionAPIHandler{pages: pages, navigate: navigate, logger: log}
}

// ListSections GET /api/v1/sections
func (h *SectionAPIHandler) ListSections(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"items": h.pages.Sidebar(h.navigate.ActiveSection()),
	})
}

// GetSection GET /api/v1/sections/{section}
func (h *SectionAPIHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	section, err := valueobject.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	page, err := h.pages.Execute(r.Context(), section)
	if err != nil {
		h.logger.Error("Failed to build section page", err, "section", section.String())
		writeUseCaseError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, page)
}
