package handler

import (
	"net/http"
	"strconv"

	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// ReportAPIHandler производные отчеты вне постраничной выдачи
type ReportAPIHandler struct {
	raiScore       *usecase.GetRAIScoreUseCase
	esg            *usecase.GetESGReportUseCase
	costHistory    *usecase.GetCostHistoryUseCase
	policies       *usecase.ListPoliciesUseCase
	defaultSamples int
	logger         *logger.Logger
}

func NewReportAPIHandler(
	raiScore *usecase.GetRAIScoreUseCase,
	esg *usecase.GetESGReportUseCase,
	costHistory *usecase.GetCostHistoryUseCase,
	policies *usecase.ListPoliciesUseCase,
	defaultSamples int,
	log *logger.Logger,
) *ReportAPIHandler {
	if defaultSamples <= 0 {
		defaultSamples = 20
	}
	return &ReportAPIHandler{
		raiScore:       raiScore,
		esg:            esg,
		costHistory:    costHistory,
		policies:       policies,
		defaultSamples: defaultSamples,
		logger:         log,
	}
}

// RAIScore GET /api/v1/rai-score
func (h *ReportAPIHandler) RAIScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.raiScore.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to derive RAI score", err)
		writeUseCaseError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, score)
}

// ESG GET /api/v1/esg
func (h *ReportAPIHandler) ESG(w http.ResponseWriter, r *http.Request) {
	report, err := h.esg.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to derive ESG report", err)
		writeUseCaseError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report)
}

// CostHistory GET /api/v1/cost/history?samples=N
func (h *ReportAPIHandler) CostHistory(w http.ResponseWriter, r *http.Request) {
	samples := h.defaultSamples
	if raw := r.URL.Query().Get("samples"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid samples parameter")
			return
		}
		samples = parsed
	}

	points, err := h.costHistory.Execute(r.Context(), samples)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"samples": len(points),
		"points":  points,
	})
}

// Policies GET /api/v1/policies?type=&region=
func (h *ReportAPIHandler) Policies(w http.ResponseWriter, r *http.Request) {
	typeFilter, err := valueobject.ParsePolicyTypeFilter(r.URL.Query().Get("type"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	regionFilter, err := valueobject.ParseRegionFilter(r.URL.Query().Get("region"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	policies, err := h.policies.Execute(r.Context(), typeFilter, regionFilter)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, policies)
}
