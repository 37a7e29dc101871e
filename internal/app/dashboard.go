// Package app собирает доменные сервисы и use cases дашборда из конфигурации.
// Используется HTTP сервисом и raictl.
package app

import (
	"fmt"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/rai-dashboard/pkg/config"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// Deps внешние адаптеры. Любое поле может быть nil.
type Deps struct {
	Store     repository.RecordStore
	Metrics   port.DashboardMetrics
	Cache     port.Cache
	Events    port.EventPublisher
	Changes   repository.SectionChangeRepository
	Notifier  port.NotificationService
	Scores    port.ScorePublisher
	Snapshots port.SnapshotStorage
	Index     port.SnapshotMetadataRepository
}

// Dashboard собранный граф use cases
type Dashboard struct {
	Store   repository.RecordStore
	Router  *service.InteractionRouter
	Changes repository.SectionChangeRepository

	Pages         *usecase.GetSectionPageUseCase
	RAIScore      *usecase.GetRAIScoreUseCase
	ESG           *usecase.GetESGReportUseCase
	Overview      *usecase.GetOverviewUseCase
	Live          *usecase.GetLiveDashboardUseCase
	Guardrails    *usecase.GetGuardrailsUseCase
	Performance   *usecase.GetPerformanceUseCase
	Cost          *usecase.GetCostReportUseCase
	CostHistory   *usecase.GetCostHistoryUseCase
	Policies      *usecase.ListPoliciesUseCase
	Navigate      *usecase.NavigateUseCase
	Interaction   *usecase.HandleInteractionUseCase
	History       *usecase.ListSectionChangesUseCase
	PublishScores *usecase.PublishScoresUseCase
	LiveEvents    *usecase.BroadcastLiveEventsUseCase
	SaveSnapshot  *usecase.SaveDashboardSnapshotUseCase
	ListSnapshots *usecase.ListDashboardSnapshotsUseCase
}

// Classifier строит классификатор из порогов конфигурации
func Classifier(t config.ThresholdsConfig) (*service.Classifier, error) {
	return service.NewClassifier(service.Thresholds{
		service.KindESGItem:    {Low: t.ESGItemLow, High: t.ESGItemHigh},
		service.KindRAIVerdict: {Low: t.RAIVerdictLow, High: t.RAIVerdictHigh},
	}, service.GradeScale{
		A:     t.GradeA,
		BPlus: t.GradeBPlus,
		B:     t.GradeB,
		C:     t.GradeC,
	})
}

// NavigationConfig переводит настройки оболочки в конфигурацию состояния навигации
func NavigationConfig(d config.DashboardConfig) (entity.NavigationConfig, error) {
	initial := valueobject.DefaultSection
	if d.InitialSection != "" {
		parsed, err := valueobject.ParseSection(d.InitialSection)
		if err != nil {
			return entity.NavigationConfig{}, fmt.Errorf("dashboard.initial_section: %w", err)
		}
		initial = parsed
	}
	return entity.NavigationConfig{
		InitialSection: initial,
		ShowSidebar:    d.ShowSidebar,
		ClassName:      d.ClassName,
		Breakpoint:     d.Breakpoint,
	}, nil
}

// Build собирает use cases поверх переданных адаптеров
func Build(cfg *config.Config, deps Deps, log *logger.Logger) (*Dashboard, error) {
	classifier, err := Classifier(cfg.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	navCfg, err := NavigationConfig(cfg.Dashboard)
	if err != nil {
		return nil, err
	}
	state, err := entity.NewNavigationState(navCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid navigation config: %w", err)
	}

	store := deps.Store
	if store == nil {
		store = memory.NewStaticStore(time.Now().UTC())
	}
	changes := deps.Changes
	if changes == nil {
		changes = memory.NewSectionChangeJournal(0)
	}

	deriver := usecase.NewDeriver(
		store,
		service.NewScoreAggregator(),
		classifier,
		service.NewRecordValidator(),
		deps.Metrics,
		log.Named("deriver"),
	)

	generator := service.NewCostHistoryGenerator(service.CostHistoryConfig{
		Base:    cfg.Dashboard.CostHistoryBase,
		Spacing: cfg.Dashboard.CostHistorySpacing,
	})

	d := &Dashboard{
		Store:       store,
		Router:      service.NewInteractionRouter(),
		Changes:     changes,
		RAIScore:    usecase.NewGetRAIScoreUseCase(deriver),
		ESG:         usecase.NewGetESGReportUseCase(deriver),
		Live:        usecase.NewGetLiveDashboardUseCase(deriver),
		Guardrails:  usecase.NewGetGuardrailsUseCase(deriver),
		Performance: usecase.NewGetPerformanceUseCase(deriver),
		CostHistory: usecase.NewGetCostHistoryUseCase(generator, deps.Cache, cfg.Dashboard.CostHistoryMaxSamples, log),
		Policies:    usecase.NewListPoliciesUseCase(deriver),
	}
	d.Overview = usecase.NewGetOverviewUseCase(deriver, d.Router)
	d.Cost = usecase.NewGetCostReportUseCase(deriver, d.CostHistory, cfg.Dashboard.CostHistorySamples)

	d.Pages, err = usecase.NewGetSectionPageUseCase(usecase.SectionPages{
		Overview:    d.Overview,
		Live:        d.Live,
		Guardrails:  d.Guardrails,
		Performance: d.Performance,
		Cost:        d.Cost,
		Policies:    d.Policies,
	}, store, deps.Metrics, log)
	if err != nil {
		return nil, err
	}

	d.Navigate = usecase.NewNavigateUseCase(state, usecase.NavigateDeps{
		Publisher: deps.Events,
		Changes:   changes,
		Notifier:  deps.Notifier,
		Metrics:   deps.Metrics,
		Subject:   cfg.NATS.Subject,
	}, log.Named("navigation"))
	d.Interaction = usecase.NewHandleInteractionUseCase(d.Router, d.Navigate, deps.Metrics, log)
	d.History = usecase.NewListSectionChangesUseCase(changes, log)

	d.PublishScores = usecase.NewPublishScoresUseCase(deriver, deps.Scores, deps.Metrics, log.Named("scores"))
	d.LiveEvents = usecase.NewBroadcastLiveEventsUseCase(d.Live, deps.Notifier, log)

	d.SaveSnapshot = usecase.NewSaveDashboardSnapshotUseCase(d.Pages, deps.Snapshots, deps.Index,
		usecase.SaveDashboardSnapshotConfig{
			KeyPrefix:      cfg.S3.KeyPrefix,
			UploadAttempts: cfg.Snapshot.UploadAttempts,
			RetryDelay:     cfg.Snapshot.RetryDelay,
			MetadataTTL:    cfg.Dynamo.TTL,
		}, log.Named("snapshots"))
	d.ListSnapshots = usecase.NewListDashboardSnapshotsUseCase(deps.Snapshots, deps.Index,
		usecase.ListDashboardSnapshotsConfig{
			KeyPrefix:           cfg.S3.KeyPrefix,
			DefaultLimit:        cfg.Snapshot.DefaultLimit,
			MaxLimit:            cfg.Snapshot.MaxLimit,
			FallbackToS3OnError: cfg.Snapshot.FallbackToS3,
		}, log.Named("snapshots"))

	return d, nil
}
