package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/application/dto"
	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

type memoryDashboardMetrics struct {
	mu            sync.Mutex
	changes       []string
	interactions  map[string]int
	rangeWarnings map[string]int
	pageBuilds    map[string]int
	pageFailures  map[string]int
	scores        map[string]float64
}

func newMemoryDashboardMetrics() *memoryDashboardMetrics {
	return &memoryDashboardMetrics{
		interactions:  make(map[string]int),
		rangeWarnings: make(map[string]int),
		pageBuilds:    make(map[string]int),
		pageFailures:  make(map[string]int),
		scores:        make(map[string]float64),
	}
}

func (m *memoryDashboardMetrics) ObserveSectionChange(from, to, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, from+">"+to+"@"+source)
}

func (m *memoryDashboardMetrics) ObserveInteraction(kind string, routed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if routed {
		m.interactions[kind+":routed"]++
		return
	}
	m.interactions[kind+":logged"]++
}

func (m *memoryDashboardMetrics) ObserveRangeWarnings(page string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rangeWarnings[page] += count
}

func (m *memoryDashboardMetrics) ObservePageBuild(section string, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageBuilds[section]++
	if failed {
		m.pageFailures[section]++
	}
}

func (m *memoryDashboardMetrics) SetScore(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[name] = value
}

type memoryNotifier struct {
	mu         sync.Mutex
	clients    int
	navigation []*dto.NavigationUpdateDTO
	events     []*dto.LiveEventDTO
}

func (n *memoryNotifier) BroadcastNavigation(update *dto.NavigationUpdateDTO) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigation = append(n.navigation, update)
}

func (n *memoryNotifier) BroadcastLiveEvent(event *dto.LiveEventDTO) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *memoryNotifier) ClientCount() int {
	return n.clients
}

type publishedEvent struct {
	subject string
	event   interface{}
}

type memoryEventPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *memoryEventPublisher) PublishEvent(_ context.Context, subject string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{subject: subject, event: event})
	return nil
}

type memorySectionChangeRepository struct {
	mu      sync.Mutex
	changes []*entity.SectionChange
	err     error
}

func (r *memorySectionChangeRepository) Save(_ context.Context, change *entity.SectionChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.changes = append(r.changes, change)
	return nil
}

func (r *memorySectionChangeRepository) FindRecent(_ context.Context, limit int) ([]*entity.SectionChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*entity.SectionChange, 0, limit)
	for i := len(r.changes) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.changes[i])
	}
	return result, nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]interface{}
	sets chan string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]interface{}), sets: make(chan string, 16)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	points, ok := dest.(*[]dto.CostHistoryPointDTO)
	if !ok {
		return errors.New("unsupported destination")
	}
	*points = append([]dto.CostHistoryPointDTO(nil), value.([]dto.CostHistoryPointDTO)...)
	return nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	c.mu.Lock()
	c.data[key] = value
	c.mu.Unlock()
	c.sets <- key
	return nil
}

type memoryScorePublisher struct {
	mu      sync.Mutex
	batches [][]port.ScoreSample
	flushed int
	err     error
}

func (p *memoryScorePublisher) PublishBatch(_ context.Context, samples []port.ScoreSample) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, samples)
	return nil
}

func (p *memoryScorePublisher) Flush(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushed++
	return nil
}

// emptyESGStore подменяет ESG-записи пустым набором
type emptyESGStore struct {
	*memory.StaticStore
}

func (emptyESGStore) ESGMetrics() []entity.ESGMetric { return nil }

// testStack набор use cases поверх статического хранилища
type testStack struct {
	metrics  *memoryDashboardMetrics
	deriver  *Deriver
	history  *GetCostHistoryUseCase
	live     *GetLiveDashboardUseCase
	policies *ListPoliciesUseCase
	pages    *GetSectionPageUseCase
}

func newTestStack(store repository.RecordStore) (*testStack, error) {
	log := logger.New("error")
	metrics := newMemoryDashboardMetrics()
	deriver := NewDeriver(
		store,
		service.NewScoreAggregator(),
		service.MustDefaultClassifier(),
		service.NewRecordValidator(),
		metrics,
		log,
	)

	generator := service.NewCostHistoryGenerator(service.CostHistoryConfig{
		Rand: rand.New(rand.NewSource(7)),
		Now:  func() time.Time { return fixedNow },
	})
	history := NewGetCostHistoryUseCase(generator, nil, 100, log)
	live := NewGetLiveDashboardUseCase(deriver)
	policies := NewListPoliciesUseCase(deriver)

	pages, err := NewGetSectionPageUseCase(SectionPages{
		Overview:    NewGetOverviewUseCase(deriver, service.NewInteractionRouter()),
		Live:        live,
		Guardrails:  NewGetGuardrailsUseCase(deriver),
		Performance: NewGetPerformanceUseCase(deriver),
		Cost:        NewGetCostReportUseCase(deriver, history, 20),
		Policies:    policies,
	}, store, metrics, log)
	if err != nil {
		return nil, err
	}

	return &testStack{
		metrics:  metrics,
		deriver:  deriver,
		history:  history,
		live:     live,
		policies: policies,
		pages:    pages,
	}, nil
}

func newSeedStack() (*testStack, error) {
	return newTestStack(memory.NewStaticStore(fixedNow))
}
