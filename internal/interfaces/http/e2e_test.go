package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	wsInfra "github.com/dreschagin/rai-dashboard/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/config"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const testToken = "test-token"

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type memorySnapshotStorage struct {
	mu      sync.RWMutex
	objects map[string]storedSnapshot
}

type storedSnapshot struct {
	data         []byte
	lastModified time.Time
}

func newMemorySnapshotStorage() *memorySnapshotStorage {
	return &memorySnapshotStorage{objects: make(map[string]storedSnapshot)}
}

func (s *memorySnapshotStorage) PutObject(_ context.Context, key, _ string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedSnapshot{
		data:         append([]byte(nil), body...),
		lastModified: time.Now().UTC(),
	}
	return "https://storage.local/" + key, nil
}

func (s *memorySnapshotStorage) ListObjects(_ context.Context, prefix string, limit int) ([]port.SnapshotObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]port.SnapshotObject, 0, len(s.objects))
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		items = append(items, port.SnapshotObject{
			Key:          key,
			LastModified: obj.lastModified,
			URL:          "https://storage.local/" + key,
			SizeBytes:    int64(len(obj.data)),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Key > items[j].Key
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *memorySnapshotStorage) GetObjectURL(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", http.ErrMissingFile
	}
	return "https://storage.local/" + key, nil
}

type testServer struct {
	*httptest.Server
	hub *wsInfra.Hub
}

// serverConfig внешние зависимости тестового сервера, по умолчанию в памяти
type serverConfig struct {
	routerOpts []RouterOption
	changes    repository.SectionChangeRepository
	storage    port.SnapshotStorage
	index      port.SnapshotMetadataRepository
}

type serverOption func(*serverConfig)

func withReadyCheck(name string, check ReadyCheck) serverOption {
	return func(cfg *serverConfig) {
		cfg.routerOpts = append(cfg.routerOpts, WithReadyCheck(name, check))
	}
}

func newTestServer(t *testing.T, extra ...serverOption) *testServer {
	t.Helper()

	cfg := serverConfig{
		changes: memory.NewSectionChangeJournal(0),
		storage: newMemorySnapshotStorage(),
	}
	for _, apply := range extra {
		apply(&cfg)
	}

	log := logger.New("error")
	registry := prometheus.NewRegistry()
	dashboardMetrics := metrics.New(registry)

	store := memory.NewStaticStore(fixedNow)
	deriver := usecase.NewDeriver(
		store,
		service.NewScoreAggregator(),
		service.MustDefaultClassifier(),
		service.NewRecordValidator(),
		dashboardMetrics,
		log,
	)
	history := usecase.NewGetCostHistoryUseCase(service.NewCostHistoryGenerator(service.CostHistoryConfig{
		Rand: rand.New(rand.NewSource(1)),
		Now:  func() time.Time { return fixedNow },
	}), nil, 100, log)
	policies := usecase.NewListPoliciesUseCase(deriver)
	router := service.NewInteractionRouter()

	pages, err := usecase.NewGetSectionPageUseCase(usecase.SectionPages{
		Overview:    usecase.NewGetOverviewUseCase(deriver, router),
		Live:        usecase.NewGetLiveDashboardUseCase(deriver),
		Guardrails:  usecase.NewGetGuardrailsUseCase(deriver),
		Performance: usecase.NewGetPerformanceUseCase(deriver),
		Cost:        usecase.NewGetCostReportUseCase(deriver, history, 20),
		Policies:    policies,
	}, store, dashboardMetrics, log)
	if err != nil {
		t.Fatalf("NewGetSectionPageUseCase() error = %v", err)
	}

	state, err := entity.NewNavigationState(entity.DefaultNavigationConfig())
	if err != nil {
		t.Fatalf("NewNavigationState() error = %v", err)
	}

	hub := wsInfra.NewHub(log)
	navigate := usecase.NewNavigateUseCase(state, usecase.NavigateDeps{
		Changes:  cfg.changes,
		Notifier: hub,
		Metrics:  dashboardMetrics,
	}, log)
	hub.SetCommandHandler(handler.NavigationCommands(navigate))

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	authConfig := middleware.AuthConfig{Enabled: true, BearerToken: testToken}

	handlers := Handlers{
		Dashboard: handler.NewDashboardHandler(navigate, pages, policies, log),
		Sections:  handler.NewSectionAPIHandler(pages, navigate, log),
		Navigation: handler.NewNavigationAPIHandler(
			navigate,
			usecase.NewHandleInteractionUseCase(router, navigate, dashboardMetrics, log),
			usecase.NewListSectionChangesUseCase(cfg.changes, log),
			log,
		),
		Reports: handler.NewReportAPIHandler(
			usecase.NewGetRAIScoreUseCase(deriver),
			usecase.NewGetESGReportUseCase(deriver),
			history,
			policies,
			20,
			log,
		),
		Snapshots: handler.NewSnapshotAPIHandler(
			usecase.NewSaveDashboardSnapshotUseCase(pages, cfg.storage, cfg.index, usecase.SaveDashboardSnapshotConfig{}, log),
			usecase.NewListDashboardSnapshotsUseCase(cfg.storage, cfg.index, usecase.ListDashboardSnapshotsConfig{}, log),
			log,
		),
		Auth:      handler.NewAuthAPIHandler(authConfig, log),
		WebSocket: handler.NewWebSocketHandler(hub, []string{"http://localhost:8080"}, authConfig, log),
	}

	opts := append([]RouterOption{WithMetrics(dashboardMetrics, registry)}, cfg.routerOpts...)
	rt := NewRouter(handlers, config.SecurityConfig{
		AllowedOrigins: []string{"http://localhost:8080"},
		AuthEnabled:    true,
		AuthToken:      testToken,
	}, log, opts...)

	server := httptest.NewServer(rt.Setup())
	t.Cleanup(server.Close)
	t.Cleanup(cancel)

	return &testServer{Server: server, hub: hub}
}

func doRequest(t *testing.T, client *http.Client, method, url string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// apiCall выполняет авторизованный запрос и декодирует JSON ответ
func apiCall(t *testing.T, srv *testServer, method, path, body string, out any) int {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	resp := doRequest(t, srv.Client(), method, srv.URL+path, reader, map[string]string{
		"Authorization": "Bearer " + testToken,
		"Content-Type":  "application/json",
	})
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestE2EHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, resp.StatusCode)
		}
	}
}

func TestE2EReadinessReportsFailedChecks(t *testing.T) {
	srv := newTestServer(t, withReadyCheck("redis", func(context.Context) error {
		return errors.New("connection refused")
	}))

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var payload struct {
		Failed map[string]string `json:"failed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode readiness: %v", err)
	}
	if payload.Failed["redis"] != "connection refused" {
		t.Fatalf("unexpected failed checks: %v", payload.Failed)
	}
}

func TestE2EAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	resp := doRequest(t, client, http.MethodGet, srv.URL+"/api/v1/sections", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp = doRequest(t, client, http.MethodPost, srv.URL+"/api/v1/auth/login",
		bytes.NewBufferString(`{"token":"bad-token"}`), map[string]string{"Content-Type": "application/json"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid login, got %d", resp.StatusCode)
	}

	resp = doRequest(t, client, http.MethodPost, srv.URL+"/api/v1/auth/login",
		bytes.NewBufferString(`{"token":"`+testToken+`"}`), map[string]string{"Content-Type": "application/json"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for valid login, got %d", resp.StatusCode)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected auth cookie")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/sections", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	cookieResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	cookieResp.Body.Close()
	if cookieResp.StatusCode != http.StatusOK {
		t.Fatalf("expected cookie auth to pass, got %d", cookieResp.StatusCode)
	}
}

func TestE2ESectionsAPI(t *testing.T) {
	srv := newTestServer(t)

	var list struct {
		Items []struct {
			Section string `json:"section"`
			Active  bool   `json:"active"`
		} `json:"items"`
	}
	if status := apiCall(t, srv, http.MethodGet, "/api/v1/sections", "", &list); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(list.Items) != 6 {
		t.Fatalf("expected 6 sidebar items, got %d", len(list.Items))
	}
	if list.Items[0].Section != "overview" || !list.Items[0].Active {
		t.Fatalf("expected overview first and active, got %+v", list.Items[0])
	}

	tests := []struct {
		path     string
		status   int
		populate string
	}{
		{"/api/v1/sections/overview", http.StatusOK, "overview"},
		{"/api/v1/sections/dashboard", http.StatusOK, "dashboard"},
		{"/api/v1/sections/guardrails-section", http.StatusOK, "guardrails"},
		{"/api/v1/sections/performance-reliability", http.StatusOK, "performance"},
		{"/api/v1/sections/sustainability-cost", http.StatusOK, "sustainability"},
		{"/api/v1/sections/policies", http.StatusOK, "policies"},
		{"/api/v1/sections/settings", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var page map[string]json.RawMessage
			status := apiCall(t, srv, http.MethodGet, tt.path, "", &page)
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if tt.populate == "" {
				if _, ok := page["error"]; !ok {
					t.Fatalf("expected error payload, got %v", page)
				}
				return
			}
			if _, ok := page[tt.populate]; !ok {
				t.Fatalf("expected %q page field, got keys %v", tt.populate, keys(page))
			}
		})
	}
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type navigationState struct {
	ActiveSection    string `json:"active_section"`
	SidebarOpen      bool   `json:"sidebar_open"`
	IsNarrowViewport bool   `json:"is_narrow_viewport"`
}

type navigationUpdate struct {
	State  navigationState `json:"state"`
	Change *struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Source string `json:"source"`
	} `json:"change"`
}

func TestE2ENavigation(t *testing.T) {
	srv := newTestServer(t)

	var update navigationUpdate
	status := apiCall(t, srv, http.MethodPost, "/api/v1/navigation/select", `{"section":"guardrails-section"}`, &update)
	if status != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", status)
	}
	if update.State.ActiveSection != "guardrails-section" {
		t.Fatalf("expected guardrails-section active, got %q", update.State.ActiveSection)
	}

	var errPayload map[string]string
	status = apiCall(t, srv, http.MethodPost, "/api/v1/navigation/select", `{"section":"settings"}`, &errPayload)
	if status != http.StatusBadRequest || errPayload["error"] == "" {
		t.Fatalf("unknown section: expected 400 with error, got %d %v", status, errPayload)
	}

	status = apiCall(t, srv, http.MethodPost, "/api/v1/navigation/viewport", `{"width":800}`, &update)
	if status != http.StatusOK || !update.State.IsNarrowViewport {
		t.Fatalf("viewport: expected narrow state, got %d %+v", status, update.State)
	}

	status = apiCall(t, srv, http.MethodPost, "/api/v1/navigation/toggle-sidebar", "", &update)
	if status != http.StatusOK || !update.State.SidebarOpen {
		t.Fatalf("toggle: expected open sidebar, got %d %+v", status, update.State)
	}

	status = apiCall(t, srv, http.MethodPost, "/api/v1/navigation/close-sidebar", "", &update)
	if status != http.StatusOK || update.State.SidebarOpen {
		t.Fatalf("close: expected closed sidebar, got %d %+v", status, update.State)
	}

	status = apiCall(t, srv, http.MethodPost, "/api/v1/navigation/viewport", `{"width":-1}`, &errPayload)
	if status != http.StatusBadRequest {
		t.Fatalf("negative width: expected 400, got %d", status)
	}

	status = apiCall(t, srv, http.MethodPost, "/api/v1/navigation/viewport", `{}`, &errPayload)
	if status != http.StatusBadRequest {
		t.Fatalf("missing width: expected 400, got %d", status)
	}

	var state navigationState
	if status := apiCall(t, srv, http.MethodGet, "/api/v1/navigation", "", &state); status != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", status)
	}
	if state.ActiveSection != "guardrails-section" || !state.IsNarrowViewport {
		t.Fatalf("unexpected state %+v", state)
	}

	var history struct {
		Items []struct {
			From   string `json:"from"`
			To     string `json:"to"`
			Source string `json:"source"`
		} `json:"items"`
	}
	if status := apiCall(t, srv, http.MethodGet, "/api/v1/navigation/history", "", &history); status != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", status)
	}
	if len(history.Items) != 1 {
		t.Fatalf("expected one recorded change, got %d", len(history.Items))
	}
	if history.Items[0].From != "overview" || history.Items[0].To != "guardrails-section" || history.Items[0].Source != "api" {
		t.Fatalf("unexpected change %+v", history.Items[0])
	}
}

func TestE2EInteractions(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		routed bool
		target string
	}{
		{"routed metric", "/api/v1/interactions/metric", `{"name":"AI Safety"}`, http.StatusOK, true, "performance-reliability"},
		{"logged metric", "/api/v1/interactions/metric", `{"name":"Fairness"}`, http.StatusOK, false, ""},
		{"routed category", "/api/v1/interactions/category", `{"name":"Environmental"}`, http.StatusOK, true, "sustainability-cost"},
		{"logged category", "/api/v1/interactions/category", `{"name":"Social"}`, http.StatusOK, false, ""},
		{"cost card", "/api/v1/interactions/cost-card", `{}`, http.StatusOK, true, "sustainability-cost"},
		{"metric without name", "/api/v1/interactions/metric", `{"name":" "}`, http.StatusBadRequest, false, ""},
		{"malformed body", "/api/v1/interactions/metric", `{"name":`, http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			var result struct {
				Routed     bool             `json:"routed"`
				Target     string           `json:"target"`
				Navigation *navigationState `json:"navigation"`
			}
			status := apiCall(t, srv, http.MethodPost, tt.path, tt.body, &result)
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if status != http.StatusOK {
				return
			}
			if result.Routed != tt.routed || result.Target != tt.target {
				t.Fatalf("expected routed=%v target=%q, got %+v", tt.routed, tt.target, result)
			}
			want := "overview"
			if tt.routed {
				want = tt.target
			}
			if result.Navigation == nil || result.Navigation.ActiveSection != want {
				t.Fatalf("expected active section %q, got %+v", want, result.Navigation)
			}
		})
	}
}

func TestE2ECostHistoryAndPolicies(t *testing.T) {
	srv := newTestServer(t)

	var history struct {
		Samples int `json:"samples"`
		Points  []struct {
			At time.Time `json:"at"`
		} `json:"points"`
	}
	if status := apiCall(t, srv, http.MethodGet, "/api/v1/cost/history?samples=5", "", &history); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if history.Samples != 5 || len(history.Points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(history.Points))
	}
	if !history.Points[4].At.Equal(fixedNow) {
		t.Fatalf("expected last point at %v, got %v", fixedNow, history.Points[4].At)
	}

	for _, query := range []string{"samples=0", "samples=abc", "samples=1000"} {
		if status := apiCall(t, srv, http.MethodGet, "/api/v1/cost/history?"+query, "", nil); status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, status)
		}
	}

	var policies struct {
		Policies []struct {
			PolicyType string `json:"policy_type"`
		} `json:"policies"`
		Counts struct {
			All int `json:"all"`
		} `json:"counts"`
	}
	if status := apiCall(t, srv, http.MethodGet, "/api/v1/policies?type=regulatory&region=europe", "", &policies); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(policies.Policies) != 2 || policies.Counts.All != 11 {
		t.Fatalf("expected 2 of 11 policies, got %d of %d", len(policies.Policies), policies.Counts.All)
	}

	if status := apiCall(t, srv, http.MethodGet, "/api/v1/policies?type=external", "", nil); status != http.StatusBadRequest {
		t.Fatalf("invalid filter: expected 400, got %d", status)
	}
}

func TestE2ESnapshots(t *testing.T) {
	srv := newTestServer(t)

	var saved struct {
		SnapshotID string `json:"snapshot_id"`
		Items      []struct {
			Section string `json:"section"`
			S3Key   string `json:"s3_key"`
		} `json:"items"`
	}
	status := apiCall(t, srv, http.MethodPost, "/api/v1/snapshots/dashboard",
		`{"dashboard_id":"main","captured_at":"2025-03-10T12:00:00Z"}`, &saved)
	if status != http.StatusCreated {
		t.Fatalf("save: expected 201, got %d", status)
	}
	if saved.SnapshotID == "" || len(saved.Items) != 6 {
		t.Fatalf("expected 6 exported sections, got %+v", saved)
	}

	var listed struct {
		Items []struct {
			Section string `json:"section"`
			URL     string `json:"url"`
		} `json:"items"`
	}
	status = apiCall(t, srv, http.MethodGet, "/api/v1/snapshots/dashboard?dashboard_id=main&section=policies", "", &listed)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	if len(listed.Items) != 1 || listed.Items[0].Section != "policies" {
		t.Fatalf("expected one policies snapshot, got %+v", listed.Items)
	}
	if !strings.HasPrefix(listed.Items[0].URL, "https://storage.local/") {
		t.Fatalf("unexpected url %q", listed.Items[0].URL)
	}

	badRequests := []string{
		"/api/v1/snapshots/dashboard?dashboard_id=bad%20id",
		"/api/v1/snapshots/dashboard?section=settings",
		"/api/v1/snapshots/dashboard?from=yesterday",
		"/api/v1/snapshots/dashboard?limit=-1",
	}
	for _, path := range badRequests {
		if status := apiCall(t, srv, http.MethodGet, path, "", nil); status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, status)
		}
	}
}

func TestE2EDashboardPages(t *testing.T) {
	srv := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer " + testToken}

	resp := doRequest(t, srv.Client(), http.MethodGet, srv.URL+"/sections/policies?type=internal", nil, headers)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), `data-active-section="policies"`) {
		t.Fatal("expected policies to be the active section")
	}

	var state navigationState
	apiCall(t, srv, http.MethodGet, "/api/v1/navigation", "", &state)
	if state.ActiveSection != "policies" {
		t.Fatalf("expected page visit to select policies, got %q", state.ActiveSection)
	}

	resp = doRequest(t, srv.Client(), http.MethodGet, srv.URL+"/", nil, headers)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `data-active-section="policies"`) {
		t.Fatal("expected root page to render the active section")
	}

	resp = doRequest(t, srv.Client(), http.MethodGet, srv.URL+"/sections/settings", nil, headers)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown section, got %d", resp.StatusCode)
	}

	resp = doRequest(t, srv.Client(), http.MethodGet, srv.URL+"/sections/policies?region=mars", nil, headers)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid region, got %d", resp.StatusCode)
	}

	resp = doRequest(t, srv.Client(), http.MethodGet, srv.URL+"/static/css/style.css", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected static asset, got %d", resp.StatusCode)
	}
}

func TestE2EMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	apiCall(t, srv, http.MethodPost, "/api/v1/navigation/select", `{"section":"policies"}`, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "rai_dashboard_section_changes_total") {
		t.Fatal("expected section change counter in exposition")
	}
}

func dialWS(t *testing.T, srv *testServer) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + testToken}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readWS(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	var msg map[string]json.RawMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	return msg
}

func TestE2EWebSocketCommands(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)

	if err := conn.WriteJSON(map[string]any{"type": "select", "section": "policies"}); err != nil {
		t.Fatalf("write command: %v", err)
	}
	msg := readWS(t, conn)
	if string(msg["type"]) != `"navigation"` {
		t.Fatalf("expected navigation message, got %s", msg["type"])
	}
	var update navigationUpdate
	if err := json.Unmarshal(msg["data"], &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.State.ActiveSection != "policies" || update.Change == nil || update.Change.Source != "sidebar" {
		t.Fatalf("unexpected update %+v", update)
	}

	if err := conn.WriteJSON(map[string]any{"type": "select", "section": "settings"}); err != nil {
		t.Fatalf("write command: %v", err)
	}
	msg = readWS(t, conn)
	if string(msg["type"]) != `"error"` {
		t.Fatalf("expected error message, got %s", msg["type"])
	}
}

func TestE2EWebSocketRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake to fail without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
	resp.Body.Close()

	header := http.Header{
		"Authorization": []string{"Bearer " + testToken},
		"Origin":        []string{"https://evil.example"},
	}
	_, resp, err = websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected foreign origin to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}
	resp.Body.Close()
}
