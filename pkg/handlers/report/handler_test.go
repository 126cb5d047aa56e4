package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dash-tools/report-atlas/pkg/models/api"
	"github.com/dash-tools/report-atlas/pkg/models/store"
	reportsvc "github.com/dash-tools/report-atlas/pkg/services/report"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb/runs"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunStore struct {
	mock.Mock
}

func (m *mockRunStore) Add(ctx context.Context, run store.ExtractionRun, rows []store.ReportRow) error {
	args := m.Called(ctx, run, rows)
	return args.Error(0)
}

func (m *mockRunStore) List(ctx context.Context) ([]store.ExtractionRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ExtractionRun), args.Error(1)
}

func (m *mockRunStore) Get(ctx context.Context, id string) (*store.ExtractionRun, []store.ReportRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*store.ExtractionRun), args.Get(1).([]store.ReportRow), args.Error(2)
}

func (m *mockRunStore) FindByDate(ctx context.Context, date time.Time) (*store.ExtractionRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ExtractionRun), args.Error(1)
}

type mockSettingsStore struct {
	mock.Mock
}

func (m *mockSettingsStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockSettingsStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockSettingsStore) All(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]string), args.Error(1)
}

func setupRouter(runStore *mockRunStore, settingsStore *mockSettingsStore) *chi.Mux {
	extractor := reportsvc.NewExtractor(reportsvc.DefaultConfig())
	h := NewHandler(extractor, runStore, settingsStore)

	router := chi.NewRouter()
	router.Post("/reports/parse", h.ParseReport)
	router.Post("/reports/runs", h.CreateRun)
	router.Get("/reports/runs", h.ListRuns)
	router.Get("/reports/runs/{id}", h.GetRun)
	router.Get("/settings/{key}", h.GetSetting)
	router.Put("/settings/{key}", h.PutSetting)
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestParseReport(t *testing.T) {
	router := setupRouter(&mockRunStore{}, &mockSettingsStore{})

	t.Run("parses rows and reports failures", func(t *testing.T) {
		rec := postJSON(t, router, "/reports/parse", api.ParseRequest{
			Date:   "13-Oct-2025",
			Source: "test",
			Rows: []api.RawRow{
				{Cells: []string{"first_subscription", "€1,234.56", "€61.73", "20"}},
				{Cells: []string{"repeat_single", "€abc", "€12.00", "100"}},
			},
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var report api.ExtractionReport
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
		require.Len(t, report.Rows, 1)
		assert.Equal(t, "first_subscription", report.Rows[0].Category)
		assert.InDelta(t, 1234.56, report.Rows[0].NetRevenue, 1e-9)
		require.Len(t, report.Failures, 1)
		assert.Contains(t, report.Failures[0].Error, "€abc")
		assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), report.Date)
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := postJSON(t, router, "/reports/parse", api.ParseRequest{Date: "2025-10-13"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/reports/parse", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateRun(t *testing.T) {
	t.Run("persists parsed rows", func(t *testing.T) {
		runStore := &mockRunStore{}
		runStore.On("Add", mock.Anything, mock.MatchedBy(func(run store.ExtractionRun) bool {
			return run.Parsed == 1 && run.Source == "orders.csv"
		}), mock.Anything).Return(nil)

		router := setupRouter(runStore, &mockSettingsStore{})
		rec := postJSON(t, router, "/reports/runs", api.ParseRequest{
			Date:   "13-Oct-2025",
			Source: "orders.csv",
			Rows: []api.RawRow{
				{Cells: []string{"first_subscription", "€1,234.56", "€61.73", "20"}},
			},
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		runStore.AssertExpectations(t)
	})

	t.Run("store failure maps to 500", func(t *testing.T) {
		runStore := &mockRunStore{}
		runStore.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		router := setupRouter(runStore, &mockSettingsStore{})
		rec := postJSON(t, router, "/reports/runs", api.ParseRequest{
			Date: "13-Oct-2025",
			Rows: []api.RawRow{{Cells: []string{"x", "€10", "€10", "1"}}},
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestListRuns(t *testing.T) {
	runStore := &mockRunStore{}
	runStore.On("List", mock.Anything).Return([]store.ExtractionRun{
		{ID: "run-1", Source: "orders.csv", Parsed: 3},
		{ID: "run-2", Source: "orders.csv", Parsed: 5},
	}, nil)

	router := setupRouter(runStore, &mockSettingsStore{})
	req := httptest.NewRequest(http.MethodGet, "/reports/runs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response []api.ExtractionRun
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 2)
	assert.Equal(t, "run-1", response[0].ID)
}

func TestListRuns_DateFilter(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		runStore := &mockRunStore{}
		runStore.On("FindByDate", mock.Anything, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)).
			Return(&store.ExtractionRun{ID: "run-1", Parsed: 3}, nil)

		router := setupRouter(runStore, &mockSettingsStore{})
		req := httptest.NewRequest(http.MethodGet, "/reports/runs?date=13-Oct-2025", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response []api.ExtractionRun
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response, 1)
		assert.Equal(t, "run-1", response[0].ID)
	})

	t.Run("no run that day yields an empty list", func(t *testing.T) {
		runStore := &mockRunStore{}
		runStore.On("FindByDate", mock.Anything, mock.Anything).Return(nil, runs.ErrNotFound)

		router := setupRouter(runStore, &mockSettingsStore{})
		req := httptest.NewRequest(http.MethodGet, "/reports/runs?date=14-Oct-2025", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response []api.ExtractionRun
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response)
	})

	t.Run("malformed date", func(t *testing.T) {
		router := setupRouter(&mockRunStore{}, &mockSettingsStore{})
		req := httptest.NewRequest(http.MethodGet, "/reports/runs?date=2025-10-13", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetRun(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		runStore := &mockRunStore{}
		runStore.On("Get", mock.Anything, "run-1").Return(
			&store.ExtractionRun{ID: "run-1", Parsed: 1},
			[]store.ReportRow{{RunID: "run-1", Category: "first_single", NetRevenue: 10, AverageOrderValue: 10, OrderCount: 1}},
			nil,
		)

		router := setupRouter(runStore, &mockSettingsStore{})
		req := httptest.NewRequest(http.MethodGet, "/reports/runs/run-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response api.ExtractionRun
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "run-1", response.ID)
		require.Len(t, response.Rows, 1)
		assert.Equal(t, "first_single", response.Rows[0].Category)
	})

	t.Run("not found", func(t *testing.T) {
		runStore := &mockRunStore{}
		runStore.On("Get", mock.Anything, "missing").Return(nil, nil, runs.ErrNotFound)

		router := setupRouter(runStore, &mockSettingsStore{})
		req := httptest.NewRequest(http.MethodGet, "/reports/runs/missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSettings(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		settingsStore := &mockSettingsStore{}
		settingsStore.On("Get", mock.Anything, "SPREAD_SHEET_NAME").Return("Daily KPIs", nil)

		router := setupRouter(&mockRunStore{}, settingsStore)
		req := httptest.NewRequest(http.MethodGet, "/settings/SPREAD_SHEET_NAME", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var setting api.Setting
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&setting))
		assert.Equal(t, "Daily KPIs", setting.Value)
	})

	t.Run("put", func(t *testing.T) {
		settingsStore := &mockSettingsStore{}
		settingsStore.On("Set", mock.Anything, "WORK_SHEET_NAME", "October").Return(nil)

		router := setupRouter(&mockRunStore{}, settingsStore)
		payload, err := json.Marshal(api.Setting{Value: "October"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/settings/WORK_SHEET_NAME", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		settingsStore.AssertExpectations(t)
	})
}
