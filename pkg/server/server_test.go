package server

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
	"github.com/rs/zerolog"
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

func setupAPI(runStore *mockRunStore, settingsStore *mockSettingsStore) *WebAPI {
	logger := zerolog.Nop()
	return NewWebAPI(logger, Config{
		Addr: "127.0.0.1:0",
		Dependencies: Dependencies{
			Extractor: reportsvc.NewExtractor(reportsvc.DefaultConfig()),
			Runs:      runStore,
			Settings:  settingsStore,
		},
	})
}

func TestRoutes_ParseRoundTrip(t *testing.T) {
	webAPI := setupAPI(&mockRunStore{}, &mockSettingsStore{})

	payload, err := json.Marshal(api.ParseRequest{
		Date: "13-Oct-2025",
		Rows: []api.RawRow{
			{Cells: []string{"first_subscription", "€1,234.56", "€61.73", "20"}},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/parse", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	webAPI.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report api.ExtractionReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.Len(t, report.Rows, 1)
	assert.InDelta(t, 1234.56, report.Rows[0].NetRevenue, 1e-9)
}

func TestRoutes_ListRuns(t *testing.T) {
	runStore := &mockRunStore{}
	runStore.On("List", mock.Anything).Return([]store.ExtractionRun{{ID: "run-1"}}, nil)

	webAPI := setupAPI(runStore, &mockSettingsStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/runs", nil)
	rec := httptest.NewRecorder()
	webAPI.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response []api.ExtractionRun
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "run-1", response[0].ID)
}

func TestRoutes_UnknownPath(t *testing.T) {
	webAPI := setupAPI(&mockRunStore{}, &mockSettingsStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	webAPI.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
