package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dash-tools/report-atlas/pkg/adapters"
	"github.com/dash-tools/report-atlas/pkg/models/api"
	"github.com/dash-tools/report-atlas/pkg/models/domain"
	"github.com/dash-tools/report-atlas/pkg/services/dates"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb/runs"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb/settings"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Extractor parses a batch of raw rows into an extraction report.
type Extractor interface {
	Extract(ctx context.Context, date time.Time, source string, rows []domain.RawRow) *domain.ExtractionReport
}

type Handler struct {
	extractor Extractor
	runs      runs.Store
	settings  settings.Store
}

func NewHandler(extractor Extractor, runStore runs.Store, settingsStore settings.Store) *Handler {
	return &Handler{
		extractor: extractor,
		runs:      runStore,
		settings:  settingsStore,
	}
}

// ParseReport parses raw rows without persisting anything.
func (h *Handler) ParseReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, date, ok := h.decodeParseRequest(w, r)
	if !ok {
		return
	}

	result := h.extractor.Extract(ctx, date, req.Source, adapters.MapRawRowsApiToDomain(req.Rows))
	writeJSON(ctx, w, http.StatusOK, adapters.MapExtractionReportDomainToApi(result))
}

// CreateRun parses raw rows and persists the resulting run.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	req, date, ok := h.decodeParseRequest(w, r)
	if !ok {
		return
	}

	result := h.extractor.Extract(ctx, date, req.Source, adapters.MapRawRowsApiToDomain(req.Rows))

	run, rows := adapters.MapExtractionReportDomainToStore(result)
	if err := h.runs.Add(ctx, run, rows); err != nil {
		logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist extraction run")
		http.Error(w, "failed to persist run", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, adapters.MapExtractionReportDomainToApi(result))
}

// ListRuns lists stored runs, newest first. A `date` query parameter
// narrows the result to the most recent run of that day.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if rawDate := r.URL.Query().Get("date"); rawDate != "" {
		h.listRunsByDate(w, r, rawDate)
		return
	}

	stored, err := h.runs.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list extraction runs")
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	response := make([]api.ExtractionRun, 0, len(stored))
	for _, run := range stored {
		response = append(response, adapters.MapExtractionRunStoreToApi(run, nil))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) listRunsByDate(w http.ResponseWriter, r *http.Request, rawDate string) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	date, err := dates.ParseReportDate(rawDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := h.runs.FindByDate(ctx, date)
	if errors.Is(err, runs.ErrNotFound) {
		writeJSON(ctx, w, http.StatusOK, []api.ExtractionRun{})
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("date", rawDate).Msg("failed to find run by date")
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, []api.ExtractionRun{adapters.MapExtractionRunStoreToApi(*run, nil)})
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	run, rows, err := h.runs.Get(ctx, id)
	if errors.Is(err, runs.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("run_id", id).Msg("failed to read extraction run")
		http.Error(w, "failed to read run", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, adapters.MapExtractionRunStoreToApi(*run, rows))
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	key := chi.URLParam(r, "key")

	value, err := h.settings.Get(ctx, key)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("failed to read setting")
		http.Error(w, "failed to read setting", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.Setting{Key: key, Value: value})
}

func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	key := chi.URLParam(r, "key")

	var setting api.Setting
	if err := json.NewDecoder(r.Body).Decode(&setting); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.settings.Set(ctx, key, setting.Value); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("failed to store setting")
		http.Error(w, "failed to store setting", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.Setting{Key: key, Value: setting.Value})
}

// decodeParseRequest reads the shared request body of the parse endpoints
// and resolves the report date, defaulting to the previous day the way the
// extraction tooling always has.
func (h *Handler) decodeParseRequest(w http.ResponseWriter, r *http.Request) (api.ParseRequest, time.Time, bool) {
	var req api.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, time.Time{}, false
	}

	date := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if req.Date != "" {
		parsed, err := dates.ParseReportDate(req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return req, time.Time{}, false
		}
		date = parsed
	}

	return req, date, true
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
