package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/credentials"
	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/models/dtos"
	"dental-analytics/sheetbridge/internal/models/entities"
	"dental-analytics/sheetbridge/internal/syncer"
	"dental-analytics/sheetbridge/internal/upsert"
)

// Handlers wires the trigger endpoints to the sync pipeline.
type Handlers struct {
	Orchestrator *syncer.Orchestrator
	RowSyncer    *syncer.RowSyncer
	Resolver     *credentials.Resolver
	Upserter     *upsert.Client
	Runs         *repositories.SyncRunRepository
}

// SyncRunSummary is what the manual-sync and connection-test endpoints return.
type SyncRunSummary struct {
	RunID           string  `json:"runId"`
	Status          string  `json:"status"`
	SheetsProcessed int     `json:"sheetsProcessed"`
	DurationSeconds float64 `json:"durationSeconds"`
	Message         string  `json:"message"`
}

// RunSync handles POST /api/sync/run — a manual "sync now".
func (h *Handlers) RunSync(w http.ResponseWriter, r *http.Request) {
	var req dtos.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantKey == "" {
		respondWithError(w, http.StatusBadRequest, "tenantKey is required")
		return
	}

	result := h.Orchestrator.RunFullSync(r.Context(), req.TenantKey, req.Variant, req.DryRun)

	summary := &SyncRunSummary{
		RunID:           result.RunID,
		Status:          result.Status(),
		SheetsProcessed: len(result.Sheets),
		DurationSeconds: result.Duration.Seconds(),
		Message:         result.Summary(),
	}

	if result.Fatal != nil {
		if errors.Is(result.Fatal, syncer.ErrLockBusy) {
			respondWithError(w, http.StatusConflict, result.Fatal.Error())
			return
		}
		// The run is audited either way; surface the summary with a 502 so
		// the caller sees the failure class.
		respondWithError(w, http.StatusBadGateway, result.Summary())
		return
	}

	respondWithSuccess(w, http.StatusOK, summary)
}

// EditWebhook handles POST /api/sync/edit — the spreadsheet's onEdit forwarder.
func (h *Handlers) EditWebhook(w http.ResponseWriter, r *http.Request) {
	var req dtos.EditWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantKey == "" || req.SpreadsheetID == "" || req.SheetName == "" {
		respondWithError(w, http.StatusBadRequest, "tenantKey, spreadsheetId and sheetName are required")
		return
	}

	result, err := h.RowSyncer.RunSingleRowSync(r.Context(), req.TenantKey, req.SpreadsheetID, req.SheetName, req.RowNumber)
	if err != nil {
		if errors.Is(err, syncer.ErrLockBusy) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondWithSuccess(w, http.StatusOK, result)
}

// TestConnection handles POST /api/sync/test: resolves credentials and
// performs a zero-record dry-run upsert, surfacing a human-readable summary.
func (h *Handlers) TestConnection(w http.ResponseWriter, r *http.Request) {
	var req dtos.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantKey == "" {
		respondWithError(w, http.StatusBadRequest, "tenantKey is required")
		return
	}

	start := time.Now()

	creds, err := h.Resolver.Resolve(r.Context(), req.TenantKey)
	if err != nil {
		h.recordConnTest(r.Context(), req.TenantKey, constants.RunStatusError, err.Error(), start)
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := h.Upserter.Ping(r.Context(), creds); err != nil {
		h.recordConnTest(r.Context(), req.TenantKey, constants.RunStatusError, err.Error(), start)
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.recordConnTest(r.Context(), req.TenantKey, constants.RunStatusSuccess, "connection ok", start)

	summary := struct {
		Endpoint         string `json:"endpoint"`
		TenantID         string `json:"tenantId"`
		ProviderResolved bool   `json:"providerResolved"`
	}{
		Endpoint:         creds.EndpointURL,
		TenantID:         creds.TenantID,
		ProviderResolved: creds.ProviderID != "",
	}

	respondWithSuccess(w, http.StatusOK, &summary)
}

// recordConnTest audits a connection test alongside the sync runs. Audit
// failures are logged, never surfaced to the caller.
func (h *Handlers) recordConnTest(ctx context.Context, tenantKey, status, message string, start time.Time) {
	if h.Runs == nil {
		return
	}
	run := &entities.SyncRun{
		TenantKey:       tenantKey,
		Event:           constants.SyncEventConnTest,
		Status:          status,
		DurationSeconds: time.Since(start).Seconds(),
		Message:         message,
	}
	if err := h.Runs.Record(ctx, run); err != nil {
		log.Printf("[TestConnection] Warning: failed to record run: %v", err)
	}
}

// ListRuns handles GET /api/sync/runs?tenantKey=...&limit=N.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	tenantKey := r.URL.Query().Get("tenantKey")
	if tenantKey == "" {
		respondWithError(w, http.StatusBadRequest, "tenantKey is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.Runs.ListRecent(r.Context(), tenantKey, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	respondWithSuccess(w, http.StatusOK, &runs)
}
