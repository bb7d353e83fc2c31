package upsert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/credentials"
	"dental-analytics/sheetbridge/internal/models/dtos"
	"dental-analytics/sheetbridge/internal/models/entities"

	"golang.org/x/time/rate"
)

// BatchResult aggregates the outcome of one UpsertBatch call.
type BatchResult struct {
	Attempted int
	Upserted  int
	Failed    int
	Retries   int
	Fallbacks int
}

// Client pushes normalized records to the dashboard ingest endpoint in
// bounded batches with merge-on-duplicate semantics.
type Client struct {
	httpClient *http.Client
	policy     RetryPolicy
	batchSize  int
	limiter    *rate.Limiter
}

func NewClient(batchSize int, policy RetryPolicy) *Client {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		policy:    policy,
		batchSize: batchSize,
		// Stay under the ingest endpoint's own rate limit; 429s are still
		// handled by the retry policy when it is crossed anyway.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// UpsertBatch sends records in batches. A batch that exhausts its retries
// degrades to per-record upserts so one malformed record cannot sink the
// rest of an otherwise-valid batch.
func (c *Client) UpsertBatch(
	ctx context.Context,
	records []entities.ProductionRecord,
	creds *credentials.SyncCredentials,
	dryRun bool,
) (*BatchResult, error) {
	result := &BatchResult{Attempted: len(records)}

	for start := 0; start < len(records); start += c.batchSize {
		end := start + c.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		err := c.sendWithRetry(ctx, batch, creds, dryRun, result)
		if err == nil {
			result.Upserted += len(batch)
			continue
		}

		// Status 0 means a transport-level failure, which is transient like
		// 429/5xx; only a real HTTP rejection is permanent.
		if provErr, ok := err.(*APIError); ok && provErr.Status != 0 && !RetryableStatus(provErr.Status) {
			// Permanent rejection of the whole batch, no point in retrying
			// record by record with the same payload shape.
			log.Printf("[UpsertClient] Batch %d-%d rejected permanently: %v", start, end, err)
			result.Failed += len(batch)
			continue
		}

		log.Printf("[UpsertClient] Batch %d-%d exhausted retries, falling back to per-record upserts: %v", start, end, err)
		result.Fallbacks++

		for i := range batch {
			if err := c.UpsertRecord(ctx, &batch[i], creds, dryRun); err != nil {
				log.Printf("[UpsertClient] Record %s failed: %v", batch[i].ID, err)
				result.Failed++
				continue
			}
			result.Upserted++
		}
	}

	return result, nil
}

// UpsertRecord pushes a single record, used by the per-record fallback and
// the edit-triggered single-row sync.
func (c *Client) UpsertRecord(
	ctx context.Context,
	record *entities.ProductionRecord,
	creds *credentials.SyncCredentials,
	dryRun bool,
) error {
	return c.policy.Do(ctx, func() (int, error) {
		return c.post(ctx, []entities.ProductionRecord{*record}, creds, dryRun)
	})
}

// Ping sends an empty dry-run payload, verifying the endpoint and API key
// without writing anything. Used by the connection-test endpoint.
func (c *Client) Ping(ctx context.Context, creds *credentials.SyncCredentials) error {
	return c.policy.Do(ctx, func() (int, error) {
		return c.post(ctx, nil, creds, true)
	})
}

func (c *Client) sendWithRetry(
	ctx context.Context,
	batch []entities.ProductionRecord,
	creds *credentials.SyncCredentials,
	dryRun bool,
	result *BatchResult,
) error {
	attempt := 0
	return c.policy.Do(ctx, func() (int, error) {
		attempt++
		if attempt > 1 {
			result.Retries++
		}
		return c.post(ctx, batch, creds, dryRun)
	})
}

// post performs one HTTP upsert call, returning the status code for the
// retry policy's classification.
func (c *Client) post(
	ctx context.Context,
	records []entities.ProductionRecord,
	creds *credentials.SyncCredentials,
	dryRun bool,
) (int, error) {
	payload := dtos.UpsertPayload{
		TenantID:     creds.TenantID,
		DataSourceID: creds.DataSourceID,
		Records:      records,
		Upsert:       true,
		DryRun:       dryRun,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal upsert payload: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &APIError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}

	respBody, _ := io.ReadAll(resp.Body)

	code := constants.ErrCodeServerError
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		code = constants.ErrCodeInvalidAPIKey
	case resp.StatusCode == http.StatusTooManyRequests:
		code = constants.ErrCodeRateLimited
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		code = constants.ErrCodeBadRequest
	}

	return resp.StatusCode, &APIError{
		Code:    code,
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody)),
	}
}

// APIError represents a rejected upsert call.
type APIError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}
