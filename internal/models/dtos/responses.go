package dtos

import "time"

// APIResponse is the envelope returned by every HTTP handler.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// EditWebhookRequest is posted by the spreadsheet's onEdit forwarder.
type EditWebhookRequest struct {
	TenantKey     string `json:"tenantKey"`
	SpreadsheetID string `json:"spreadsheetId"`
	SheetName     string `json:"sheetName"`
	RowNumber     int    `json:"rowNumber"`
}

// SyncRequest triggers a manual full sync.
type SyncRequest struct {
	TenantKey string `json:"tenantKey"`
	Variant   string `json:"variant"` // hygiene | financial
	DryRun    bool   `json:"dryRun"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}
