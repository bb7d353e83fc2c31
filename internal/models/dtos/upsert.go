package dtos

import "dental-analytics/sheetbridge/internal/models/entities"

// UpsertPayload is the body POSTed to the dashboard ingest endpoint.
type UpsertPayload struct {
	TenantID     string                      `json:"tenantId"`
	DataSourceID string                      `json:"dataSourceId"`
	Records      []entities.ProductionRecord `json:"records"`
	Upsert       bool                        `json:"upsert"`
	DryRun       bool                        `json:"dryRun"`
}

// UpsertResponse is the subset of the endpoint's reply the client inspects.
type UpsertResponse struct {
	Upserted int    `json:"upserted"`
	Message  string `json:"message,omitempty"`
}
