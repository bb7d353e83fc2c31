package constants

// Sync event types recorded in the sync_runs table
const (
	SyncEventFullHygiene   = "HYGIENE_FULL_SYNC"
	SyncEventFullFinancial = "FINANCIAL_FULL_SYNC"
	SyncEventSingleRow     = "SINGLE_ROW_SYNC"
	SyncEventConnTest      = "CONNECTION_TEST"
	SyncEventBackfill      = "XLSX_BACKFILL"
)

// Run statuses written to the audit log
const (
	RunStatusSuccess = "SUCCESS"
	RunStatusPartial = "PARTIAL"
	RunStatusError   = "ERROR"
)
