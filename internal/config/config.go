package config

import "time"

// Config holds process-level configuration for the sync service.
// Tenant-scoped sync settings (spreadsheet IDs, API keys, external codes)
// live in the sync_properties table and are resolved per run.
type Config struct {
	AppEnv string
	Port   int

	Postgres PostgresConfig
	Redis    RedisConfig
	Sheets   SheetsConfig
	Sync     SyncConfig
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type SheetsConfig struct {
	// BaseURL is overridable so tests can point the client at a fake server.
	BaseURL     string
	AccessToken string
}

type SyncConfig struct {
	// DashboardAPIURL overrides the per-tenant endpoint_url property when set.
	DashboardAPIURL string
	BatchSize       int
	MaxAttempts     int
	InitialBackoff  time.Duration
	Interval        time.Duration
	LockTimeout     time.Duration
	EditDebounce    time.Duration
	WebhookSecret   string
	AuditSheetTab   string
}

// Default returns the configuration defaults applied before file and env
// overrides.
func Default() Config {
	return Config{
		AppEnv: "development",
		Port:   8080,
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Sheets: SheetsConfig{
			BaseURL: "https://sheets.googleapis.com/v4",
		},
		Sync: SyncConfig{
			BatchSize:      100,
			MaxAttempts:    3,
			InitialBackoff: time.Second,
			Interval:       6 * time.Hour,
			LockTimeout:    5 * time.Second,
			EditDebounce:   2 * time.Second,
			AuditSheetTab:  "Sync Log",
		},
	}
}
