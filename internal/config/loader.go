package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load reads config.yaml from configPath (if present) and applies environment
// overrides prefixed with SHEETBRIDGE (e.g. SHEETBRIDGE_PORT, SHEETBRIDGE_PG_HOST).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("SHEETBRIDGE")

	v.BindEnv("app_env")
	v.BindEnv("port")
	v.BindEnv("pg.host", "SHEETBRIDGE_PG_HOST")
	v.BindEnv("pg.port", "SHEETBRIDGE_PG_PORT")
	v.BindEnv("pg.user", "SHEETBRIDGE_PG_USER")
	v.BindEnv("pg.password", "SHEETBRIDGE_PG_PASSWORD")
	v.BindEnv("pg.dbname", "SHEETBRIDGE_PG_DB")
	v.BindEnv("pg.sslmode", "SHEETBRIDGE_PG_SSLMODE")
	v.BindEnv("redis.host", "SHEETBRIDGE_REDIS_HOST")
	v.BindEnv("redis.port", "SHEETBRIDGE_REDIS_PORT")
	v.BindEnv("redis.password", "SHEETBRIDGE_REDIS_PASSWORD")
	v.BindEnv("sheets.base_url", "SHEETBRIDGE_SHEETS_BASE_URL")
	v.BindEnv("sheets.access_token", "SHEETBRIDGE_SHEETS_TOKEN")
	v.BindEnv("sync.dashboard_api_url", "SHEETBRIDGE_DASHBOARD_API_URL")
	v.BindEnv("sync.webhook_secret", "SHEETBRIDGE_WEBHOOK_SECRET")
	v.BindEnv("sync.interval_hours", "SHEETBRIDGE_SYNC_INTERVAL_HOURS")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("app_env") {
		cfg.AppEnv = v.GetString("app_env")
	}
	if v.IsSet("port") {
		cfg.Port = v.GetInt("port")
	}
	if v.IsSet("pg.host") {
		cfg.Postgres.Host = v.GetString("pg.host")
	}
	if v.IsSet("pg.port") {
		cfg.Postgres.Port = v.GetInt("pg.port")
	}
	if v.IsSet("pg.user") {
		cfg.Postgres.User = v.GetString("pg.user")
	}
	if v.IsSet("pg.password") {
		cfg.Postgres.Password = v.GetString("pg.password")
	}
	if v.IsSet("pg.dbname") {
		cfg.Postgres.DBName = v.GetString("pg.dbname")
	}
	if v.IsSet("pg.sslmode") {
		cfg.Postgres.SSLMode = v.GetString("pg.sslmode")
	}
	if v.IsSet("redis.host") {
		cfg.Redis.Host = v.GetString("redis.host")
	}
	if v.IsSet("redis.port") {
		cfg.Redis.Port = v.GetInt("redis.port")
	}
	if v.IsSet("redis.password") {
		cfg.Redis.Password = v.GetString("redis.password")
	}
	if v.IsSet("sheets.base_url") {
		cfg.Sheets.BaseURL = v.GetString("sheets.base_url")
	}
	if v.IsSet("sheets.access_token") {
		cfg.Sheets.AccessToken = v.GetString("sheets.access_token")
	}
	if v.IsSet("sync.dashboard_api_url") {
		cfg.Sync.DashboardAPIURL = v.GetString("sync.dashboard_api_url")
	}
	if v.IsSet("sync.webhook_secret") {
		cfg.Sync.WebhookSecret = v.GetString("sync.webhook_secret")
	}
	if v.IsSet("sync.batch_size") {
		cfg.Sync.BatchSize = v.GetInt("sync.batch_size")
	}
	if v.IsSet("sync.interval_hours") {
		cfg.Sync.Interval = time.Duration(v.GetInt("sync.interval_hours")) * time.Hour
	}
	if v.IsSet("sync.audit_sheet_tab") {
		cfg.Sync.AuditSheetTab = v.GetString("sync.audit_sheet_tab")
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

// Addr builds the Redis address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
