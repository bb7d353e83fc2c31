package api

import (
	"net/http"
	"time"

	"dental-analytics/sheetbridge/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

// HealthCheckHandler reports service liveness and database reachability.
func HealthCheckHandler(db *sqlx.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "ok"
		if db == nil {
			dbStatus = "not connected"
		} else if err := db.PingContext(r.Context()); err != nil {
			dbStatus = "unreachable"
		}

		resp := &dtos.HealthResponse{
			Status:   "ok",
			Uptime:   time.Since(upSince).Truncate(time.Second).String(),
			Database: dbStatus,
		}

		code := http.StatusOK
		if dbStatus != "ok" {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		respondWithSuccess(w, code, resp)
	}
}
