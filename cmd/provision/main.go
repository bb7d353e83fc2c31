// Command provision seeds and repoints tenant sync configuration: the
// per-tenant properties (endpoint, API key, spreadsheet IDs, external codes)
// and the external-identifier mappings that translate those codes into
// current database IDs. Run `provision -mode mapping` after a dashboard
// reseed to repoint a code at its new internal ID; every dependent sync
// picks the change up on its next run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"dental-analytics/sheetbridge/internal/config"
	"dental-analytics/sheetbridge/internal/credentials"
	"dental-analytics/sheetbridge/internal/db"
	"dental-analytics/sheetbridge/internal/db/repositories"
	"dental-analytics/sheetbridge/internal/models/entities"
)

func main() {
	var (
		mode       = flag.String("mode", "property", "what to write: property or mapping")
		tenantKey  = flag.String("tenant", "", "tenant key (property mode)")
		key        = flag.String("key", "", "property key, e.g. api_key or spreadsheet_hygiene")
		value      = flag.String("value", "", "property value")
		externalID = flag.String("external-id", "", "stable external code (mapping mode)")
		entityType = flag.String("entity-type", credentials.EntityTypeClinic, "mapping entity type: clinic or provider")
		internalID = flag.String("internal-id", "", "current database identifier (mapping mode)")
	)
	flag.Parse()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := db.InitPostgres(cfg.Postgres.DSN()); err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	ctx := context.Background()

	switch *mode {
	case "property":
		if *tenantKey == "" || *key == "" || *value == "" {
			flag.Usage()
			os.Exit(2)
		}
		repo := repositories.NewPropertiesRepository(db.DB)
		err := repo.Upsert(ctx, &entities.SyncProperty{
			TenantKey: *tenantKey,
			Key:       *key,
			Value:     *value,
		})
		if err != nil {
			log.Fatalf("Failed to upsert property: %v", err)
		}
		fmt.Printf("Set %s/%s\n", *tenantKey, *key)

	case "mapping":
		if *externalID == "" || *internalID == "" {
			flag.Usage()
			os.Exit(2)
		}
		repo := repositories.NewMappingRepository(db.DB)
		err := repo.Upsert(ctx, &entities.ExternalIDMapping{
			SystemName: credentials.MappingSystemName,
			ExternalID: *externalID,
			EntityType: *entityType,
			InternalID: *internalID,
		})
		if err != nil {
			log.Fatalf("Failed to upsert mapping: %v", err)
		}
		fmt.Printf("Mapped %s %s -> %s\n", *entityType, *externalID, *internalID)

	default:
		flag.Usage()
		os.Exit(2)
	}
}
