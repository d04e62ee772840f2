// Package database handles database connections.
//
// It wraps GORM to configure MySQL connections from the application's
// configuration: DSN construction (with URL-encoded credentials and
// explicit timeouts), connection pooling, and an initial ping.
//
// Schema migration lives with the entity models in feature/catalog/models;
// this package stays agnostic of the catalog schema.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
