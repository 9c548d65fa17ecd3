package database

import (
	"context"
	_ "embed"
	"fmt"

	"hangout-api/core/logger"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Every statement is idempotent, so running it on
// an up-to-date database is a no-op.
func Migrate(ctx context.Context, db IDatabase) error {
	logger.Info("Database:Migrate:Start")
	if err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("Database:Migrate:Error", "error", err)
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("Database:Migrate:Done")
	return nil
}
