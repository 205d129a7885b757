package database

import (
	"context"
	"database/sql"

	"github.com/jask/fraudscope/internal/database/repository"
)

// SeedDefaults ensures baseline keys exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	kv := repository.NewKVRepo(db)
	defaults := map[string]string{
		repository.KeyRules: "[]",
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for key, value := range defaults {
			if err := kv.PutIfAbsentTx(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}
