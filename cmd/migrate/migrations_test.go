package main

import (
	"testing"

	"catalogapi/db"

	"github.com/pressly/goose/v3"
)

func TestCollectMigrations_ParsesEmbeddedMigrations(t *testing.T) {
	goose.SetBaseFS(db.Migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(db.MigrationsDir, 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected collation and books migrations, got %d", len(migrations))
	}
}
