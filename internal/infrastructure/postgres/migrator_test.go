package postgres

import (
	"strings"
	"testing"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := MigrationNames()
	if err != nil {
		t.Fatalf("reading embedded migrations: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %s", n)
		}
	}

	if len(ups) == 0 {
		t.Fatalf("expected embedded migrations")
	}

	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
}

func TestSnapshotTableIsIdempotent(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/000002_rate_snapshots.up.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !strings.Contains(string(body), "UNIQUE (base_currency, quote_currency, as_of_date, source)") {
		t.Fatalf("rate_snapshots must be unique per base, quote, date and source")
	}
}

func TestRunMigrationsInvalidURL(t *testing.T) {
	if err := RunMigrations("not-a-database-url"); err == nil {
		t.Fatalf("expected error for invalid database URL")
	}
}
