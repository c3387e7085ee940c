package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOffersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_offers.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no offers migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS offers",
		"FOREIGN KEY (provider_id) REFERENCES providers(id) ON DELETE CASCADE",
		"CHECK (discount_percent IS NULL OR (discount_percent > 0 AND discount_percent <= 100))",
		"CHECK (exchange_type <> 'discount' OR discount_percent IS NOT NULL)",
		"DROP TABLE IF EXISTS offers",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestApplicationsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_applications.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no applications migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS applications",
		"CREATE UNIQUE INDEX IF NOT EXISTS applications_offer_creator_key ON applications (offer_id, creator_id)",
		"FOREIGN KEY (offer_id) REFERENCES offers(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS applications",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
