package store

import (
	"context"
	"testing"

	"github.com/mlakar/hlev/internal/db"
)

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Unset keys read back as empty.
	value, err := GetSetting(ctx, database, "farm_name")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}

	if err := SetSetting(ctx, database, "farm_name", "Kmetija Mlakar"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	value, _ = GetSetting(ctx, database, "farm_name")
	if value != "Kmetija Mlakar" {
		t.Errorf("expected stored value, got %q", value)
	}

	// Overwrite replaces.
	SetSetting(ctx, database, "farm_name", "Kmetija Novak")
	value, _ = GetSetting(ctx, database, "farm_name")
	if value != "Kmetija Novak" {
		t.Errorf("expected replaced value, got %q", value)
	}
}

func TestJWTSecretStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}

	// Repeated calls return the same secret.
	second, _ := GetJWTSecret(ctx, database)
	if first != second {
		t.Error("expected stable jwt secret across calls")
	}
}
