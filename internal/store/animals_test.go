package store

import (
	"context"
	"testing"

	"github.com/mlakar/hlev/internal/db"
	"github.com/mlakar/hlev/internal/model"
)

func TestAnimalCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	animal, err := CreateAnimal(ctx, database, "SI-001", "Liska", "cattle", "born 2024")
	if err != nil {
		t.Fatalf("CreateAnimal: %v", err)
	}
	if animal.Tag != "SI-001" || animal.Status != model.AnimalStatusActive {
		t.Errorf("unexpected animal: %+v", animal)
	}
	if animal.CurrentLocationID != nil {
		t.Errorf("new animal should be unassigned, got location %v", *animal.CurrentLocationID)
	}

	if err := UpdateAnimal(ctx, database, animal.ID, "SI-001", "Liska", "cattle", model.AnimalStatusInactive, ""); err != nil {
		t.Fatalf("UpdateAnimal: %v", err)
	}
	updated, _ := GetAnimal(ctx, database, animal.ID)
	if updated.Status != model.AnimalStatusInactive {
		t.Errorf("expected inactive status, got %s", updated.Status)
	}

	if err := DeleteAnimal(ctx, database, animal.ID); err != nil {
		t.Fatalf("DeleteAnimal: %v", err)
	}
	deleted, _ := GetAnimal(ctx, database, animal.ID)
	if deleted != nil {
		t.Error("expected deleted animal to be gone")
	}
}

func TestCreateAnimalDuplicateTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateAnimal(ctx, database, "SI-001", "", "cattle", ""); err != nil {
		t.Fatalf("CreateAnimal: %v", err)
	}
	if _, err := CreateAnimal(ctx, database, "SI-001", "", "cattle", ""); err == nil {
		t.Error("expected error for duplicate tag")
	}
}

func TestTagReusableAfterDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	DeleteAnimal(ctx, database, animal.ID)

	// The unique index only covers live rows.
	if _, err := CreateAnimal(ctx, database, "SI-001", "", "cattle", ""); err != nil {
		t.Errorf("expected tag to be reusable after deletion: %v", err)
	}
}

func TestListAnimalsFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 5, "")
	a1, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	a2, _ := CreateAnimal(ctx, database, "SI-002", "", "sheep", "")
	CreateAnimal(ctx, database, "SI-003", "", "cattle", "")

	TransferAnimal(ctx, database, loc.ID, a1.ID, "", nil)
	UpdateAnimal(ctx, database, a2.ID, a2.Tag, a2.Name, a2.Species, model.AnimalStatusInactive, "")

	all, _ := ListAnimals(ctx, database, "", 0)
	if len(all) != 3 {
		t.Errorf("expected 3 animals, got %d", len(all))
	}

	active, _ := ListAnimals(ctx, database, model.AnimalStatusActive, 0)
	if len(active) != 2 {
		t.Errorf("expected 2 active animals, got %d", len(active))
	}

	atBarn, _ := ListAnimals(ctx, database, "", loc.ID)
	if len(atBarn) != 1 || atBarn[0].ID != a1.ID {
		t.Errorf("expected only SI-001 at barn, got %+v", atBarn)
	}
}

func TestAnimalPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")

	data := []byte{0xff, 0xd8, 0xff, 0xe0}
	if err := SetAnimalPhoto(ctx, database, animal.ID, data, "image/jpeg"); err != nil {
		t.Fatalf("SetAnimalPhoto: %v", err)
	}

	photo, mime, err := GetAnimalPhoto(ctx, database, animal.ID)
	if err != nil {
		t.Fatalf("GetAnimalPhoto: %v", err)
	}
	if mime != "image/jpeg" || len(photo) != len(data) {
		t.Errorf("expected stored photo back, got mime %q and %d bytes", mime, len(photo))
	}
}

func TestAnimalHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	barnA, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 5, "")
	barnB, _ := CreateLocation(ctx, database, "Barn B", model.LocationTypeBarn, 5, "")
	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")

	TransferAnimal(ctx, database, barnA.ID, animal.ID, "intake", nil)
	TransferAnimal(ctx, database, barnB.ID, animal.ID, "rotation", nil)

	history, err := GetAnimalHistory(ctx, database, animal.ID)
	if err != nil {
		t.Fatalf("GetAnimalHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}

	// Newest first.
	if history[0].LocationID != barnB.ID || history[1].LocationID != barnA.ID {
		t.Errorf("expected newest-first history, got %+v", history)
	}
}
