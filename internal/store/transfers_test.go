package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mlakar/hlev/internal/db"
	"github.com/mlakar/hlev/internal/model"
)

func TestTransferBasic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 5, "")
	animal, _ := CreateAnimal(ctx, database, "SI-001", "Liska", "cattle", "")

	transfer, err := TransferAnimal(ctx, database, loc.ID, animal.ID, "intake", nil)
	if err != nil {
		t.Fatalf("TransferAnimal: %v", err)
	}
	if transfer.AnimalID != animal.ID || transfer.LocationID != loc.ID {
		t.Errorf("unexpected transfer record: %+v", transfer)
	}
	if transfer.AnimalTag != "SI-001" || transfer.LocationName != "Barn A" {
		t.Errorf("expected joined tag and location name, got %+v", transfer)
	}

	moved, _ := GetAnimal(ctx, database, animal.ID)
	if moved.CurrentLocationID == nil || *moved.CurrentLocationID != loc.ID {
		t.Errorf("expected animal to be at location %d, got %v", loc.ID, moved.CurrentLocationID)
	}
}

func TestTransferCapacityFull(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 2, "")
	a1, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	a2, _ := CreateAnimal(ctx, database, "SI-002", "", "cattle", "")
	a3, _ := CreateAnimal(ctx, database, "SI-003", "", "cattle", "")

	if _, err := TransferAnimal(ctx, database, loc.ID, a1.ID, "", nil); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	if _, err := TransferAnimal(ctx, database, loc.ID, a2.ID, "", nil); err != nil {
		t.Fatalf("second transfer: %v", err)
	}

	// Third transfer into a full location must fail and change nothing.
	_, err := TransferAnimal(ctx, database, loc.ID, a3.ID, "", nil)
	if !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("expected ErrCapacityFull, got %v", err)
	}

	rejected, _ := GetAnimal(ctx, database, a3.ID)
	if rejected.CurrentLocationID != nil {
		t.Errorf("rejected animal should have no location, got %v", rejected.CurrentLocationID)
	}

	transfers, _ := ListTransfers(ctx, database, a3.ID, 0)
	if len(transfers) != 0 {
		t.Errorf("rejected transfer must not be recorded, got %d records", len(transfers))
	}

	occ, _ := GetOccupancy(ctx, database, loc.ID)
	if occ.Current != 2 {
		t.Errorf("occupancy must be unchanged after rejection, got %d", occ.Current)
	}
}

func TestTransferOccupancyProgression(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 2, "")
	a1, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	a2, _ := CreateAnimal(ctx, database, "SI-002", "", "cattle", "")

	TransferAnimal(ctx, database, loc.ID, a1.ID, "", nil)
	occ, _ := GetOccupancy(ctx, database, loc.ID)
	if occ.Current != 1 || occ.Rate == nil || *occ.Rate != 50 {
		t.Errorf("expected 1/2 at 50%%, got %+v", occ)
	}

	TransferAnimal(ctx, database, loc.ID, a2.ID, "", nil)
	occ, _ = GetOccupancy(ctx, database, loc.ID)
	if occ.Current != 2 || occ.Rate == nil || *occ.Rate != 100 {
		t.Errorf("expected 2/2 at 100%%, got %+v", occ)
	}
}

func TestTransferNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 5, "")
	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")

	if _, err := TransferAnimal(ctx, database, 9999, animal.ID, "", nil); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}
	if _, err := TransferAnimal(ctx, database, loc.ID, 9999, "", nil); !errors.Is(err, ErrAnimalNotFound) {
		t.Errorf("expected ErrAnimalNotFound, got %v", err)
	}
}

func TestTransferInactiveAnimal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 5, "")
	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	UpdateAnimal(ctx, database, animal.ID, animal.Tag, animal.Name, animal.Species, model.AnimalStatusInactive, "")

	if _, err := TransferAnimal(ctx, database, loc.ID, animal.ID, "", nil); !errors.Is(err, ErrAnimalInactive) {
		t.Errorf("expected ErrAnimalInactive, got %v", err)
	}
}

func TestTransferIntoOwnFullLocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// An animal already in a full location can be "moved" there again,
	// because it does not count against its own slot.
	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 1, "")
	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")

	if _, err := TransferAnimal(ctx, database, loc.ID, animal.ID, "", nil); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	if _, err := TransferAnimal(ctx, database, loc.ID, animal.ID, "again", nil); err != nil {
		t.Errorf("re-transfer into own location: %v", err)
	}
}

func TestTransferFreesSourceSlot(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	barnA, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 1, "")
	barnB, _ := CreateLocation(ctx, database, "Barn B", model.LocationTypeBarn, 1, "")
	a1, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	a2, _ := CreateAnimal(ctx, database, "SI-002", "", "cattle", "")

	TransferAnimal(ctx, database, barnA.ID, a1.ID, "", nil)

	// Barn A is full; moving its occupant out makes room again.
	if _, err := TransferAnimal(ctx, database, barnA.ID, a2.ID, "", nil); !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("expected ErrCapacityFull, got %v", err)
	}
	if _, err := TransferAnimal(ctx, database, barnB.ID, a1.ID, "", nil); err != nil {
		t.Fatalf("moving occupant out: %v", err)
	}
	if _, err := TransferAnimal(ctx, database, barnA.ID, a2.ID, "", nil); err != nil {
		t.Errorf("transfer into freed slot: %v", err)
	}
}

func TestTransferConcurrentLastSlot(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 1, "")

	const n = 8
	animals := make([]*model.Animal, n)
	for i := range animals {
		a, err := CreateAnimal(ctx, database, fmt.Sprintf("SI-%03d", i+1), "", "cattle", "")
		if err != nil {
			t.Fatalf("CreateAnimal: %v", err)
		}
		animals[i] = a
	}

	// All goroutines race for the single free slot; exactly one may win.
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = TransferAnimal(ctx, database, loc.ID, animals[i].ID, "", nil)
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrCapacityFull) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly 1 successful transfer, got %d", wins)
	}

	occ, _ := GetOccupancy(ctx, database, loc.ID)
	if occ.Current != 1 {
		t.Errorf("expected occupancy 1, got %d", occ.Current)
	}
}

func TestListTransfersFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	barnA, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 5, "")
	barnB, _ := CreateLocation(ctx, database, "Barn B", model.LocationTypeBarn, 5, "")
	a1, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	a2, _ := CreateAnimal(ctx, database, "SI-002", "", "cattle", "")

	TransferAnimal(ctx, database, barnA.ID, a1.ID, "", nil)
	TransferAnimal(ctx, database, barnA.ID, a2.ID, "", nil)
	TransferAnimal(ctx, database, barnB.ID, a1.ID, "", nil)

	all, _ := ListTransfers(ctx, database, 0, 0)
	if len(all) != 3 {
		t.Errorf("expected 3 transfers, got %d", len(all))
	}

	byAnimal, _ := ListTransfers(ctx, database, a1.ID, 0)
	if len(byAnimal) != 2 {
		t.Errorf("expected 2 transfers for animal 1, got %d", len(byAnimal))
	}

	byLocation, _ := ListTransfers(ctx, database, 0, barnB.ID)
	if len(byLocation) != 1 {
		t.Errorf("expected 1 transfer to Barn B, got %d", len(byLocation))
	}
}
