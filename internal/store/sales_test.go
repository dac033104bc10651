package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mlakar/hlev/internal/db"
	"github.com/mlakar/hlev/internal/model"
)

func TestSaleDeactivatesAnimal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	loc, _ := CreateLocation(ctx, database, "Barn A", model.LocationTypeBarn, 1, "")
	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	TransferAnimal(ctx, database, loc.ID, animal.ID, "", nil)

	price := decimal.RequireFromString("1250.50")
	sale, err := CreateSale(ctx, database, animal.ID, "Kmetija Novak", price, "", nil)
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !sale.Price.Equal(price) || sale.AnimalTag != "SI-001" {
		t.Errorf("unexpected sale: %+v", sale)
	}

	// The sold animal is inactive and unassigned.
	sold, _ := GetAnimal(ctx, database, animal.ID)
	if sold.Status != model.AnimalStatusInactive || sold.CurrentLocationID != nil {
		t.Errorf("expected sold animal inactive and unassigned, got %+v", sold)
	}

	// The sale freed the location slot.
	occ, _ := GetOccupancy(ctx, database, loc.ID)
	if occ.Current != 0 {
		t.Errorf("expected empty location after sale, got %d", occ.Current)
	}

	other, _ := CreateAnimal(ctx, database, "SI-002", "", "cattle", "")
	if _, err := TransferAnimal(ctx, database, loc.ID, other.ID, "", nil); err != nil {
		t.Errorf("transfer into freed slot: %v", err)
	}
}

func TestSaleRejectsInactiveAnimal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	price := decimal.RequireFromString("100")

	if _, err := CreateSale(ctx, database, animal.ID, "Buyer", price, "", nil); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// An animal cannot be sold twice.
	if _, err := CreateSale(ctx, database, animal.ID, "Buyer", price, "", nil); !errors.Is(err, ErrAnimalInactive) {
		t.Errorf("expected ErrAnimalInactive, got %v", err)
	}
}

func TestSaleUnknownAnimal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	price := decimal.RequireFromString("100")
	if _, err := CreateSale(ctx, database, 9999, "Buyer", price, "", nil); !errors.Is(err, ErrAnimalNotFound) {
		t.Errorf("expected ErrAnimalNotFound, got %v", err)
	}
}

func TestSaleNegativePrice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	animal, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	price := decimal.RequireFromString("-1")
	if _, err := CreateSale(ctx, database, animal.ID, "Buyer", price, "", nil); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestSalesSummaryExactTotal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a1, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	a2, _ := CreateAnimal(ctx, database, "SI-002", "", "cattle", "")
	a3, _ := CreateAnimal(ctx, database, "SI-003", "", "cattle", "")

	CreateSale(ctx, database, a1.ID, "Buyer", decimal.RequireFromString("0.10"), "", nil)
	CreateSale(ctx, database, a2.ID, "Buyer", decimal.RequireFromString("0.20"), "", nil)
	CreateSale(ctx, database, a3.ID, "Buyer", decimal.RequireFromString("1000.05"), "", nil)

	summary, err := GetSalesSummary(ctx, database)
	if err != nil {
		t.Fatalf("GetSalesSummary: %v", err)
	}
	if summary.Count != 3 {
		t.Errorf("expected 3 sales, got %d", summary.Count)
	}
	if !summary.Total.Equal(decimal.RequireFromString("1000.35")) {
		t.Errorf("expected total 1000.35, got %s", summary.Total)
	}
}

func TestListSalesFiltered(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a1, _ := CreateAnimal(ctx, database, "SI-001", "", "cattle", "")
	a2, _ := CreateAnimal(ctx, database, "SI-002", "", "cattle", "")

	CreateSale(ctx, database, a1.ID, "Buyer A", decimal.RequireFromString("100"), "", nil)
	CreateSale(ctx, database, a2.ID, "Buyer B", decimal.RequireFromString("200"), "", nil)

	all, _ := ListSales(ctx, database, 0)
	if len(all) != 2 {
		t.Errorf("expected 2 sales, got %d", len(all))
	}

	byAnimal, _ := ListSales(ctx, database, a1.ID)
	if len(byAnimal) != 1 || byAnimal[0].Buyer != "Buyer A" {
		t.Errorf("expected 1 sale for animal 1, got %+v", byAnimal)
	}
}
