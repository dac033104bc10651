package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mlakar/hlev/internal/model"
)

// CreateSale records an animal sale in a single transaction. The sold
// animal is deactivated and released from its location, freeing the slot
// on the next occupancy read.
func CreateSale(ctx context.Context, db *sql.DB, animalID int64, buyer string, price decimal.Decimal, notes string, createdBy *int64) (*model.Sale, error) {
	if price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM animals WHERE id = ? AND deleted_at IS NULL`, animalID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, ErrAnimalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting animal: %w", err)
	}
	if status != model.AnimalStatusActive {
		return nil, ErrAnimalInactive
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sales (animal_id, buyer, price, notes, created_by)
		 VALUES (?, ?, ?, ?, ?)`,
		animalID, buyer, price.String(), notes, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sale: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE animals SET status = ?, current_location_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		model.AnimalStatusInactive, animalID,
	)
	if err != nil {
		return nil, fmt.Errorf("deactivating sold animal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	saleID, _ := result.LastInsertId()
	return GetSale(ctx, db, saleID)
}

// GetSale returns a sale by ID.
func GetSale(ctx context.Context, db *sql.DB, id int64) (*model.Sale, error) {
	s := &model.Sale{}
	var price string
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT s.id, s.animal_id, s.buyer, s.price, s.sold_at, s.notes, s.created_by,
		        a.tag AS animal_tag
		 FROM sales s
		 JOIN animals a ON a.id = s.animal_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.AnimalID, &s.Buyer, &price, &s.SoldAt, &notes, &s.CreatedBy, &s.AnimalTag)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale: %w", err)
	}
	s.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parsing sale price: %w", err)
	}
	s.Notes = notes.String
	return s, nil
}

// ListSales returns sales, optionally filtered by animal, newest first.
func ListSales(ctx context.Context, db *sql.DB, animalID int64) ([]model.Sale, error) {
	query := `SELECT s.id, s.animal_id, s.buyer, s.price, s.sold_at, s.notes, s.created_by,
	                 a.tag AS animal_tag
	          FROM sales s
	          JOIN animals a ON a.id = s.animal_id
	          WHERE 1=1`
	var args []any

	if animalID > 0 {
		query += ` AND s.animal_id = ?`
		args = append(args, animalID)
	}

	query += ` ORDER BY s.sold_at DESC, s.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var s model.Sale
		var price string
		var notes sql.NullString
		if err := rows.Scan(&s.ID, &s.AnimalID, &s.Buyer, &price, &s.SoldAt, &notes,
			&s.CreatedBy, &s.AnimalTag); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		s.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parsing sale price: %w", err)
		}
		s.Notes = notes.String
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// GetSalesSummary returns the number of sales and the exact price total.
// Prices are summed as decimals, not floats.
func GetSalesSummary(ctx context.Context, db *sql.DB) (*model.SalesSummary, error) {
	rows, err := db.QueryContext(ctx, `SELECT price FROM sales`)
	if err != nil {
		return nil, fmt.Errorf("summarizing sales: %w", err)
	}
	defer rows.Close()

	summary := &model.SalesSummary{Total: decimal.Zero}
	for rows.Next() {
		var price string
		if err := rows.Scan(&price); err != nil {
			return nil, fmt.Errorf("scanning sale price: %w", err)
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parsing sale price: %w", err)
		}
		summary.Total = summary.Total.Add(d)
		summary.Count++
	}
	return summary, rows.Err()
}
