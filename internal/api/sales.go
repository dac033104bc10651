package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mlakar/hlev/internal/model"
	"github.com/mlakar/hlev/internal/store"
)

// SalesHandler handles sale endpoints.
type SalesHandler struct {
	DB *sql.DB
}

type createSaleRequest struct {
	AnimalID int64  `json:"animal_id"`
	Buyer    string `json:"buyer"`
	Price    string `json:"price"`
	Notes    string `json:"notes"`
}

// List handles GET /api/sales.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	var animalID int64
	if v := r.URL.Query().Get("animal_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid animal_id")
			return
		}
		animalID = id
	}

	sales, err := store.ListSales(r.Context(), h.DB, animalID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	jsonResponse(w, http.StatusOK, sales)
}

// Create handles POST /api/sales.
func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AnimalID <= 0 || req.Buyer == "" || req.Price == "" {
		jsonError(w, http.StatusBadRequest, "animal_id, buyer, and price required")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		jsonError(w, http.StatusBadRequest, "price must be a non-negative decimal")
		return
	}

	claims := GetClaims(r.Context())
	sale, err := store.CreateSale(r.Context(), h.DB, req.AnimalID, req.Buyer, price, req.Notes, userID(r.Context()))
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("animal sold",
		"user", claims.Username,
		"animal", sale.AnimalTag,
		"buyer", sale.Buyer,
		"price", sale.Price.String(),
	)
	jsonResponse(w, http.StatusCreated, sale)
}

// Get handles GET /api/sales/{id}.
func (h *SalesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	sale, err := store.GetSale(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get sale")
		return
	}
	if sale == nil {
		jsonError(w, http.StatusNotFound, "sale not found")
		return
	}

	jsonResponse(w, http.StatusOK, sale)
}

// Summary handles GET /api/sales/summary.
func (h *SalesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := store.GetSalesSummary(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to summarize sales")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}
