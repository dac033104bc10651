package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/mlakar/hlev/internal/model"
	"github.com/mlakar/hlev/internal/store"
)

// TransfersHandler handles transfer history endpoints. Transfers are
// created through the location transfer endpoint; this only reads.
type TransfersHandler struct {
	DB *sql.DB
}

// List handles GET /api/transfers.
func (h *TransfersHandler) List(w http.ResponseWriter, r *http.Request) {
	var animalID, locationID int64

	if v := r.URL.Query().Get("animal_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid animal_id")
			return
		}
		animalID = id
	}

	if v := r.URL.Query().Get("location_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid location_id")
			return
		}
		locationID = id
	}

	transfers, err := store.ListTransfers(r.Context(), h.DB, animalID, locationID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list transfers")
		return
	}
	if transfers == nil {
		transfers = []model.Transfer{}
	}
	jsonResponse(w, http.StatusOK, transfers)
}
