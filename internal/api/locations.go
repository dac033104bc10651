package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mlakar/hlev/internal/model"
	"github.com/mlakar/hlev/internal/store"
)

// LocationsHandler handles location endpoints, including occupancy and
// the capacity-aware transfer.
type LocationsHandler struct {
	DB *sql.DB
}

type createLocationRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Notes    string `json:"notes"`
}

type updateLocationRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

type transferRequest struct {
	AnimalID int64  `json:"animal_id"`
	Notes    string `json:"notes"`
}

// List handles GET /api/locations.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	locType := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")
	locations, err := store.ListLocations(r.Context(), h.DB, locType, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list locations")
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, locations)
}

// ListAvailable handles GET /api/locations/available.
func (h *LocationsHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	locType := r.URL.Query().Get("type")
	locations, err := store.ListAvailableLocations(r.Context(), h.DB, locType)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list available locations")
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, locations)
}

// Create handles POST /api/locations.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Type == "" {
		jsonError(w, http.StatusBadRequest, "name and type required")
		return
	}
	if req.Capacity < 0 {
		jsonError(w, http.StatusBadRequest, "capacity must not be negative")
		return
	}

	location, err := store.CreateLocation(r.Context(), h.DB, req.Name, req.Type, req.Capacity, req.Notes)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create location")
		return
	}

	jsonResponse(w, http.StatusCreated, location)
}

// Get handles GET /api/locations/{id}.
func (h *LocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	location, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get location")
		return
	}
	if location == nil {
		jsonError(w, http.StatusNotFound, "location not found")
		return
	}

	occupancy, err := store.GetOccupancy(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"location":  location,
		"occupancy": occupancy,
	})
}

// Update handles PUT /api/locations/{id}.
func (h *LocationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	var req updateLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Type == "" {
		jsonError(w, http.StatusBadRequest, "name and type required")
		return
	}
	if req.Capacity < 0 {
		jsonError(w, http.StatusBadRequest, "capacity must not be negative")
		return
	}
	if req.Status == "" {
		req.Status = model.LocationStatusActive
	}
	if req.Status != model.LocationStatusActive && req.Status != model.LocationStatusInactive {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := store.UpdateLocation(r.Context(), h.DB, id, req.Name, req.Type, req.Capacity, req.Status, req.Notes); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update location")
		return
	}

	location, _ := store.GetLocation(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, location)
}

// Delete handles DELETE /api/locations/{id}.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	if err := store.DeleteLocation(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "location deleted"})
}

// GetOccupancy handles GET /api/locations/{id}/occupancy.
func (h *LocationsHandler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	occupancy, err := store.GetOccupancy(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, occupancy)
}

// GetAnimals handles GET /api/locations/{id}/animals.
func (h *LocationsHandler) GetAnimals(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	animals, err := store.GetLocationAnimals(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if animals == nil {
		animals = []model.Animal{}
	}
	jsonResponse(w, http.StatusOK, animals)
}

// Transfer handles POST /api/locations/{id}/transfer.
func (h *LocationsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AnimalID <= 0 {
		jsonError(w, http.StatusBadRequest, "animal_id required")
		return
	}

	claims := GetClaims(r.Context())
	transfer, err := store.TransferAnimal(r.Context(), h.DB, id, req.AnimalID, req.Notes, userID(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrCapacityFull) {
			transfersTotal.WithLabelValues(transferRejected).Inc()
		} else {
			transfersTotal.WithLabelValues(transferFailed).Inc()
		}
		storeError(w, err)
		return
	}

	transfersTotal.WithLabelValues(transferAccepted).Inc()
	slog.Info("animal transferred",
		"user", claims.Username,
		"animal", transfer.AnimalTag,
		"location", transfer.LocationName,
	)
	jsonResponse(w, http.StatusCreated, transfer)
}
