package api

import (
	"database/sql"
	"net/http"

	"github.com/mlakar/hlev/internal/store"
)

// SettingsHandler handles farm-level settings (admin only).
type SettingsHandler struct {
	DB *sql.DB
}

// Keys exposed through the settings API. The jwt_secret key is internal
// and never readable or writable over HTTP.
var exposedSettings = map[string]bool{
	"farm_name": true,
	"currency":  true,
}

type updateSettingRequest struct {
	Value string `json:"value"`
}

// Get handles GET /api/settings/{key}.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !exposedSettings[key] {
		jsonError(w, http.StatusNotFound, "unknown setting")
		return
	}

	value, err := store.GetSetting(r.Context(), h.DB, key)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get setting")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// Update handles PUT /api/settings/{key}.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !exposedSettings[key] {
		jsonError(w, http.StatusNotFound, "unknown setting")
		return
	}

	var req updateSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.SetSetting(r.Context(), h.DB, key, req.Value); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update setting")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}
